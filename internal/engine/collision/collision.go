// Package collision moves ellipsoids through static triangle geometry.
package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultCellSize is the XZ grid cell edge length in world units.
	DefaultCellSize = 4.0

	// maxCellsPerTriangle sends triangles spanning more cells than this to
	// the always-checked list instead of the grid.
	maxCellsPerTriangle = 64

	// resolveIterations bounds the push-out passes per sub-step. Each pass
	// resolves a single contact.
	resolveIterations = 8

	// groundNormalY is the minimum normal Y for a contact to count as standing on ground.
	groundNormalY = 0.5

	epsilon = 1e-5
)

// Triangle is three world-space vertices.
type Triangle [3]mgl32.Vec3

// Normal returns the unit face normal, or zero for degenerate triangles.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	l := n.Len()
	if l < epsilon {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

type cellKey struct{ x, z int32 }

// World is a static collision mesh.
type World struct {
	tris     []Triangle
	bounds   [][2]mgl32.Vec3 // per-triangle AABB
	grid     map[cellKey][]int32
	large    []int32
	cellSize float32

	// scratch for de-duplicating candidates across cells
	stamp []uint32
	epoch uint32
}

// NewWorld creates an empty world with the given grid cell size.
func NewWorld(cellSize float32) *World {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &World{
		grid:     make(map[cellKey][]int32),
		cellSize: cellSize,
	}
}

// Len returns the number of triangles in the world.
func (w *World) Len() int {
	return len(w.tris)
}

// AddTriangles inserts triangles; degenerate ones are skipped.
func (w *World) AddTriangles(tris []Triangle) {
	for _, t := range tris {
		if t.Normal() == (mgl32.Vec3{}) {
			continue
		}
		idx := int32(len(w.tris))
		w.tris = append(w.tris, t)
		w.stamp = append(w.stamp, 0)

		lo, hi := triBounds(t)
		w.bounds = append(w.bounds, [2]mgl32.Vec3{lo, hi})

		x0, z0 := w.cell(lo)
		x1, z1 := w.cell(hi)
		if int64(x1-x0+1)*int64(z1-z0+1) > maxCellsPerTriangle {
			w.large = append(w.large, idx)
			continue
		}
		for x := x0; x <= x1; x++ {
			for z := z0; z <= z1; z++ {
				k := cellKey{x, z}
				w.grid[k] = append(w.grid[k], idx)
			}
		}
	}
}

// AddPlane inserts a horizontal square of the given size centered at (0, y, 0), facing up.
func (w *World) AddPlane(size, y float32) {
	h := size / 2
	a := mgl32.Vec3{-h, y, -h}
	b := mgl32.Vec3{h, y, -h}
	c := mgl32.Vec3{h, y, h}
	d := mgl32.Vec3{-h, y, h}
	// Counter-clockwise seen from above so normals point +Y.
	w.AddTriangles([]Triangle{{a, d, c}, {a, c, b}})
}

func (w *World) cell(p mgl32.Vec3) (int32, int32) {
	return int32(math32.Floor(p.X() / w.cellSize)), int32(math32.Floor(p.Z() / w.cellSize))
}

// query calls fn for each triangle whose bounds overlap [lo, hi].
func (w *World) query(lo, hi mgl32.Vec3, fn func(Triangle)) {
	w.epoch++
	visit := func(idx int32) {
		if w.stamp[idx] == w.epoch {
			return
		}
		w.stamp[idx] = w.epoch
		b := w.bounds[idx]
		if b[0].X() > hi.X() || b[1].X() < lo.X() ||
			b[0].Y() > hi.Y() || b[1].Y() < lo.Y() ||
			b[0].Z() > hi.Z() || b[1].Z() < lo.Z() {
			return
		}
		fn(w.tris[idx])
	}

	for _, idx := range w.large {
		visit(idx)
	}
	x0, z0 := w.cell(lo)
	x1, z1 := w.cell(hi)
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			for _, idx := range w.grid[cellKey{x, z}] {
				visit(idx)
			}
		}
	}
}

// Collide moves an ellipsoid centered at center with the given radii by
// displacement, sliding along any geometry it touches. It returns the final
// center and whether the ellipsoid rested on a walkable surface.
func (w *World) Collide(center, radii, displacement mgl32.Vec3) (mgl32.Vec3, bool) {
	if len(w.tris) == 0 {
		return center.Add(displacement), false
	}

	minR := math32.Min(radii.X(), math32.Min(radii.Y(), radii.Z()))
	if minR <= 0 {
		return center.Add(displacement), false
	}

	// Sub-step so a single step cannot tunnel through a thin surface.
	maxStep := minR * 0.5
	steps := int(math32.Ceil(displacement.Len() / maxStep))
	if steps < 1 {
		steps = 1
	}
	step := displacement.Mul(1 / float32(steps))

	pos := center
	grounded := false
	for i := 0; i < steps; i++ {
		var onGround bool
		pos, onGround = w.resolve(pos.Add(step), radii)
		grounded = grounded || onGround
	}
	return pos, grounded
}

// resolve pushes an ellipsoid at pos out of the triangles it overlaps, one
// contact per pass, deepest first. A center that projects into a face is
// pushed along the face normal, so shared edges add no sideways slide.
func (w *World) resolve(pos, radii mgl32.Vec3) (mgl32.Vec3, bool) {
	inv := mgl32.Vec3{1 / radii.X(), 1 / radii.Y(), 1 / radii.Z()}
	toE := func(v mgl32.Vec3) mgl32.Vec3 { return mul(v, inv) }
	grounded := false

	for iter := 0; iter < resolveIterations; iter++ {
		p := toE(pos)
		lo := pos.Sub(radii)
		hi := pos.Add(radii)

		var (
			push  mgl32.Vec3
			depth float32
		)
		w.query(lo, hi, func(t Triangle) {
			et := Triangle{toE(t[0]), toE(t[1]), toE(t[2])}
			fn := et[1].Sub(et[0]).Cross(et[2].Sub(et[0]))
			if l := fn.Len(); l > 0 {
				fn = fn.Mul(1 / l)
			} else {
				return
			}

			var (
				n    mgl32.Vec3
				dist float32
			)
			if s := p.Sub(et[0]).Dot(fn); math32.Abs(s) < 1 && insideFace(p, et, fn) {
				n, dist = fn, s
				if s < 0 {
					n, dist = fn.Mul(-1), -s
				}
			} else {
				d := p.Sub(ClosestPointOnTriangle(p, et))
				dist = d.Len()
				if dist < epsilon {
					n = fn
				} else {
					n = d.Mul(1 / dist)
				}
			}
			if dist >= 1 || 1-dist <= depth {
				return
			}
			push = n
			depth = 1 - dist
		})

		if depth == 0 {
			break
		}
		p = p.Add(push.Mul(depth + epsilon))
		pos = mul(p, radii)
		if wn := mul(push, inv).Normalize(); wn.Y() > groundNormalY {
			grounded = true
		}
	}
	return pos, grounded
}

// insideFace reports whether p projects onto t along its unit normal n.
func insideFace(p mgl32.Vec3, t Triangle, n mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		a, b := t[i], t[(i+1)%3]
		if b.Sub(a).Cross(p.Sub(a)).Dot(n) < 0 {
			return false
		}
	}
	return true
}

// ClosestPointOnTriangle returns the point of t nearest to p.
func ClosestPointOnTriangle(p mgl32.Vec3, t Triangle) mgl32.Vec3 {
	a, b, c := t[0], t[1], t[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

func triBounds(t Triangle) (mgl32.Vec3, mgl32.Vec3) {
	lo, hi := t[0], t[0]
	for _, v := range t[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math32.Min(lo[i], v[i])
			hi[i] = math32.Max(hi[i], v[i])
		}
	}
	return lo, hi
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
