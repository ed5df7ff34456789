package model

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/lightmap-viewer/internal/engine/collision"
)

// NewMesh builds a mesh from raw attribute streams. normals, uv0 and uv1 may
// be nil or shorter than positions; missing entries are zero, except that a
// missing uv1 falls back to uv0. A nil indices slice means non-indexed triangles.
func NewMesh(name string, positions, normals [][3]float32, uv0, uv1 [][2]float32, indices []uint32, opts BuildOptions) (*Mesh, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("mesh %s: no positions", name)
	}
	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %s: index count %d is not a multiple of 3", name, len(indices))
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("mesh %s: index %d out of range (%d vertices)", name, idx, len(positions))
		}
	}

	m := &Mesh{
		Name:         name,
		Vertices:     make([]Vertex, len(positions)),
		Indices:      append([]uint32(nil), indices...),
		HasTexCoord1: len(uv1) > 0,
		Bounds:       emptyBounds(),
	}
	for i, p := range positions {
		v := Vertex{Position: p}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uv0) {
			v.TexCoord = uv0[i]
		}
		if i < len(uv1) {
			v.TexCoord1 = uv1[i]
		} else {
			v.TexCoord1 = v.TexCoord
		}
		m.Vertices[i] = v
		updateBounds(&m.Bounds, p)
	}

	if opts.ReverseWinding {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			m.Indices[i+1], m.Indices[i+2] = m.Indices[i+2], m.Indices[i+1]
		}
	}
	if opts.GenerateNormals && len(normals) < len(positions) {
		AccumulateNormals(m.Vertices, m.Indices)
		SmoothNormals(m.Vertices)
	}
	return m, nil
}

// RecomputeBounds refits Bounds to the current vertex positions.
func (m *Mesh) RecomputeBounds() {
	m.Bounds = emptyBounds()
	for _, v := range m.Vertices {
		updateBounds(&m.Bounds, v.Position)
	}
}

// AccumulateNormals sets each vertex normal to the normalized sum of the face
// normals of the triangles that use it.
func AccumulateNormals(vertices []Vertex, indices []uint32) {
	sums := make([][3]float32, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
		e1 := [3]float32{pb[0] - pa[0], pb[1] - pa[1], pb[2] - pa[2]}
		e2 := [3]float32{pc[0] - pa[0], pc[1] - pa[1], pc[2] - pa[2]}
		n := Cross(e1, e2)
		for _, idx := range [3]uint32{a, b, c} {
			sums[idx][0] += n[0]
			sums[idx][1] += n[1]
			sums[idx][2] += n[2]
		}
	}
	for i := range vertices {
		vertices[i].Normal = Normalize(sums[i])
	}
}

// SmoothNormals averages normals at shared vertex positions.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := Normalize(sum)
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// Triangles returns the mesh's triangles for collision.
func (m *Mesh) Triangles() []collision.Triangle {
	tris := make([]collision.Triangle, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var t collision.Triangle
		for k := 0; k < 3; k++ {
			t[k] = m.Vertices[m.Indices[i+k]].Position
		}
		tris = append(tris, t)
	}
	return tris
}

// CollisionTriangles returns every triangle of every visible mesh.
func (md *Model) CollisionTriangles() []collision.Triangle {
	var tris []collision.Triangle
	for _, m := range md.Meshes {
		if m.Material != nil && !m.Material.Visible {
			continue
		}
		tris = append(tris, m.Triangles()...)
	}
	return tris
}

// TriangleCount returns the number of triangles across all meshes.
func (md *Model) TriangleCount() int {
	n := 0
	for _, m := range md.Meshes {
		n += len(m.Indices) / 3
	}
	return n
}

// AddMesh appends a mesh and grows the model bounds.
func (md *Model) AddMesh(m *Mesh) {
	if len(md.Meshes) == 0 {
		md.Bounds = m.Bounds
	} else {
		updateBounds(&md.Bounds, m.Bounds.Min)
		updateBounds(&md.Bounds, m.Bounds.Max)
	}
	md.Meshes = append(md.Meshes, m)
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

func emptyBounds() Bounds {
	inf := math32.Inf(1)
	return Bounds{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
