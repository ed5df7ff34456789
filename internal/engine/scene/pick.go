package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/model"
	"github.com/Faultbox/lightmap-viewer/internal/engine/picking"
)

// Hit is the nearest surface under a pick ray.
type Hit struct {
	Mesh     *model.Mesh
	Material *material.Material
	Distance float32
	Point    mgl32.Vec3
}

// Pick returns the nearest visible mesh the ray hits.
func (s *Scene) Pick(ray picking.Ray) (Hit, bool) {
	meshes := make([]*model.Mesh, len(s.drawables))
	for i, d := range s.drawables {
		meshes[i] = d.src
	}
	return pickMeshes(meshes, ray)
}

func pickMeshes(meshes []*model.Mesh, ray picking.Ray) (Hit, bool) {
	var best Hit
	found := false
	for _, m := range meshes {
		if m.Material != nil && !m.Material.Visible {
			continue
		}
		box := picking.NewAABB(mgl32.Vec3(m.Bounds.Min), mgl32.Vec3(m.Bounds.Max))
		if t, ok := ray.IntersectAABB(box); !ok || (found && t > best.Distance) {
			continue
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := mgl32.Vec3(m.Vertices[m.Indices[i]].Position)
			b := mgl32.Vec3(m.Vertices[m.Indices[i+1]].Position)
			c := mgl32.Vec3(m.Vertices[m.Indices[i+2]].Position)
			t, ok := ray.IntersectTriangle(a, b, c)
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = Hit{Mesh: m, Material: m.Material, Distance: t, Point: ray.At(t)}
			found = true
		}
	}
	return best, found
}
