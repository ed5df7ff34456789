package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/model"
	"github.com/Faultbox/lightmap-viewer/internal/engine/picking"
)

// quad builds a 2x2 horizontal square at height y.
func quad(t *testing.T, name string, y float32) *model.Mesh {
	t.Helper()
	m, err := model.NewMesh(name,
		[][3]float32{{-1, y, -1}, {1, y, -1}, {1, y, 1}, {-1, y, 1}},
		nil, nil, nil,
		[]uint32{0, 2, 1, 0, 3, 2},
		model.BuildOptions{},
	)
	require.NoError(t, err)
	m.Material = material.New(name)
	return m
}

func TestPickNearest(t *testing.T) {
	floor := quad(t, "floor", 0)
	shelf := quad(t, "shelf", 1)
	ray := picking.Ray{Origin: mgl32.Vec3{0.3, 5, 0.2}, Direction: mgl32.Vec3{0, -1, 0}}

	hit, ok := pickMeshes([]*model.Mesh{floor, shelf}, ray)
	require.True(t, ok)
	assert.Equal(t, "shelf", hit.Material.Name)
	assert.InDelta(t, 4, hit.Distance, 1e-5)
	assert.InDelta(t, 1, hit.Point.Y(), 1e-5)
}

func TestPickSkipsInvisible(t *testing.T) {
	floor := quad(t, "floor", 0)
	shelf := quad(t, "shelf", 1)
	shelf.Material.Visible = false
	ray := picking.Ray{Origin: mgl32.Vec3{0, 5, 0.5}, Direction: mgl32.Vec3{0, -1, 0}}

	hit, ok := pickMeshes([]*model.Mesh{shelf, floor}, ray)
	require.True(t, ok)
	assert.Same(t, floor, hit.Mesh)
}

func TestPickMiss(t *testing.T) {
	ray := picking.Ray{Origin: mgl32.Vec3{3, 5, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	_, ok := pickMeshes([]*model.Mesh{quad(t, "floor", 0)}, ray)
	assert.False(t, ok)

	_, ok = pickMeshes(nil, ray)
	assert.False(t, ok)
}
