package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func vecInDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestClosestPointOnTriangle(t *testing.T) {
	tri := Triangle{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}

	tests := []struct {
		name string
		p    mgl32.Vec3
		want mgl32.Vec3
	}{
		{"above interior", mgl32.Vec3{0.2, 1, 0.2}, mgl32.Vec3{0.2, 0, 0.2}},
		{"vertex a region", mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{0, 0, 0}},
		{"vertex b region", mgl32.Vec3{2, 0, -0.5}, mgl32.Vec3{1, 0, 0}},
		{"vertex c region", mgl32.Vec3{-0.5, 0, 2}, mgl32.Vec3{0, 0, 1}},
		{"edge ab", mgl32.Vec3{0.5, 0, -1}, mgl32.Vec3{0.5, 0, 0}},
		{"edge ac", mgl32.Vec3{-1, 0, 0.5}, mgl32.Vec3{0, 0, 0.5}},
		{"edge bc", mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0.5, 0, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vecInDelta(t, tt.want, ClosestPointOnTriangle(tt.p, tri), 1e-5)
		})
	}
}

func TestTriangleNormal(t *testing.T) {
	n := Triangle{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}}.Normal()
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, n, 1e-6)

	assert.Equal(t, mgl32.Vec3{}, Triangle{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}.Normal())
}

func TestAddPlaneGoesToLargeList(t *testing.T) {
	w := NewWorld(4)
	w.AddPlane(1000, 0)

	assert.Equal(t, 2, w.Len())
	assert.Len(t, w.large, 2)
	assert.Empty(t, w.grid)
}

func TestAddTrianglesSkipsDegenerate(t *testing.T) {
	w := NewWorld(0)
	w.AddTriangles([]Triangle{
		{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
	})
	assert.Equal(t, 1, w.Len())
	assert.NotEmpty(t, w.grid)
}

func TestCollideEmptyWorldMovesFreely(t *testing.T) {
	w := NewWorld(4)
	got, grounded := w.Collide(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, -5, 0})
	assert.Equal(t, mgl32.Vec3{0, -4, 0}, got)
	assert.False(t, grounded)
}

func TestCollideRestsOnPlane(t *testing.T) {
	w := NewWorld(4)
	w.AddPlane(1000, 0)
	radii := mgl32.Vec3{0.75, 0.75, 0.75}
	gravity := mgl32.Vec3{0, -9.81 / 60, 0}

	center := mgl32.Vec3{0, 0.75, 0}
	var grounded bool
	for i := 0; i < 120; i++ {
		center, grounded = w.Collide(center, radii, gravity)
	}

	assert.True(t, grounded)
	assert.InDelta(t, 0.75, center.Y(), 1e-3)
	assert.InDelta(t, 0, center.X(), 1e-6)
}

func TestCollideDoesNotTunnel(t *testing.T) {
	w := NewWorld(4)
	w.AddPlane(100, 0)

	// A fall far longer than the radius in one call.
	got, grounded := w.Collide(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, -20, 0})
	assert.True(t, grounded)
	assert.InDelta(t, 0.5, got.Y(), 1e-3)
}

func TestCollideSlidesAlongWall(t *testing.T) {
	w := NewWorld(2)
	// Wall in the plane x = 1 facing -X, spanning y [0, 4] and z [-4, 4].
	w.AddTriangles([]Triangle{
		{{1, 0, -4}, {1, 4, -4}, {1, 4, 4}},
		{{1, 0, -4}, {1, 4, 4}, {1, 0, 4}},
	})

	radii := mgl32.Vec3{0.5, 0.5, 0.5}
	got, grounded := w.Collide(mgl32.Vec3{0, 2, 0}, radii, mgl32.Vec3{1, 0, 1})

	assert.False(t, grounded, "a vertical wall is not ground")
	assert.InDelta(t, 0.5, got.X(), 1e-3, "held off the wall by the radius")
	assert.InDelta(t, 1, got.Z(), 1e-3, "tangential motion is kept")
}

func TestCollideWalksAlongSharedEdgeWithoutDrift(t *testing.T) {
	w := NewWorld(4)
	// The plane's two triangles meet along x = z.
	w.AddPlane(1000, 0)
	radii := mgl32.Vec3{0.75, 0.75, 0.75}

	for _, dir := range []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 0, -1}} {
		center := mgl32.Vec3{0, 0.75, 0}
		var grounded bool
		for i := 0; i < 300; i++ {
			center, grounded = w.Collide(center, radii, dir.Mul(0.1).Add(mgl32.Vec3{0, -9.81 / 60, 0}))
		}

		want := dir.Mul(30)
		assert.True(t, grounded)
		assert.InDelta(t, want.X(), center.X(), 1e-3, "dir %v", dir)
		assert.InDelta(t, want.Z(), center.Z(), 1e-3, "dir %v", dir)
		assert.InDelta(t, 0.75, center.Y(), 1e-3, "dir %v", dir)
		if dir.X() == 0 {
			assert.InDelta(t, 0, center.X(), 1e-5, "no sideways slide, dir %v", dir)
		}
	}
}

func TestCollideEllipsoidUsesVerticalRadius(t *testing.T) {
	w := NewWorld(4)
	w.AddPlane(50, 0)

	got, grounded := w.Collide(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0.3, 1.2, 0.3}, mgl32.Vec3{0, -3, 0})
	assert.True(t, grounded)
	assert.InDelta(t, 1.2, got.Y(), 1e-3)
}
