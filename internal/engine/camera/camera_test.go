package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/lightmap-viewer/internal/engine/collision"
)

const frame = float32(1.0 / 60.0)

func walker() *UniversalCamera {
	c := NewUniversalCamera(mgl32.Vec3{0, 1.5, 0})
	c.Ellipsoid = mgl32.Vec3{0.75, 0.75, 0.75}
	c.Speed = 0.1
	c.ApplyGravity = true
	c.CheckCollisions = true
	c.Gravity = mgl32.Vec3{0, -9.81 / 60, 0}
	return c
}

func groundWorld() *collision.World {
	w := collision.NewWorld(collision.DefaultCellSize)
	w.AddPlane(1000, 0)
	return w
}

func TestRestsOnGroundUnderGravity(t *testing.T) {
	c := walker()
	w := groundWorld()

	for i := 0; i < 180; i++ {
		c.Update(Controls{}, frame, w)
	}

	assert.InDelta(t, 1.5, c.Position.Y(), 1e-3)
	assert.InDelta(t, 0, c.Position.X(), 1e-5)
	assert.InDelta(t, 0, c.Position.Z(), 1e-5)
	assert.True(t, c.Grounded())
}

func TestFallsWithoutGround(t *testing.T) {
	c := walker()
	w := collision.NewWorld(collision.DefaultCellSize)
	w.AddTriangles([]collision.Triangle{{{100, 0, 100}, {100, 0, 101}, {101, 0, 100}}})

	c.Update(Controls{}, frame, w)
	assert.Less(t, c.Position.Y(), float32(1.5))
	assert.False(t, c.Grounded())
}

func TestWalkForwardAlongGround(t *testing.T) {
	c := walker()
	w := groundWorld()

	for i := 0; i < 60; i++ {
		c.Update(Controls{Forward: true}, frame, w)
	}

	assert.Greater(t, c.Position.Z(), float32(1), "yaw 0 walks toward +Z")
	assert.InDelta(t, 0, c.Position.X(), 1e-4)
	assert.InDelta(t, 1.5, c.Position.Y(), 1e-3)
}

func TestLongWalkStaysOnLine(t *testing.T) {
	c := walker()
	w := groundWorld()

	for i := 0; i < 300; i++ {
		c.Update(Controls{Forward: true}, frame, w)
	}

	assert.InDelta(t, 0, c.Position.X(), 1e-5)
	assert.InDelta(t, 1.5, c.Position.Y(), 1e-3)
}

func TestInertiaCarriesThenStops(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	for i := 0; i < 30; i++ {
		c.Update(Controls{Forward: true}, frame, nil)
	}
	released := c.Position.Z()

	c.Update(Controls{}, frame, nil)
	assert.Greater(t, c.Position.Z(), released, "keeps gliding after release")

	for i := 0; i < 300; i++ {
		c.Update(Controls{}, frame, nil)
	}
	settled := c.Position.Z()
	c.Update(Controls{}, frame, nil)
	assert.Equal(t, settled, c.Position.Z(), "comes to rest")
}

func TestStrafeUsesRightVector(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	for i := 0; i < 10; i++ {
		c.Update(Controls{Right: true}, frame, nil)
	}
	assert.Less(t, c.Position.X(), float32(0))
	assert.InDelta(t, 0, c.Position.Z(), 1e-5)
}

func TestMouseLook(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})

	c.Update(Controls{LookX: 200}, frame, nil)
	assert.InDelta(t, 0.1, c.Yaw, 1e-5)

	for i := 0; i < 300; i++ {
		c.Update(Controls{}, frame, nil)
	}
	// 0.1 decaying by 0.9 per frame sums to 1.
	assert.InDelta(t, 1.0, c.Yaw, 1e-3)
}

func TestPitchIsClamped(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	c.Update(Controls{LookY: 1e6}, frame, nil)
	assert.Equal(t, float32(pitchLimit), c.Pitch)

	c.Update(Controls{LookY: -1e7}, frame, nil)
	assert.Equal(t, float32(-pitchLimit), c.Pitch)
}

func TestBasisVectors(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	assert.InDelta(t, 1, c.Forward().Z(), 1e-6)
	assert.InDelta(t, -1, c.Right().X(), 1e-6)

	c.Yaw = math32.Pi / 2
	f := c.Forward()
	r := c.Right()
	assert.InDelta(t, -1, f.X(), 1e-6)
	assert.InDelta(t, 0, r.Dot(f), 1e-6)

	want := f.Cross(mgl32.Vec3{0, 1, 0})
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], r[i], 1e-6)
	}

	c.Yaw = 0
	c.Pitch = 0.5
	assert.Less(t, c.Forward().Y(), float32(0), "positive pitch looks down")
}

func TestViewMatrix(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	v := c.ViewMatrix()

	ahead := v.Mul4x1(mgl32.Vec4{0, 0, 5, 1})
	assert.InDelta(t, -5, ahead.Z(), 1e-5)

	right := v.Mul4x1(mgl32.Vec4{-1, 0, 5, 1})
	assert.InDelta(t, 1, right.X(), 1e-5)
}

func TestProjectionMatrixGuardsAspect(t *testing.T) {
	c := NewUniversalCamera(mgl32.Vec3{})
	assert.Equal(t, c.ProjectionMatrix(1), c.ProjectionMatrix(0))
}

func TestZeroDeltaIsNoop(t *testing.T) {
	c := walker()
	before := *c
	c.Update(Controls{Forward: true, LookX: 10}, 0, groundWorld())
	assert.Equal(t, before, *c)
}
