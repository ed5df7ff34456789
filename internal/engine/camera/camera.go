// Package camera provides the first-person camera used to walk the scene.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// pitchLimit keeps the view just short of straight up or down.
const pitchLimit = 1.570796

// directionEpsilon zeroes residual inertia below this magnitude.
const directionEpsilon = 1e-4

// Collider resolves ellipsoid movement against world geometry.
type Collider interface {
	Collide(center, radii, displacement mgl32.Vec3) (mgl32.Vec3, bool)
}

// Controls is one frame of camera input.
type Controls struct {
	Forward, Backward, Left, Right bool

	// LookX and LookY are mouse deltas in pixels since the last frame.
	LookX, LookY float32
}

// UniversalCamera is a keyboard-and-mouse first-person camera with inertia,
// gravity and ellipsoid collisions.
//
// Yaw 0 looks down +Z. Positive pitch looks down.
type UniversalCamera struct {
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32

	// Ellipsoid radii of the collision volume. Its center sits Ellipsoid.Y
	// below the eye so the eye rests at twice the vertical radius above ground.
	Ellipsoid mgl32.Vec3

	Speed              float32
	FOV                float32 // vertical, radians
	Near, Far          float32
	Inertia            float32 // per-frame decay of movement and rotation at 60 fps
	AngularSensibility float32 // mouse pixels per radian

	ApplyGravity    bool
	CheckCollisions bool
	// Gravity is the displacement added per 60 fps frame.
	Gravity mgl32.Vec3

	direction     mgl32.Vec3
	rotationDelta mgl32.Vec2
	grounded      bool
}

// NewUniversalCamera creates a camera at position with the engine defaults.
func NewUniversalCamera(position mgl32.Vec3) *UniversalCamera {
	return &UniversalCamera{
		Position:           position,
		Ellipsoid:          mgl32.Vec3{0.5, 1, 0.5},
		Speed:              2,
		FOV:                0.8,
		Near:               1,
		Far:                10000,
		Inertia:            0.9,
		AngularSensibility: 2000,
	}
}

// Forward returns the unit view direction.
func (c *UniversalCamera) Forward() mgl32.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return mgl32.Vec3{-sy * cp, -sp, cy * cp}
}

// Right returns the horizontal unit vector to the camera's right.
func (c *UniversalCamera) Right() mgl32.Vec3 {
	sy, cy := math32.Sincos(c.Yaw)
	return mgl32.Vec3{-cy, 0, -sy}
}

// Grounded reports whether the last collision pass touched walkable ground.
func (c *UniversalCamera) Grounded() bool {
	return c.grounded
}

// Update advances the camera by dt seconds. world may be nil.
func (c *UniversalCamera) Update(ctl Controls, dt float32, world Collider) {
	if dt <= 0 {
		return
	}
	ratio := dt * 60
	decay := math32.Pow(c.Inertia, ratio)

	// Rotation.
	if c.AngularSensibility > 0 {
		c.rotationDelta[0] += ctl.LookY / c.AngularSensibility
		c.rotationDelta[1] += ctl.LookX / c.AngularSensibility
	}
	c.Pitch += c.rotationDelta[0]
	c.Yaw += c.rotationDelta[1]
	c.Pitch = clamp(c.Pitch, -pitchLimit, pitchLimit)
	c.rotationDelta = c.rotationDelta.Mul(decay)
	if math32.Abs(c.rotationDelta[0]) < directionEpsilon*directionEpsilon {
		c.rotationDelta[0] = 0
	}
	if math32.Abs(c.rotationDelta[1]) < directionEpsilon*directionEpsilon {
		c.rotationDelta[1] = 0
	}

	// Keyboard movement accumulates into an inertial direction.
	step := c.localSpeed(dt)
	var local mgl32.Vec3
	if ctl.Forward {
		local = local.Add(c.Forward())
	}
	if ctl.Backward {
		local = local.Sub(c.Forward())
	}
	if ctl.Right {
		local = local.Add(c.Right())
	}
	if ctl.Left {
		local = local.Sub(c.Right())
	}
	if local.Len() > 0 {
		c.direction = c.direction.Add(local.Normalize().Mul(step))
	}

	c.move(ratio, world)

	c.direction = c.direction.Mul(decay)
	if c.direction.Len() < directionEpsilon {
		c.direction = mgl32.Vec3{}
	}
}

// localSpeed is the per-frame impulse for the configured speed.
// sqrt(10)*dt gives the same feel at any frame rate as speed*sqrt(dtMs/(fps*100)).
func (c *UniversalCamera) localSpeed(dt float32) float32 {
	return c.Speed * math32.Sqrt(10) * dt
}

func (c *UniversalCamera) move(ratio float32, world Collider) {
	if !c.CheckCollisions || world == nil {
		c.Position = c.Position.Add(c.direction)
		c.grounded = false
		return
	}

	displacement := c.direction
	if c.ApplyGravity {
		displacement = displacement.Add(c.Gravity.Mul(ratio))
	}
	if displacement.Len() == 0 {
		return
	}

	offset := mgl32.Vec3{0, c.Ellipsoid.Y(), 0}
	center := c.Position.Sub(offset)
	center, c.grounded = world.Collide(center, c.Ellipsoid, displacement)
	c.Position = center.Add(offset)
}

// ViewMatrix returns the world-to-view transform.
func (c *UniversalCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *UniversalCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
