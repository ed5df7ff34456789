package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIrradiance(t *testing.T) {
	h := Hemisphere{
		Direction: [3]float32{0, 2, 0},
		Sky:       [3]float32{1, 1, 1},
		Ground:    [3]float32{0, 0, 0},
		Intensity: 2,
	}

	assert.Equal(t, [3]float32{2, 2, 2}, h.Irradiance([3]float32{0, 1, 0}))
	assert.Equal(t, [3]float32{0, 0, 0}, h.Irradiance([3]float32{0, -1, 0}))

	side := h.Irradiance([3]float32{1, 0, 0})
	assert.InDelta(t, 1, side[0], 1e-6)
}

func TestDirectionFromAngles(t *testing.T) {
	up := DirectionFromAngles(0, 90)
	assert.InDelta(t, 1, up[1], 1e-6)

	east := DirectionFromAngles(90, 0)
	assert.InDelta(t, 1, east[0], 1e-6)
	assert.InDelta(t, 0, east[2], 1e-6)
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, [3]float32{0, 1, 0}, Normalize([3]float32{}))
}
