// Package lighting provides the ambient lighting model used in place of an
// image-based environment.
package lighting

import (
	"github.com/chewxy/math32"
)

// Hemisphere is a two-color ambient light: surfaces facing Direction get Sky,
// surfaces facing away get Ground, blended by the cosine in between.
type Hemisphere struct {
	Direction [3]float32
	Sky       [3]float32
	Ground    [3]float32
	Intensity float32
}

// DefaultEnvironment approximates a bright, slightly blue daylight courtyard.
func DefaultEnvironment() Hemisphere {
	return Hemisphere{
		Direction: Normalize([3]float32{0, 1, 0}),
		Sky:       [3]float32{1.0, 1.0, 1.0},
		Ground:    [3]float32{0.55, 0.5, 0.45},
		Intensity: 1.0,
	}
}

// Irradiance returns the ambient color arriving at a surface with normal n.
// The scene shader evaluates the same expression.
func (h Hemisphere) Irradiance(n [3]float32) [3]float32 {
	d := Normalize(h.Direction)
	n = Normalize(n)
	t := 0.5*(n[0]*d[0]+n[1]*d[1]+n[2]*d[2]) + 0.5
	var out [3]float32
	for i := range out {
		out[i] = (h.Ground[i] + (h.Sky[i]-h.Ground[i])*t) * h.Intensity
	}
	return out
}

// DirectionFromAngles converts a longitude around Y and an elevation above
// the horizon, both in degrees, into a unit direction.
func DirectionFromAngles(longitude, latitude float32) [3]float32 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180
	return [3]float32{
		math32.Cos(lat) * math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat) * math32.Cos(lon),
	}
}

// Normalize returns v scaled to unit length, or +Y for a zero vector.
func Normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l < 1e-6 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
