// Package postprocess implements the HDR auto-exposure and tone mapping pass.
package postprocess

import (
	"github.com/chewxy/math32"
)

// Settings configures auto exposure.
type Settings struct {
	Enabled bool
	// Ratio scales the offscreen target relative to the window.
	Ratio float32
	// MinimumLuminance floors the adapted luminance so dark scenes are not over-exposed.
	MinimumLuminance float32
	// IncreaseRate and DecreaseRate bound luminance change per second.
	IncreaseRate float32
	DecreaseRate float32
	// KeyValue is the target middle-gray after exposure.
	KeyValue float32
}

// DefaultSettings returns the viewer's exposure defaults.
func DefaultSettings() Settings {
	return Settings{
		Enabled:          true,
		Ratio:            1.0,
		MinimumLuminance: 0.1,
		IncreaseRate:     0.2,
		DecreaseRate:     0.2,
		KeyValue:         0.5,
	}
}

// Luminance returns the Rec. 709 relative luminance of a linear color.
func Luminance(r, g, b float32) float32 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// AdaptLuminance moves current toward measured by at most IncreaseRate*dt
// when brightening and DecreaseRate*dt when darkening, never below
// MinimumLuminance. A non-positive current snaps to measured, or to the
// floor when measured is not finite.
func AdaptLuminance(current, measured, dt float32, s Settings) float32 {
	if math32.IsNaN(measured) || math32.IsInf(measured, 0) {
		if !(current > 0) || math32.IsInf(current, 0) {
			return math32.Max(s.MinimumLuminance, 0)
		}
		measured = current
	}
	switch {
	case current <= 0:
		current = measured
	case measured > current:
		current = math32.Min(measured, current+s.IncreaseRate*dt)
	case measured < current:
		current = math32.Max(measured, current-s.DecreaseRate*dt)
	}
	return math32.Max(current, s.MinimumLuminance)
}

// Exposure returns the scale applied to scene color for an adapted luminance.
func Exposure(adapted float32, s Settings) float32 {
	if !s.Enabled {
		return 1
	}
	return s.KeyValue / math32.Max(adapted, s.MinimumLuminance)
}

// ACES is Narkowicz's fit of the ACES filmic curve, mirrored by the tone map shader.
func ACES(x float32) float32 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	y := (x * (a*x + b)) / (x*(c*x+d) + e)
	return math32.Max(0, math32.Min(1, y))
}
