package texture

import (
	"fmt"

	"github.com/chewxy/math32"
)

// minRGBDDivisor keeps fully transparent texels from dividing by zero.
const minRGBDDivisor = 1.0 / 255.0

// ExpandRGBD converts an RGBD-encoded RGBA8 texture into linear float RGB.
// Each texel stores sRGB color in RGB and a range divisor in A:
// linear = srgbToLinear(rgb) / a.
func ExpandRGBD(t *Texture) error {
	if t.Format != FormatRGBA8 {
		return fmt.Errorf("texture %s: RGBD expansion needs rgba8, have %s", t.Name, t.Format)
	}
	n := t.Width * t.Height
	if len(t.Pix8) < n*4 {
		return fmt.Errorf("texture %s: %d bytes for %dx%d", t.Name, len(t.Pix8), t.Width, t.Height)
	}

	lut := srgbTable()
	out := make([]float32, n*3)
	for i := 0; i < n; i++ {
		p := t.Pix8[i*4 : i*4+4]
		d := math32.Max(float32(p[3])/255, minRGBDDivisor)
		out[i*3] = lut[p[0]] / d
		out[i*3+1] = lut[p[1]] / d
		out[i*3+2] = lut[p[2]] / d
	}

	t.PixF = out
	t.Pix8 = nil
	t.Format = FormatRGB16F
	t.IsRGBD = true
	return nil
}

// SRGBToLinear converts one sRGB channel value in [0,1] to linear.
func SRGBToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}

func srgbTable() *[256]float32 {
	var lut [256]float32
	for i := range lut {
		lut[i] = SRGBToLinear(float32(i) / 255)
	}
	return &lut
}
