// Package texture provides image decoding and CPU-side texture preparation.
// GPU upload lives in the renderer package; a Texture only carries the handle.
package texture

import (
	"fmt"
	"image"
	"image/color"
)

// Format describes the pixel layout of a Texture.
type Format int

const (
	// FormatRGBA8 stores 4 bytes per pixel in Pix8.
	FormatRGBA8 Format = iota
	// FormatRGB16F stores 3 floats per pixel in PixF, uploaded as half floats.
	FormatRGB16F
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatRGB16F:
		return "rgb16f"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Texture is a decoded image plus the GPU handle assigned on upload.
// The pixel slices may be released after upload; ID stays valid until the
// renderer deletes it.
type Texture struct {
	Name   string
	Path   string
	Width  int
	Height int
	Format Format
	Pix8   []uint8
	PixF   []float32

	// IsRGBD marks images whose alpha channel stores a range divisor.
	IsRGBD bool

	// ID is the OpenGL texture name, 0 until uploaded.
	ID uint32
}

// Uploaded reports whether the texture has a GPU handle.
func (t *Texture) Uploaded() bool {
	return t != nil && t.ID != 0
}

// ReleasePixels drops CPU pixel data once the texture lives on the GPU.
func (t *Texture) ReleasePixels() {
	t.Pix8 = nil
	t.PixF = nil
}

// FromImage converts any image into an RGBA8 texture.
func FromImage(name string, img image.Image) *Texture {
	rgba := ImageToRGBA(img)
	b := rgba.Bounds()
	return &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: FormatRGBA8,
		Pix8:   rgba.Pix,
	}
}

// Solid creates a 1x1 RGBA8 texture of the given color.
func Solid(name string, c color.RGBA) *Texture {
	return &Texture{
		Name:   name,
		Width:  1,
		Height: 1,
		Format: FormatRGBA8,
		Pix8:   []uint8{c.R, c.G, c.B, c.A},
	}
}

// ImageToRGBA converts any image.Image to a tightly packed *image.RGBA at origin 0,0.
func ImageToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// NRGBA keeps the stored alpha channel intact, which RGBD decoding relies on.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := rgba.PixOffset(x-b.Min.X, y-b.Min.Y)
			rgba.Pix[i] = c.R
			rgba.Pix[i+1] = c.G
			rgba.Pix[i+2] = c.B
			rgba.Pix[i+3] = c.A
		}
	}
	return rgba
}
