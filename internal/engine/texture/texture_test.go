package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{G: 200, B: 10, A: 128})

	tex, err := Decode("lightmaps/test.png", encodePNG(t, img))
	require.NoError(t, err)

	assert.Equal(t, "test.png", tex.Name)
	assert.Equal(t, "lightmaps/test.png", tex.Path)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, 1, tex.Height)
	assert.Equal(t, FormatRGBA8, tex.Format)
	// Alpha must not be premultiplied into the color channels.
	assert.Equal(t, []uint8{255, 0, 0, 255, 0, 200, 10, 128}, tex.Pix8)
}

func TestDecodeUnknown(t *testing.T) {
	_, err := Decode("blob.bin", []byte("definitely not an image"))
	assert.Error(t, err)

	_, err = Decode("empty.png", nil)
	assert.Error(t, err)
}

func TestDecodeTGAByExtension(t *testing.T) {
	// 2x1 uncompressed 24-bit, bottom-to-top.
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12] = 2
	header[14] = 1
	header[16] = 24
	pixels := []byte{
		0, 0, 255, // red (BGR)
		255, 0, 0, // blue
	}

	tex, err := Decode("bake.tga", append(header, pixels...))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0, 0, 255, 0, 0, 255, 255}, tex.Pix8)
}

func TestDecodeTGARLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = TGATypeRLE
	header[12] = 3
	header[14] = 1
	header[16] = 32
	header[17] = 0x20 // top-to-bottom
	// One run packet repeating a green pixel three times.
	data := append(header, 0x82, 0, 255, 0, 100)

	img, err := DecodeTGA(data)
	require.NoError(t, err)
	for x := 0; x < 3; x++ {
		r, g, b, _ := img.At(x, 0).RGBA()
		assert.Zero(t, r)
		assert.NotZero(t, g)
		assert.Zero(t, b)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	_, err := DecodeTGA([]byte{1, 2, 3})
	assert.Error(t, err)

	header := make([]byte, 18)
	header[2] = 1 // color-mapped type
	header[16] = 24
	_, err = DecodeTGA(header)
	assert.Error(t, err)
}

func TestExpandRGBD(t *testing.T) {
	tex := &Texture{
		Name:   "lm",
		Width:  3,
		Height: 1,
		Format: FormatRGBA8,
		Pix8: []uint8{
			255, 255, 255, 255, // full white, divisor 1
			255, 0, 0, 51, // red, divisor 0.2 -> 5x range
			10, 10, 10, 0, // zero alpha is clamped, not a division by zero
		},
	}

	require.NoError(t, ExpandRGBD(tex))
	assert.Equal(t, FormatRGB16F, tex.Format)
	assert.True(t, tex.IsRGBD)
	assert.Nil(t, tex.Pix8)
	require.Len(t, tex.PixF, 9)

	assert.InDelta(t, 1.0, tex.PixF[0], 1e-5)
	assert.InDelta(t, 5.0, tex.PixF[3], 1e-4)
	assert.InDelta(t, 0.0, tex.PixF[4], 1e-6)

	want := SRGBToLinear(10.0/255) * 255
	assert.InDelta(t, want, tex.PixF[6], 1e-3)
}

func TestExpandRGBDRejectsFloat(t *testing.T) {
	tex := &Texture{Name: "hdr", Width: 1, Height: 1, Format: FormatRGB16F, PixF: []float32{1, 1, 1}}
	assert.Error(t, ExpandRGBD(tex))
}

func TestDecodeRGBD(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	tex, err := DecodeRGBD("lm_floor.png", encodePNG(t, img))
	require.NoError(t, err)
	assert.True(t, tex.IsRGBD)
	assert.InDelta(t, 255.0/128.0, tex.PixF[0], 1e-4)
}

func TestSRGBToLinear(t *testing.T) {
	assert.InDelta(t, 0.0, SRGBToLinear(0), 1e-7)
	assert.InDelta(t, 1.0, SRGBToLinear(1), 1e-6)
	assert.InDelta(t, 0.2140, SRGBToLinear(0.5), 1e-3)
}

func TestSolidAndUploaded(t *testing.T) {
	tex := Solid("white", color.RGBA{255, 255, 255, 255})
	assert.False(t, tex.Uploaded())
	tex.ID = 7
	assert.True(t, tex.Uploaded())

	var nilTex *Texture
	assert.False(t, nilTex.Uploaded())
}
