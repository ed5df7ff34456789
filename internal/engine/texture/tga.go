package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes uncompressed (type 2) and RLE (type 10) true-color TGA
// images, the variants texture bakers commonly emit.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	r := tgaReader{
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		width:       width,
		height:      height,
		bytesPerPx:  bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	if imageType == TGATypeUncompressed {
		if len(r.src) < width*height*r.bytesPerPx {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < width*height; i++ {
			r.put(i, r.pixel())
		}
		return r.img, nil
	}

	r.decodeRLE()
	return r.img, nil
}

type tgaReader struct {
	img         *image.NRGBA
	src         []byte
	pos         int
	width       int
	height      int
	bytesPerPx  int
	topToBottom bool
}

// pixel reads one BGR(A) pixel at the cursor.
func (r *tgaReader) pixel() color.NRGBA {
	p := r.src[r.pos : r.pos+r.bytesPerPx]
	r.pos += r.bytesPerPx
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bytesPerPx == 4 {
		c.A = p[3]
	}
	return c
}

// put stores a pixel by its index in file order.
func (r *tgaReader) put(idx int, c color.NRGBA) {
	x := idx % r.width
	y := idx / r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetNRGBA(x, y, c)
}

// decodeRLE stops quietly at the end of the data, leaving remaining pixels transparent.
func (r *tgaReader) decodeRLE() {
	total := r.width * r.height
	idx := 0
	for idx < total && r.pos < len(r.src) {
		packet := r.src[r.pos]
		r.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if r.pos+r.bytesPerPx > len(r.src) {
				return
			}
			c := r.pixel()
			for i := 0; i < count && idx < total; i++ {
				r.put(idx, c)
				idx++
			}
			continue
		}

		for i := 0; i < count && idx < total; i++ {
			if r.pos+r.bytesPerPx > len(r.src) {
				return
			}
			r.put(idx, r.pixel())
			idx++
		}
	}
}
