package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Decode decodes an image file into an RGBA8 texture.
// The container is sniffed from the data; TGA, which has no magic number,
// is selected by the name's extension.
func Decode(name string, data []byte) (*Texture, error) {
	img, err := decodeImage(name, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	t := FromImage(path.Base(name), img)
	t.Path = name
	return t, nil
}

// DecodeRGBD decodes an RGBD-encoded image and expands it to linear float RGB.
func DecodeRGBD(name string, data []byte) (*Texture, error) {
	t, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	t.IsRGBD = true
	if err := ExpandRGBD(t); err != nil {
		return nil, fmt.Errorf("expanding %s: %w", name, err)
	}
	return t, nil
}

func decodeImage(name string, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	kind, _ := filetype.Match(data)
	switch kind.Extension {
	case "png":
		return png.Decode(bytes.NewReader(data))
	case "jpg":
		return jpeg.Decode(bytes.NewReader(data))
	case "webp":
		return webp.Decode(bytes.NewReader(data))
	case "bmp":
		return bmp.Decode(bytes.NewReader(data))
	}

	if strings.EqualFold(path.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	if kind == filetype.Unknown {
		return nil, fmt.Errorf("unrecognized image format")
	}
	return nil, fmt.Errorf("unsupported image type %s", kind.MIME.Value)
}
