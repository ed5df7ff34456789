package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/engine/texture"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// maxAnisotropy is requested for every texture; drivers clamp it.
const maxAnisotropy = 8.0

// UploadTexture creates or refreshes the GPU copy of t with a full mip chain.
// RGBA8 textures are treated as sRGB color; RGB16F textures are linear.
func (r *Renderer) UploadTexture(t *texture.Texture) error {
	if t == nil {
		return fmt.Errorf("upload: nil texture")
	}
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("upload %s: empty image %dx%d", t.Name, t.Width, t.Height)
	}

	var (
		internal  int32
		format    uint32
		pixelType uint32
		pixels    unsafe.Pointer
	)
	switch t.Format {
	case texture.FormatRGBA8:
		if len(t.Pix8) < t.Width*t.Height*4 {
			return fmt.Errorf("upload %s: pixel data released or short", t.Name)
		}
		internal, format, pixelType = gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
		pixels = unsafe.Pointer(&t.Pix8[0])
	case texture.FormatRGB16F:
		if len(t.PixF) < t.Width*t.Height*3 {
			return fmt.Errorf("upload %s: pixel data released or short", t.Name)
		}
		internal, format, pixelType = gl.RGB16F, gl.RGB, gl.FLOAT
		pixels = unsafe.Pointer(&t.PixF[0])
	default:
		return fmt.Errorf("upload %s: unsupported format %s", t.Name, t.Format)
	}

	if t.ID == 0 {
		gl.GenTextures(1, &t.ID)
		r.textures++
	}
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(t.Width), int32(t.Height), 0, format, pixelType, pixels)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, maxAnisotropy)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debug("texture uploaded",
		zap.String("name", t.Name),
		zap.Uint32("id", t.ID),
		zap.Int("width", t.Width),
		zap.Int("height", t.Height),
		zap.Stringer("format", t.Format),
	)
	return nil
}

// UploadTextures uploads every texture, releasing CPU pixels on success.
// Failures are logged and skipped; the count of uploaded textures is returned.
func (r *Renderer) UploadTextures(textures []*texture.Texture) int {
	n := 0
	for _, t := range textures {
		if t == nil || t.Uploaded() {
			continue
		}
		if err := r.UploadTexture(t); err != nil {
			logger.Warn("texture upload failed", zap.Error(err))
			continue
		}
		t.ReleasePixels()
		n++
	}
	return n
}

// ReplaceTexture uploads src's pixels into dst's existing GPU texture, so
// every material already pointing at dst sees the new image.
func (r *Renderer) ReplaceTexture(dst, src *texture.Texture) error {
	src.ID = dst.ID
	if err := r.UploadTexture(src); err != nil {
		src.ID = 0
		return err
	}
	if dst.ID == 0 {
		// A fresh handle was created for a never-uploaded dst.
		dst.ID = src.ID
	}
	dst.Width, dst.Height = src.Width, src.Height
	dst.Format, dst.IsRGBD = src.Format, src.IsRGBD
	dst.Path = src.Path
	src.ReleasePixels()
	return nil
}

// DeleteTexture frees the GPU copy of t.
func (r *Renderer) DeleteTexture(t *texture.Texture) {
	if !t.Uploaded() {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
	r.textures--
}

// BindTexture binds t (or nothing) to the given texture unit.
func BindTexture(unit uint32, t *texture.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if t.Uploaded() {
		gl.BindTexture(gl.TEXTURE_2D, t.ID)
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}
