package postprocess

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/engine/framebuffer"
	"github.com/Faultbox/lightmap-viewer/internal/engine/shader"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

const vertexShader = `#version 410 core
out vec2 vUV;

void main() {
    // Fullscreen triangle from the vertex index.
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    vUV = pos;
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uScene;
uniform float uExposure;

vec3 aces(vec3 x) {
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

void main() {
    vec3 hdr = textureLod(uScene, vUV, 0.0).rgb * uExposure;
#ifdef NO_TONEMAP
    vec3 ldr = clamp(hdr, 0.0, 1.0);
#else
    vec3 ldr = aces(hdr);
#endif
    FragColor = vec4(pow(ldr, vec3(1.0 / 2.2)), 1.0);
}
`

// HDR renders the scene into a half-float target, measures its average
// luminance from the top of the mip chain, adapts exposure over time and
// tone maps to the default framebuffer.
type HDR struct {
	settings Settings
	target   *framebuffer.Framebuffer
	program  uint32
	vao      uint32

	locScene    int32
	locExposure int32

	adapted  float32
	exposure float32
	readback [4]float32

	winW, winH int
}

// toneMapDefines selects the output shader variant. Without auto exposure
// the image is only gamma corrected.
func toneMapDefines(s Settings) []string {
	if !s.Enabled {
		return []string{"NO_TONEMAP"}
	}
	return nil
}

// NewHDR creates the pass for a window of the given pixel size.
func NewHDR(width, height int, s Settings) (*HDR, error) {
	if s.Ratio <= 0 {
		s.Ratio = 1
	}
	h := &HDR{settings: s, exposure: 1}

	w, ht := h.targetSize(width, height)
	target, err := framebuffer.New(w, ht, true)
	if err != nil {
		return nil, fmt.Errorf("hdr target: %w", err)
	}
	h.target = target

	program, err := shader.CompileVariant(vertexShader, fragmentShader, toneMapDefines(s)...)
	if err != nil {
		h.target.Destroy()
		return nil, fmt.Errorf("tone map shader: %w", err)
	}
	h.program = program
	h.locScene = shader.GetUniform(program, "uScene")
	h.locExposure = shader.GetUniform(program, "uExposure")

	gl.GenVertexArrays(1, &h.vao)
	h.winW, h.winH = width, height

	logger.Debug("hdr pipeline created",
		zap.Int32("width", w),
		zap.Int32("height", ht),
		zap.Float32("ratio", s.Ratio),
		zap.Bool("auto_exposure", s.Enabled),
	)
	return h, nil
}

func (h *HDR) targetSize(width, height int) (int32, int32) {
	return int32(float32(width) * h.settings.Ratio), int32(float32(height) * h.settings.Ratio)
}

// Begin binds the HDR target and clears it to the scene background.
func (h *HDR) Begin(clear [3]float32) {
	h.target.Bind()
	h.target.Clear(clear[0], clear[1], clear[2], 1)
}

// End measures, adapts and tone maps the frame onto the default framebuffer.
// dt is the frame time in seconds.
func (h *HDR) End(dt float32) {
	h.target.Unbind()

	if h.settings.Enabled {
		h.target.GenerateMipmaps()
		measured := h.measure()
		h.adapted = AdaptLuminance(h.adapted, measured, dt, h.settings)
	}
	h.exposure = Exposure(h.adapted, h.settings)

	gl.Viewport(0, 0, int32(h.winW), int32(h.winH))
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(h.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.target.ColorTexture())
	gl.Uniform1i(h.locScene, 0)
	gl.Uniform1f(h.locExposure, h.exposure)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// measure reads the 1x1 top mip level, the average scene color.
func (h *HDR) measure() float32 {
	level := int32(h.target.MipLevels() - 1)
	gl.BindTexture(gl.TEXTURE_2D, h.target.ColorTexture())
	gl.GetTexImage(gl.TEXTURE_2D, level, gl.RGBA, gl.FLOAT, gl.Ptr(&h.readback[0]))
	return Luminance(h.readback[0], h.readback[1], h.readback[2])
}

// Resize follows the window's pixel size.
func (h *HDR) Resize(width, height int) {
	h.winW, h.winH = width, height
	w, ht := h.targetSize(width, height)
	h.target.Resize(w, ht)
}

// Exposure returns the exposure used for the last frame.
func (h *HDR) Exposure() float32 {
	return h.exposure
}

// AdaptedLuminance returns the current adapted luminance.
func (h *HDR) AdaptedLuminance() float32 {
	return h.adapted
}

// Destroy releases GPU resources.
func (h *HDR) Destroy() {
	if h.vao != 0 {
		gl.DeleteVertexArrays(1, &h.vao)
		h.vao = 0
	}
	if h.program != 0 {
		gl.DeleteProgram(h.program)
		h.program = 0
	}
	h.target.Destroy()
}
