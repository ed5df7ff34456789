// Package scene owns the viewer's drawable content: imported models, the
// invisible collision ground and every material the lightmap binder visits.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/engine/collision"
	"github.com/Faultbox/lightmap-viewer/internal/engine/lighting"
	"github.com/Faultbox/lightmap-viewer/internal/engine/material"
	"github.com/Faultbox/lightmap-viewer/internal/engine/model"
	"github.com/Faultbox/lightmap-viewer/internal/engine/renderer"
	"github.com/Faultbox/lightmap-viewer/internal/engine/scene/shaders"
	"github.com/Faultbox/lightmap-viewer/internal/engine/shader"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// GroundMaterialName names the ground plane's material.
const GroundMaterialName = "groundMat"

// Texture units used by the forward shader.
const (
	unitAlbedo   = 0
	unitLightmap = 1
)

// Config contains scene configuration options.
type Config struct {
	ClearColor [3]float32

	// GroundSize is the edge length of the square ground plane at y=0.
	GroundSize float32
	// CollideWithModel adds imported geometry to the collision world.
	// Only the ground collides otherwise.
	CollideWithModel bool

	Environment lighting.Hemisphere
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		ClearColor:  [3]float32{0xe8 / 255.0, 0xf2 / 255.0, 0xff / 255.0},
		GroundSize:  1000,
		Environment: lighting.DefaultEnvironment(),
	}
}

type drawable struct {
	gpu *renderer.Mesh
	src *model.Mesh
}

// Scene manages uploaded meshes, materials and the collision world.
type Scene struct {
	config   Config
	renderer *renderer.Renderer

	ground    *material.Material
	models    []*model.Model
	drawables []drawable
	world     *collision.World

	program uint32

	locViewProj          int32
	locAlbedoColor       int32
	locAlpha             int32
	locAlphaCutoff       int32
	locAlbedo            int32
	locHasAlbedo         int32
	locLightmap          int32
	locHasLightmap       int32
	locLightmapUV        int32
	locLightmapShadowmap int32
	locHemiDirection     int32
	locHemiSky           int32
	locHemiGround        int32
	locHemiIntensity     int32
}

// New creates a scene with its ground plane. The ground is never drawn but
// always collides, and its material is reported by Materials.
func New(r *renderer.Renderer, cfg Config) (*Scene, error) {
	s := &Scene{
		config:   cfg,
		renderer: r,
		world:    collision.NewWorld(collision.DefaultCellSize),
	}

	s.ground = material.New(GroundMaterialName)
	s.ground.BackFaceCulling = false
	s.ground.Visible = false
	s.world.AddPlane(cfg.GroundSize, 0)

	program, err := shader.CompileProgram(shaders.ForwardVertexShader, shaders.ForwardFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("forward shader: %w", err)
	}
	s.program = program

	s.locViewProj = shader.GetUniform(program, "uViewProj")
	s.locAlbedoColor = shader.GetUniform(program, "uAlbedoColor")
	s.locAlpha = shader.GetUniform(program, "uAlpha")
	s.locAlphaCutoff = shader.GetUniform(program, "uAlphaCutoff")
	s.locAlbedo = shader.GetUniform(program, "uAlbedo")
	s.locHasAlbedo = shader.GetUniform(program, "uHasAlbedo")
	s.locLightmap = shader.GetUniform(program, "uLightmap")
	s.locHasLightmap = shader.GetUniform(program, "uHasLightmap")
	s.locLightmapUV = shader.GetUniform(program, "uLightmapUV")
	s.locLightmapShadowmap = shader.GetUniform(program, "uLightmapAsShadowmap")
	s.locHemiDirection = shader.GetUniform(program, "uHemiDirection")
	s.locHemiSky = shader.GetUniform(program, "uHemiSky")
	s.locHemiGround = shader.GetUniform(program, "uHemiGround")
	s.locHemiIntensity = shader.GetUniform(program, "uHemiIntensity")

	logger.Debug("scene created",
		zap.Float32("ground_size", cfg.GroundSize),
		zap.Bool("collide_with_model", cfg.CollideWithModel),
	)
	return s, nil
}

// AddModel uploads a model's textures and meshes. CPU pixel data is released
// after upload.
func (s *Scene) AddModel(m *model.Model) error {
	uploaded := s.renderer.UploadTextures(m.Textures)

	for _, mesh := range m.Meshes {
		gpu, err := s.renderer.UploadMesh(mesh)
		if err != nil {
			logger.Warn("mesh skipped", zap.String("mesh", mesh.Name), zap.Error(err))
			continue
		}
		s.drawables = append(s.drawables, drawable{gpu: gpu, src: mesh})
	}
	s.sortDrawables()

	if s.config.CollideWithModel {
		s.world.AddTriangles(m.CollisionTriangles())
	}
	s.models = append(s.models, m)

	logger.Info("model added to scene",
		zap.String("model", m.Name),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("textures", uploaded),
		zap.Int("collision_triangles", s.world.Len()),
	)
	return nil
}

func (s *Scene) sortDrawables() {
	mats := make([]*material.Material, len(s.drawables))
	for i, d := range s.drawables {
		mats[i] = d.src.Material
	}
	order := drawOrder(mats)
	sorted := make([]drawable, len(order))
	for i, idx := range order {
		sorted[i] = s.drawables[idx]
	}
	s.drawables = sorted
}

// Materials returns every material in the scene: the ground's first, then
// each model's in import order.
func (s *Scene) Materials() []*material.Material {
	groups := [][]*material.Material{{s.ground}}
	for _, m := range s.models {
		groups = append(groups, m.Materials)
	}
	return collectMaterials(groups...)
}

// Collider returns the collision world the camera moves through.
func (s *Scene) Collider() *collision.World {
	return s.world
}

// ClearColor returns the background color.
func (s *Scene) ClearColor() [3]float32 {
	return s.config.ClearColor
}

// Render draws every visible mesh into the currently bound framebuffer.
func (s *Scene) Render(viewProj mgl32.Mat4) {
	gl.UseProgram(s.program)
	gl.UniformMatrix4fv(s.locViewProj, 1, false, &viewProj[0])
	gl.Uniform1i(s.locAlbedo, unitAlbedo)
	gl.Uniform1i(s.locLightmap, unitLightmap)

	env := s.config.Environment
	gl.Uniform3fv(s.locHemiDirection, 1, &env.Direction[0])
	gl.Uniform3fv(s.locHemiSky, 1, &env.Sky[0])
	gl.Uniform3fv(s.locHemiGround, 1, &env.Ground[0])
	gl.Uniform1f(s.locHemiIntensity, env.Intensity)

	blending := false
	for _, d := range s.drawables {
		m := d.src.Material
		if m == nil || !m.Visible {
			continue
		}
		st := stateFor(m)

		if st.blend != blending {
			blending = st.blend
			if blending {
				gl.Enable(gl.BLEND)
				gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
				gl.DepthMask(false)
			} else {
				gl.Disable(gl.BLEND)
				gl.DepthMask(true)
			}
		}
		if st.cullBack {
			gl.Enable(gl.CULL_FACE)
		} else {
			gl.Disable(gl.CULL_FACE)
		}

		gl.Uniform3fv(s.locAlbedoColor, 1, &st.albedoColor[0])
		gl.Uniform1f(s.locAlpha, st.alpha)
		gl.Uniform1f(s.locAlphaCutoff, st.alphaCutoff)
		gl.Uniform1i(s.locHasAlbedo, boolToInt(st.hasAlbedo))
		gl.Uniform1i(s.locHasLightmap, boolToInt(st.hasLightmap))
		gl.Uniform1i(s.locLightmapUV, st.lightmapUV)
		gl.Uniform1i(s.locLightmapShadowmap, boolToInt(st.shadowmap))

		renderer.BindTexture(unitAlbedo, m.AlbedoTexture)
		renderer.BindTexture(unitLightmap, m.LightmapTexture)
		d.gpu.Draw()
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	gl.Enable(gl.CULL_FACE)
}

// Destroy releases GPU resources owned by the scene.
func (s *Scene) Destroy() {
	for _, d := range s.drawables {
		s.renderer.DeleteMesh(d.gpu)
	}
	s.drawables = nil
	for _, m := range s.models {
		for _, t := range m.Textures {
			s.renderer.DeleteTexture(t)
		}
	}
	if s.program != 0 {
		gl.DeleteProgram(s.program)
		s.program = 0
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
