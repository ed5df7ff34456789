package app

import (
	"path"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightmap-viewer/internal/assets"
	"github.com/Faultbox/lightmap-viewer/internal/config"
	"github.com/Faultbox/lightmap-viewer/internal/engine/camera"
	"github.com/Faultbox/lightmap-viewer/internal/engine/lighting"
	"github.com/Faultbox/lightmap-viewer/internal/engine/postprocess"
	"github.com/Faultbox/lightmap-viewer/internal/engine/scene"
	"github.com/Faultbox/lightmap-viewer/internal/lightmap"
)

// lightmapSpecs converts the configured lightmap list.
func lightmapSpecs(cfg *config.Config) []lightmap.Spec {
	specs := make([]lightmap.Spec, 0, len(cfg.Lightmaps))
	for _, l := range cfg.Lightmaps {
		specs = append(specs, lightmap.Spec{Name: l.Name, File: l.File, RGBD: l.RGBD})
	}
	return specs
}

func binderOptions(cfg *config.Config) lightmap.Options {
	m := cfg.Material
	return lightmap.Options{
		Roughness:        m.Roughness,
		AlbedoColor:      m.AlbedoColor,
		ClearBump:        m.ClearBump,
		CoordinatesIndex: m.LightmapUVSet,
		AsShadowmap:      m.LightmapShadowmap,
		MetadataKey:      m.LightmapMetaKey,
	}
}

func hdrSettings(cfg *config.Config) postprocess.Settings {
	h := cfg.HDR
	return postprocess.Settings{
		Enabled:          h.Enabled,
		Ratio:            h.Ratio,
		MinimumLuminance: h.MinimumLuminance,
		IncreaseRate:     h.IncreaseRate,
		DecreaseRate:     h.DecreaseRate,
		KeyValue:         h.KeyValue,
	}
}

func sceneConfig(cfg *config.Config, clear [3]float32) scene.Config {
	return scene.Config{
		ClearColor:       clear,
		GroundSize:       cfg.Scene.GroundSize,
		CollideWithModel: cfg.Scene.CollideWithModel,
		Environment:      lighting.DefaultEnvironment(),
	}
}

// newCamera builds the walking camera. Collisions only run when the scene
// enables them as well as the camera.
func newCamera(cfg *config.Config) *camera.UniversalCamera {
	c := cfg.Camera
	cam := camera.NewUniversalCamera(mgl32.Vec3(c.Position))
	cam.Ellipsoid = mgl32.Vec3(c.Ellipsoid)
	cam.Speed = c.Speed
	cam.FOV = c.FOV
	cam.Near = c.Near
	cam.Far = c.Far
	cam.Inertia = c.Inertia
	cam.AngularSensibility = c.AngularSensibility
	cam.ApplyGravity = c.ApplyGravity
	cam.CheckCollisions = c.CheckCollisions && cfg.Scene.CollisionsEnabled
	cam.Gravity = mgl32.Vec3{0, cfg.Scene.GravityPerFrame(), 0}
	return cam
}

// specForPath finds the lightmap whose file is the changed asset.
func specForPath(dir string, specs []lightmap.Spec, changed string) (lightmap.Spec, bool) {
	changed = assets.Clean(changed)
	for _, s := range specs {
		if assets.Clean(path.Join(dir, s.File)) == changed {
			return s, true
		}
	}
	return lightmap.Spec{}, false
}
