package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Assets.Model == "" {
		errs = append(errs, errors.New("assets.model is empty"))
	}
	if c.Camera.FOV <= 0 {
		errs = append(errs, fmt.Errorf("camera.fov %v must be positive", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] is invalid", c.Camera.Near, c.Camera.Far))
	}
	for i, e := range c.Camera.Ellipsoid {
		if e <= 0 {
			errs = append(errs, fmt.Errorf("camera.ellipsoid[%d] %v must be positive", i, e))
		}
	}
	if c.Scene.AssumedFPS <= 0 {
		errs = append(errs, fmt.Errorf("scene.assumed_fps %v must be positive", c.Scene.AssumedFPS))
	}
	if _, err := ParseHexColor(c.Scene.ClearColor); err != nil {
		errs = append(errs, fmt.Errorf("scene.clear_color: %w", err))
	}
	if c.Material.LightmapUVSet < 0 || c.Material.LightmapUVSet > 1 {
		errs = append(errs, fmt.Errorf("material.lightmap_uv_set %d: only 0 and 1 are supported", c.Material.LightmapUVSet))
	}
	return errors.Join(errs...)
}

// GravityPerFrame returns the vertical displacement gravity adds per frame at the assumed frame rate.
func (s SceneConfig) GravityPerFrame() float32 {
	return s.Gravity / s.AssumedFPS
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into linear 0-1 channel values as written.
func ParseHexColor(s string) ([3]float32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return [3]float32{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("color %q: %w", s, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}
