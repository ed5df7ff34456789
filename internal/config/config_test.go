package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Scene.ClearColor != "#e8f2ff" {
		t.Errorf("expected clear color #e8f2ff, got %s", cfg.Scene.ClearColor)
	}
	if !cfg.Scene.CollisionsEnabled {
		t.Error("expected collisions enabled by default")
	}
	if cfg.Camera.Position != [3]float32{0, 1.5, 0} {
		t.Errorf("expected camera at (0, 1.5, 0), got %v", cfg.Camera.Position)
	}
	if cfg.Camera.Ellipsoid != [3]float32{0.75, 0.75, 0.75} {
		t.Errorf("expected ellipsoid 0.75, got %v", cfg.Camera.Ellipsoid)
	}
	if cfg.Camera.Speed != 0.1 {
		t.Errorf("expected speed 0.1, got %v", cfg.Camera.Speed)
	}
	if cfg.Camera.FOV != 1 {
		t.Errorf("expected fov 1, got %v", cfg.Camera.FOV)
	}
	if !cfg.Camera.ApplyGravity || !cfg.Camera.CheckCollisions {
		t.Error("expected gravity and collisions on the camera")
	}
	if cfg.HDR.MinimumLuminance != 0.1 || cfg.HDR.DecreaseRate != 0.2 || cfg.HDR.IncreaseRate != 0.2 {
		t.Errorf("unexpected hdr defaults: %+v", cfg.HDR)
	}
	if cfg.Material.Roughness != 1.0 {
		t.Errorf("expected roughness 1.0, got %v", cfg.Material.Roughness)
	}
	if cfg.Material.LightmapUVSet != 1 {
		t.Errorf("expected lightmap uv set 1, got %d", cfg.Material.LightmapUVSet)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Screenshots.Key != "F12" {
		t.Errorf("expected screenshot key F12, got %s", cfg.Screenshots.Key)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultLightmaps(t *testing.T) {
	lms := DefaultLightmaps()
	if len(lms) != 11 {
		t.Fatalf("expected 11 lightmaps, got %d", len(lms))
	}

	seen := make(map[string]bool)
	for _, lm := range lms {
		if seen[lm.Name] {
			t.Errorf("duplicate lightmap name %s", lm.Name)
		}
		seen[lm.Name] = true
		if !lm.RGBD {
			t.Errorf("%s: expected RGBD encoding", lm.Name)
		}
		if !strings.HasSuffix(lm.File, "_lm.png") {
			t.Errorf("%s: unexpected file %s", lm.Name, lm.File)
		}
	}
	if lms[0].Name != "lm_cartouche" || lms[10].Name != "lm_floor" {
		t.Errorf("unexpected order: first %s, last %s", lms[0].Name, lms[10].Name)
	}
}

func TestGravityPerFrame(t *testing.T) {
	s := Default().Scene
	got := s.GravityPerFrame()
	want := float32(-9.81 / 60)
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("GravityPerFrame() = %v, want %v", got, want)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float32
		wantErr bool
	}{
		{in: "#ffffff", want: [3]float32{1, 1, 1}},
		{in: "000000", want: [3]float32{0, 0, 0}},
		{in: "#ff0080", want: [3]float32{1, 0, 128.0 / 255}},
		{in: "#fff", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Camera.Ellipsoid[1] = 0
	cfg.Scene.ClearColor = "blue"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"window size", "ellipsoid[1]", "clear_color"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLoadFromYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

camera:
  speed: 0.25
  position: [1, 2, 3]

assets:
  root: "/data/sponza"

lightmaps:
  - name: lm_floor
    file: floor.png
    rgbd: false

logging:
  level: "debug"
  log_file: "viewer.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 || !cfg.Window.Fullscreen {
		t.Errorf("window not loaded: %+v", cfg.Window)
	}
	if cfg.Camera.Speed != 0.25 {
		t.Errorf("expected speed 0.25, got %v", cfg.Camera.Speed)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position (1,2,3), got %v", cfg.Camera.Position)
	}
	// Untouched values keep their defaults.
	if cfg.Camera.FOV != 1 {
		t.Errorf("expected default fov to survive, got %v", cfg.Camera.FOV)
	}
	if cfg.Assets.Root != "/data/sponza" {
		t.Errorf("expected asset root /data/sponza, got %s", cfg.Assets.Root)
	}
	if len(cfg.Lightmaps) != 1 || cfg.Lightmaps[0].Name != "lm_floor" || cfg.Lightmaps[0].RGBD {
		t.Errorf("lightmaps not replaced: %+v", cfg.Lightmaps)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	tomlContent := `
[window]
width = 800
height = 600

[hdr]
enabled = false
minimum_luminance = 0.05

[scene]
collide_with_model = true
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.HDR.Enabled {
		t.Error("expected hdr disabled")
	}
	if cfg.HDR.MinimumLuminance != 0.05 {
		t.Errorf("expected minimum luminance 0.05, got %v", cfg.HDR.MinimumLuminance)
	}
	if !cfg.Scene.CollideWithModel {
		t.Error("expected collide_with_model to be set")
	}
	if cfg.Scene.ClearColor != "#e8f2ff" {
		t.Errorf("expected default clear color to survive, got %s", cfg.Scene.ClearColor)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveTo(t *testing.T) {
	savePath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 2560
	cfg.Assets.Watch = true

	if err := cfg.SaveTo(savePath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, savePath); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Window.Width != 2560 {
		t.Errorf("expected width 2560, got %d", loaded.Window.Width)
	}
	if !loaded.Assets.Watch {
		t.Error("expected watch to round-trip")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		set   func()
		reset func()
		check func(*testing.T, *Config)
	}{
		{
			name:  "debug flag",
			set:   func() { *flagDebug = true },
			reset: func() { *flagDebug = false },
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected debug level, got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:  "fullscreen flag",
			set:   func() { *flagFullscreen = true },
			reset: func() { *flagFullscreen = false },
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen")
				}
			},
		},
		{
			name:  "size flags",
			set:   func() { *flagWidth, *flagHeight = 2560, 1440 },
			reset: func() { *flagWidth, *flagHeight = 0, 0 },
			check: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
		},
		{
			name: "asset flags",
			set: func() {
				*flagAssets = "/srv/assets"
				*flagModel = "models/other.glb"
				*flagWatch = true
			},
			reset: func() {
				*flagAssets = ""
				*flagModel = ""
				*flagWatch = false
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Assets.Root != "/srv/assets" || cfg.Assets.Model != "models/other.glb" || !cfg.Assets.Watch {
					t.Errorf("asset flags not applied: %+v", cfg.Assets)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.set()
			defer tt.reset()

			cfg := Default()
			applyFlags(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}
