// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window      WindowConfig     `yaml:"window" toml:"window"`
	Scene       SceneConfig      `yaml:"scene" toml:"scene"`
	Camera      CameraConfig     `yaml:"camera" toml:"camera"`
	HDR         HDRConfig        `yaml:"hdr" toml:"hdr"`
	Material    MaterialConfig   `yaml:"material" toml:"material"`
	Assets      AssetsConfig     `yaml:"assets" toml:"assets"`
	Lightmaps   []LightmapConfig `yaml:"lightmaps" toml:"lightmaps"`
	Logging     LoggingConfig    `yaml:"logging" toml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots" toml:"screenshots"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
}

// SceneConfig holds world settings.
type SceneConfig struct {
	ClearColor        string  `yaml:"clear_color" toml:"clear_color"`
	CollisionsEnabled bool    `yaml:"collisions_enabled" toml:"collisions_enabled"`
	Gravity           float32 `yaml:"gravity" toml:"gravity"`                       // m/s^2, negative is down
	AssumedFPS        float32 `yaml:"assumed_fps" toml:"assumed_fps"`               // gravity is applied per frame at this rate
	GroundSize        float32 `yaml:"ground_size" toml:"ground_size"`               // invisible collision plane at y=0
	CollideWithModel  bool    `yaml:"collide_with_model" toml:"collide_with_model"` // add imported triangles to the collision world
}

// CameraConfig holds first-person camera settings.
type CameraConfig struct {
	Position           [3]float32 `yaml:"position" toml:"position"`
	Ellipsoid          [3]float32 `yaml:"ellipsoid" toml:"ellipsoid"`
	Speed              float32    `yaml:"speed" toml:"speed"`
	FOV                float32    `yaml:"fov" toml:"fov"` // radians
	Near               float32    `yaml:"near" toml:"near"`
	Far                float32    `yaml:"far" toml:"far"`
	Inertia            float32    `yaml:"inertia" toml:"inertia"`
	AngularSensibility float32    `yaml:"angular_sensibility" toml:"angular_sensibility"`
	ApplyGravity       bool       `yaml:"apply_gravity" toml:"apply_gravity"`
	CheckCollisions    bool       `yaml:"check_collisions" toml:"check_collisions"`
	KeysUp             []string   `yaml:"keys_up" toml:"keys_up"`
	KeysDown           []string   `yaml:"keys_down" toml:"keys_down"`
	KeysLeft           []string   `yaml:"keys_left" toml:"keys_left"`
	KeysRight          []string   `yaml:"keys_right" toml:"keys_right"`
}

// HDRConfig holds auto-exposure post-process settings.
type HDRConfig struct {
	Enabled          bool    `yaml:"enabled" toml:"enabled"`
	Ratio            float32 `yaml:"ratio" toml:"ratio"`
	MinimumLuminance float32 `yaml:"minimum_luminance" toml:"minimum_luminance"`
	DecreaseRate     float32 `yaml:"decrease_rate" toml:"decrease_rate"`
	IncreaseRate     float32 `yaml:"increase_rate" toml:"increase_rate"`
	KeyValue         float32 `yaml:"key_value" toml:"key_value"`
}

// MaterialConfig holds the overrides applied to every material once the model is loaded.
type MaterialConfig struct {
	Roughness         float32    `yaml:"roughness" toml:"roughness"`
	AlbedoColor       [3]float32 `yaml:"albedo_color" toml:"albedo_color"`
	ClearBump         bool       `yaml:"clear_bump" toml:"clear_bump"`
	LightmapUVSet     int        `yaml:"lightmap_uv_set" toml:"lightmap_uv_set"`
	LightmapMetaKey   string     `yaml:"lightmap_meta_key" toml:"lightmap_meta_key"`
	LightmapShadowmap bool       `yaml:"lightmap_as_shadowmap" toml:"lightmap_as_shadowmap"`
}

// AssetsConfig holds asset locations, relative to Root.
type AssetsConfig struct {
	Root        string `yaml:"root" toml:"root"`
	Model       string `yaml:"model" toml:"model"`
	LightmapDir string `yaml:"lightmap_dir" toml:"lightmap_dir"`
	Watch       bool   `yaml:"watch" toml:"watch"` // reload lightmap images when they change on disk
}

// LightmapConfig names one baked lightmap image and the metadata key that selects it.
type LightmapConfig struct {
	Name string `yaml:"name" toml:"name"`
	File string `yaml:"file" toml:"file"`
	RGBD bool   `yaml:"rgbd" toml:"rgbd"`
}

// ScreenshotConfig holds frame capture settings.
type ScreenshotConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
	Key string `yaml:"key" toml:"key"` // SDL key name
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with the values the Sponza scene was authored against.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Lightmap Viewer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Scene: SceneConfig{
			ClearColor:        "#e8f2ff",
			CollisionsEnabled: true,
			Gravity:           -9.81,
			AssumedFPS:        60,
			GroundSize:        1000,
		},
		Camera: CameraConfig{
			Position:           [3]float32{0, 1.5, 0},
			Ellipsoid:          [3]float32{0.75, 0.75, 0.75},
			Speed:              0.1,
			FOV:                1,
			Near:               0.1,
			Far:                1000,
			Inertia:            0.9,
			AngularSensibility: 2000,
			ApplyGravity:       true,
			CheckCollisions:    true,
			KeysUp:             []string{"Up", "W"},
			KeysDown:           []string{"Down", "S"},
			KeysLeft:           []string{"Left", "A"},
			KeysRight:          []string{"Right", "D"},
		},
		HDR: HDRConfig{
			Enabled:          true,
			Ratio:            1.0,
			MinimumLuminance: 0.1,
			DecreaseRate:     0.2,
			IncreaseRate:     0.2,
			KeyValue:         0.5,
		},
		Material: MaterialConfig{
			Roughness:         1.0,
			AlbedoColor:       [3]float32{0.5, 0.5, 0.5},
			ClearBump:         true,
			LightmapUVSet:     1,
			LightmapMetaKey:   "lightmap",
			LightmapShadowmap: true,
		},
		Assets: AssetsConfig{
			Root:        "assets",
			Model:       "models/sponza.glb",
			LightmapDir: "lightmaps",
		},
		Lightmaps: DefaultLightmaps(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Screenshots: ScreenshotConfig{
			Dir: "screenshots",
			Key: "F12",
		},
	}
}

// DefaultLightmaps returns the baked lightmap set shipped with the Sponza model.
func DefaultLightmaps() []LightmapConfig {
	return []LightmapConfig{
		{Name: "lm_cartouche", File: "512_building_cartouche_lm.png", RGBD: true},
		{Name: "lm_lion", File: "512_building_lion_lm.png", RGBD: true},
		{Name: "lm_ceiling", File: "1024_building_ceiling_lm.png", RGBD: true},
		{Name: "lm_details", File: "1024_building_details_lm.png", RGBD: true},
		{Name: "lm_roof", File: "1024_building_roof_lm.png", RGBD: true},
		{Name: "lm_arch", File: "2048_building_arch_lm.png", RGBD: true},
		{Name: "lm_bricks", File: "2048_building_bricks_lm.png", RGBD: true},
		{Name: "lm_column_a", File: "2048_building_column_a_lm.png", RGBD: true},
		{Name: "lm_column_b", File: "2048_building_column_b_lm.png", RGBD: true},
		{Name: "lm_column_c", File: "2048_building_column_c_lm.png", RGBD: true},
		{Name: "lm_floor", File: "2048_building_floor_lm.png", RGBD: true},
	}
}
