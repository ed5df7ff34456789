// Package app implements the viewer's main loop: it loads the lightmaps and
// the model, binds them once the model is in, and walks the camera through
// the result.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightmap-viewer/internal/assets"
	"github.com/Faultbox/lightmap-viewer/internal/config"
	"github.com/Faultbox/lightmap-viewer/internal/engine/camera"
	"github.com/Faultbox/lightmap-viewer/internal/engine/debug"
	"github.com/Faultbox/lightmap-viewer/internal/engine/gltfimport"
	"github.com/Faultbox/lightmap-viewer/internal/engine/input"
	"github.com/Faultbox/lightmap-viewer/internal/engine/picking"
	"github.com/Faultbox/lightmap-viewer/internal/engine/postprocess"
	"github.com/Faultbox/lightmap-viewer/internal/engine/renderer"
	"github.com/Faultbox/lightmap-viewer/internal/engine/scene"
	"github.com/Faultbox/lightmap-viewer/internal/engine/window"
	"github.com/Faultbox/lightmap-viewer/internal/lightmap"
	"github.com/Faultbox/lightmap-viewer/internal/logger"
)

// App is the viewer instance.
type App struct {
	config  *config.Config
	running bool

	ctx    context.Context
	cancel context.CancelFunc

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	bindings input.Bindings
	assets   *assets.Manager

	scene  *scene.Scene
	camera *camera.UniversalCamera
	hdr    *postprocess.HDR

	specs    []lightmap.Spec
	registry *lightmap.Registry
	binder   *lightmap.Binder

	imports <-chan gltfimport.Result
	changes <-chan string
	bound   bool

	screenshots   *debug.ScreenshotCapture
	screenshotKey sdl.Scancode
	captureFrame  bool
}

// New creates the window and GPU state, loads the lightmaps and starts
// importing the model in the background.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	clearColor, err := config.ParseHexColor(cfg.Scene.ClearColor)
	if err != nil {
		return nil, fmt.Errorf("scene clear color: %w", err)
	}
	bindings, err := input.ParseBindings(cfg.Camera.KeysUp, cfg.Camera.KeysDown, cfg.Camera.KeysLeft, cfg.Camera.KeysRight)
	if err != nil {
		return nil, fmt.Errorf("camera keys: %w", err)
	}

	screenshotKey := sdl.GetScancodeFromName(cfg.Screenshots.Key)
	if screenshotKey == sdl.SCANCODE_UNKNOWN {
		return nil, fmt.Errorf("screenshot key: unknown key name %q", cfg.Screenshots.Key)
	}

	a := &App{
		config:        cfg,
		bindings:      bindings,
		specs:         lightmapSpecs(cfg),
		camera:        newCamera(cfg),
		screenshots:   debug.NewScreenshotCapture(cfg.Screenshots.Dir, "lightmap-viewer"),
		screenshotKey: screenshotKey,
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.assets, err = assets.NewManager(cfg.Assets.Root)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	width, height := a.window.DrawableSize()

	// Create renderer (AFTER window, since OpenGL context must exist)
	a.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: clearColor,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.hdr, err = postprocess.NewHDR(width, height, hdrSettings(cfg))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create hdr pipeline: %w", err)
	}

	a.scene, err = scene.New(a.renderer, sceneConfig(cfg, clearColor))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	a.input = input.New()

	if err := a.loadLightmaps(); err != nil {
		a.Close()
		return nil, err
	}
	a.binder = lightmap.NewBinder(a.registry, binderOptions(cfg))

	a.imports = gltfimport.ImportAsync(a.ctx, a.assets, cfg.Assets.Model)

	if cfg.Assets.Watch {
		a.changes, err = a.assets.Watch(a.ctx, cfg.Assets.LightmapDir)
		if err != nil {
			logger.Warn("lightmap hot reload disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized successfully")
	return a, nil
}

// loadLightmaps decodes the configured lightmaps and uploads the ones that loaded.
func (a *App) loadLightmaps() error {
	reg, failures, err := lightmap.Load(a.ctx, a.assets, a.config.Assets.LightmapDir, a.specs)
	if err != nil {
		return fmt.Errorf("loading lightmaps: %w", err)
	}
	for _, f := range failures {
		logger.Warn("lightmap unavailable",
			zap.String("name", f.Spec.Name),
			zap.String("file", f.Spec.File),
			zap.Error(f.Err),
		)
	}
	uploaded := a.renderer.UploadTextures(reg.Textures())
	logger.Info("lightmaps ready",
		zap.Int("registered", reg.Len()),
		zap.Int("uploaded", uploaded),
		zap.Int("failed", len(failures)),
	)
	a.registry = reg
	return nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()

		// 2. Background work
		a.pollImport()
		a.pollChanges()

		// 3. Update
		a.update(dt)

		// 4. Render
		if err := a.render(dt); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if a.captureFrame {
			a.captureFrame = false
			a.saveScreenshot()
		}

		// 5. Present
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Float32("exposure", a.hdr.Exposure()),
				zap.Float32("luminance", a.hdr.AdaptedLuminance()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() {
	for _, event := range a.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			width, height := a.window.DrawableSize()
			a.renderer.Resize(width, height)
			a.hdr.Resize(width, height)
		case input.EventMouseDown:
			switch event.Button {
			case sdl.BUTTON_LEFT:
				a.window.CaptureMouse(true)
			case sdl.BUTTON_RIGHT:
				a.inspect(event.MouseX, event.MouseY)
			}
		case input.EventFocusLost:
			a.window.CaptureMouse(false)
		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			if event.Key == a.screenshotKey {
				a.captureFrame = true
				continue
			}
			if event.Key != sdl.SCANCODE_ESCAPE {
				continue
			}
			// ESC releases the cursor first, then quits.
			if a.window.MouseCaptured() {
				a.window.CaptureMouse(false)
			} else {
				a.running = false
			}
		}
	}
}

// pollImport binds lightmaps once the model import finishes. Binding runs
// exactly once, after every material exists.
func (a *App) pollImport() {
	if a.imports == nil {
		return
	}
	select {
	case res, ok := <-a.imports:
		a.imports = nil
		if !ok {
			return
		}
		a.onImport(res)
	default:
	}
}

func (a *App) onImport(res gltfimport.Result) {
	if res.Err != nil {
		logger.Error("model import failed", zap.String("model", a.config.Assets.Model), zap.Error(res.Err))
		return
	}
	if err := a.scene.AddModel(res.Model); err != nil {
		logger.Error("adding model to scene", zap.Error(err))
		return
	}
	if a.bound {
		return
	}
	report := a.binder.Bind(a.scene.Materials())
	a.bound = true
	if report.Bound == 0 && a.registry.Len() > 0 {
		logger.Warn("no material requested a registered lightmap",
			zap.String("metadata_key", a.config.Material.LightmapMetaKey))
	}
}

// pollChanges reloads lightmaps whose files changed on disk. The GPU texture
// is replaced in place so bound materials pick it up.
func (a *App) pollChanges() {
	if a.changes == nil {
		return
	}
	for {
		select {
		case name, ok := <-a.changes:
			if !ok {
				a.changes = nil
				return
			}
			a.reloadLightmap(name)
		default:
			return
		}
	}
}

func (a *App) reloadLightmap(name string) {
	spec, ok := specForPath(a.config.Assets.LightmapDir, a.specs, name)
	if !ok {
		return
	}
	existing, ok := a.registry.Lookup(spec.Name)
	if !ok {
		logger.Warn("changed lightmap was never loaded", zap.String("name", spec.Name))
		return
	}
	fresh, err := lightmap.Decode(a.assets, a.config.Assets.LightmapDir, spec)
	if err != nil {
		logger.Warn("lightmap reload failed", zap.String("name", spec.Name), zap.Error(err))
		return
	}
	if err := a.renderer.ReplaceTexture(existing, fresh); err != nil {
		logger.Warn("lightmap upload failed", zap.String("name", spec.Name), zap.Error(err))
		return
	}
	logger.Info("lightmap reloaded", zap.String("name", spec.Name))
}

// inspect logs the surface under the cursor, or under the view center
// while the cursor is captured.
func (a *App) inspect(x, y int) {
	width, height := a.window.GetSize()
	if a.window.MouseCaptured() {
		x, y = width/2, height/2
	}
	viewProj := a.camera.ProjectionMatrix(a.renderer.Aspect()).Mul4(a.camera.ViewMatrix())
	ray := picking.ScreenToRay(float32(x), float32(y), float32(width), float32(height), viewProj.Inv())

	hit, ok := a.scene.Pick(ray)
	if !ok {
		logger.Info("inspect: nothing under cursor")
		return
	}
	fields := []zap.Field{
		zap.String("mesh", hit.Mesh.Name),
		zap.Float32("distance", hit.Distance),
	}
	if m := hit.Material; m != nil {
		fields = append(fields, zap.String("material", m.Name))
		if requested, ok := a.binder.RequestedLightmap(m); ok {
			fields = append(fields, zap.String("requested", requested))
		}
		if m.HasLightmap() {
			fields = append(fields,
				zap.String("lightmap", m.LightmapTexture.Name),
				zap.Int("uv_set", m.LightmapCoordinatesIndex),
				zap.Bool("shadowmap", m.UseLightmapAsShadowmap),
			)
		}
	}
	logger.Info("inspect", fields...)
}

func (a *App) saveScreenshot() {
	width, height := a.renderer.Size()
	name, err := a.screenshots.Capture(width, height)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", name))
}

func (a *App) update(dt float32) {
	captured := a.window.MouseCaptured()
	ctl := a.input.Controls(a.bindings, captured)

	var world camera.Collider
	if a.config.Scene.CollisionsEnabled {
		world = a.scene.Collider()
	}
	a.camera.Update(ctl, dt, world)
}

func (a *App) render(dt float32) error {
	a.renderer.Begin()

	a.hdr.Begin(a.scene.ClearColor())
	proj := a.camera.ProjectionMatrix(a.renderer.Aspect())
	a.scene.Render(proj.Mul4(a.camera.ViewMatrix()))
	a.hdr.End(dt)

	a.renderer.End()
	return nil
}

// Close releases everything New created.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.cancel != nil {
		a.cancel()
	}
	if a.registry != nil && a.renderer != nil {
		for _, t := range a.registry.Textures() {
			a.renderer.DeleteTexture(t)
		}
	}
	if a.scene != nil {
		a.scene.Destroy()
	}
	if a.hdr != nil {
		a.hdr.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
}
