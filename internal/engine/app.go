package engine

import (
	"context"
	"fmt"
	"os"

	"RoboticArm/internal/camera"
	"RoboticArm/internal/config"
	"RoboticArm/internal/debugui"
	"RoboticArm/internal/loader"
	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"
	"RoboticArm/internal/reveal"
	"RoboticArm/internal/scene"

	"go.uber.org/zap"
)

// App is the scene and everything that drives it, independent of the window. All
// of its state is touched only from the goroutine calling Frame; loaders reach it
// through the Dispatcher.
type App struct {
	Dispatcher *Dispatcher
	Library    *material.Library
	Sliced     *material.SlicedMaterial
	Overlay    *material.Overlay
	Scene      *scene.Scene
	Camera     *camera.Camera
	Controls   *camera.OrbitControls
	Timeline   *reveal.Timeline
	Sequencer  *reveal.Sequencer
	Manager    *loader.Manager

	// Panel is nil until the reveal unlocks it.
	Panel *debugui.Panel

	OnUnlock func(*debugui.Panel)
	OnStatus func(string)

	cfg    config.Config
	loader *loader.Loader
	err    error
}

func NewApp(cfg config.Config) (*App, error) {
	a := &App{
		cfg:        cfg,
		Dispatcher: NewDispatcher(64),
		Library:    material.NewLibrary(),
		Timeline:   reveal.NewTimeline(),
	}
	a.Manager = loader.NewManager(a.Dispatcher.Post)
	a.loader = loader.New(cfg, a.Manager)

	robot, overlay, err := a.loader.LoadShaders()
	if err != nil {
		return nil, err
	}
	if a.Sliced, err = material.NewSliced(a.Library.Get(material.SurfaceRobotCircuit), robot, nil); err != nil {
		return nil, err
	}
	a.Overlay = material.NewOverlay(overlay)
	a.Scene = scene.New(a.Library, a.Overlay)

	a.Camera = camera.NewPerspective(cfg.Window.Width, cfg.Window.Height)
	a.Controls = camera.NewOrbitControls(a.Camera)

	timings := reveal.Timings{
		Delay:        cfg.Reveal.Delay,
		FadeDelay:    cfg.Reveal.FadeDelay,
		FadeDuration: cfg.Reveal.FadeDuration,
		PanelDelay:   cfg.Reveal.PanelDelay,
	}
	a.Sequencer = reveal.New(a.Timeline, &a.Overlay.Uniforms[material.UniformAlpha].Value, timings)

	a.Manager.OnStart = func(url string, loaded, total int) {
		a.status(fmt.Sprintf("Loading %d/%d", loaded, total))
	}
	a.Manager.OnProgress = func(url string, loaded, total int) {
		logger.Log.Info("Asset loaded", zap.String("url", url), zap.Int("loaded", loaded), zap.Int("total", total))
		a.Overlay.SetProgress(loader.Progress{Loaded: loaded, Total: total}.Ratio())
		a.status(fmt.Sprintf("Loading %d/%d", loaded, total))
	}
	a.Manager.OnLoad = a.Sequencer.Start
	a.Manager.OnError = func(url string, err error) {
		a.err = err
		a.Overlay.SetFailed(true)
		a.Sequencer.Fail(err)
		a.status("Failed to load " + url)
	}

	a.Sequencer.OnHideIndicator = func() {
		a.Overlay.SetLoading(false)
		a.status("")
	}
	a.Sequencer.OnUnlock = func() {
		a.Panel = debugui.NewPanel(a.Library, a.Sliced)
		if a.OnUnlock != nil {
			a.OnUnlock(a.Panel)
		}
	}
	return a, nil
}

// Start begins loading the environment and the model.
func (a *App) Start(ctx context.Context) {
	a.loader.Load(ctx, loader.Handlers{
		Environment: func(env *scene.Environment) {
			a.Scene.Environment = env
		},
		PrepareModel: func(root *scene.Node) error {
			return scene.Compose(root, a.Library, a.Sliced, scene.ComposeOptions{Strict: a.cfg.StrictComposition})
		},
		Model: a.Scene.SetModel,
	})
}

// WatchShaders recompiles the sliced material whenever the robot shaders on disk
// change. Shaders served from the embedded copy are not watched.
func (a *App) WatchShaders(ctx context.Context) error {
	dir := a.cfg.Path(a.cfg.Assets.RobotShaders)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("hot reload: %w", err)
	}
	return loader.WatchShaders(ctx, dir, func() {
		a.Dispatcher.Post(a.ReloadShaders)
	})
}

// ReloadShaders reads the robot shaders again and recomposes the sliced material.
// On error the current programs stay in place.
func (a *App) ReloadShaders() {
	custom, err := loader.LoadShaderPair(a.loader.ShaderFS(), a.cfg.Assets.RobotShaders)
	if err == nil {
		err = a.Sliced.Recompile(custom)
	}
	if err != nil {
		logger.Log.Error("Shader reload failed", zap.Error(err))
		return
	}
	logger.Log.Info("Shaders reloaded", zap.Int("version", a.Sliced.Version()))
}

// Frame runs queued loader work, advances the reveal by dt seconds and applies the
// camera controls.
func (a *App) Frame(dt float32) {
	a.Dispatcher.Drain()
	a.Timeline.Advance(dt)
	a.Controls.Update()
}

// Err is the first load failure.
func (a *App) Err() error { return a.err }

func (a *App) status(s string) {
	if a.OnStatus != nil {
		a.OnStatus(s)
	}
}
