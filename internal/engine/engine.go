package engine

import (
	"context"
	"fmt"
	"runtime"

	"RoboticArm/internal/camera"
	"RoboticArm/internal/config"
	"RoboticArm/internal/debugui"
	"RoboticArm/internal/gui"
	"RoboticArm/internal/logger"
	"RoboticArm/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Engine owns the window, the GL context and the render loop.
type Engine struct {
	cfg      config.Config
	app      *App
	window   *glfw.Window
	renderer *renderer.OpenGLRenderer
	viewport *camera.Viewport
	gui      *gui.GUI
	pointer  *pointer
}

func New(cfg config.Config, app *App) *Engine {
	return &Engine{
		cfg:      cfg,
		app:      app,
		renderer: &renderer.OpenGLRenderer{},
		pointer:  &pointer{controls: app.Controls},
	}
}

// Run opens the window and renders until it is closed or ctx is done. It must be
// called from the main goroutine.
func (e *Engine) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	w := e.cfg.Window
	window, err := glfw.CreateWindow(w.Width, w.Height, w.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()
	e.window = window
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	SetDarkTitleBar(window)

	width, height := window.GetSize()
	if err := e.renderer.Init(width, height, w.Samples); err != nil {
		return err
	}
	defer e.renderer.Cleanup()

	e.viewport = camera.NewViewport(e.app.Camera, e.renderer, w.MaxPixelRatio)
	e.resize()
	e.installCallbacks()

	e.app.OnStatus = e.setStatus
	e.app.OnUnlock = e.unlock
	defer func() {
		if e.gui != nil {
			e.gui.Dispose()
		}
	}()

	e.app.Start(ctx)
	if e.cfg.HotReload {
		if err := e.app.WatchShaders(ctx); err != nil {
			logger.Log.Warn("Shader hot reload disabled", zap.Error(err))
		}
	}

	e.loop(ctx)
	return e.app.Err()
}

func (e *Engine) loop(ctx context.Context) {
	last := glfw.GetTime()
	for !e.window.ShouldClose() && ctx.Err() == nil {
		glfw.PollEvents()

		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		e.app.Frame(dt)
		e.renderer.Render(e.app.Scene, e.app.Camera)
		if e.gui != nil && e.app.Panel != nil {
			e.gui.Render(e.app.Panel)
		}
		e.window.SwapBuffers()
	}
}

// unlock runs on the render thread, inside Frame, so the gui can create its GL
// objects here.
func (e *Engine) unlock(panel *debugui.Panel) {
	g, err := gui.New(e.window)
	if err != nil {
		logger.Log.Error("Debug panel unavailable", zap.Error(err))
		return
	}
	e.gui = g
	logger.Log.Info("Debug panel unlocked", zap.Int("folders", len(panel.Folders)))
}

func (e *Engine) setStatus(s string) {
	title := e.cfg.Window.Title
	if s != "" {
		title += " - " + s
	}
	e.window.SetTitle(title)
}

// resize reads the window size and content scale and applies them to the camera
// and the renderer.
func (e *Engine) resize() {
	width, height := e.window.GetSize()
	scale, _ := e.window.GetContentScale()
	if e.viewport.Resize(width, height, scale) {
		e.renderer.SetFramebufferSize(e.window.GetFramebufferSize())
		logger.Log.Debug("Viewport resized",
			zap.Int("width", width), zap.Int("height", height),
			zap.Float32("pixel_ratio", e.viewport.PixelRatio))
	}
}

func (e *Engine) overGUI() bool {
	return e.gui != nil && e.gui.WantsMouse()
}

func (e *Engine) installCallbacks() {
	e.window.SetSizeCallback(func(_ *glfw.Window, _, _ int) { e.resize() })
	e.window.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) { e.resize() })
	e.window.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) { e.resize() })

	e.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if e.gui != nil {
			e.gui.Platform().MouseButtonChange(button, action)
		}
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			x, y := w.GetCursorPos()
			e.pointer.Press(x, y, e.overGUI())
		case glfw.Release:
			e.pointer.Release()
		}
	})
	e.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		e.pointer.Move(x, y, e.viewport.Height)
	})
	e.window.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		if e.gui != nil {
			e.gui.Platform().MouseScroll(x, y)
		}
		e.pointer.Scroll(y, e.overGUI())
	})
	e.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if e.gui != nil {
			e.gui.Platform().KeyChange(key, action)
		}
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	e.window.SetCharCallback(func(_ *glfw.Window, char rune) {
		if e.gui != nil {
			e.gui.Platform().CharChange(char)
		}
	})
}
