package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"RoboticArm/internal/config"
	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"
	"RoboticArm/internal/scene"

	"go.uber.org/zap"
)

// Handlers receive decoded assets. They are delivered through the Manager, before
// the Manager counts the asset as loaded.
type Handlers struct {
	Environment func(*scene.Environment)
	Model       func(*scene.Node)

	// PrepareModel runs on the loading goroutine before delivery, while the model is
	// not yet shared. An error fails the model asset.
	PrepareModel func(*scene.Node) error
}

// Loader fetches the configured assets, reporting to a shared Manager.
type Loader struct {
	cfg     config.Config
	manager *Manager
	shaders fs.FS
}

func New(cfg config.Config, manager *Manager) *Loader {
	return &Loader{cfg: cfg, manager: manager, shaders: ShaderFS(cfg.AssetsDir)}
}

func (l *Loader) Manager() *Manager { return l.manager }

// ShaderFS is where shader pairs are read from.
func (l *Loader) ShaderFS() fs.FS { return l.shaders }

// LoadShaders reads the robot and overlay shader pairs. They are small and needed to
// build materials, so they load synchronously before the scene exists.
func (l *Loader) LoadShaders() (robot, overlay material.Program, err error) {
	if robot, err = LoadShaderPair(l.shaders, l.cfg.Assets.RobotShaders); err != nil {
		return robot, overlay, fmt.Errorf("robot shaders: %w", err)
	}
	if overlay, err = LoadShaderPair(l.shaders, l.cfg.Assets.OverlayShaders); err != nil {
		return robot, overlay, fmt.Errorf("overlay shaders: %w", err)
	}
	return robot, overlay, nil
}

// Load registers the environment map and model with the Manager and fetches both
// concurrently. It returns immediately.
func (l *Loader) Load(ctx context.Context, h Handlers) {
	envURL := l.cfg.Assets.Environment
	modelURL := l.cfg.Assets.Model
	l.manager.Begin(envURL, modelURL)

	go fetch(ctx, l.manager, envURL, l.cfg.LoadTimeout, func() (func(), error) {
		env, err := LoadEnvironment(l.cfg.Path(envURL))
		if err != nil {
			return nil, err
		}
		logger.Log.Info("Environment map decoded",
			zap.String("file", envURL),
			zap.Int("width", env.Width),
			zap.Int("height", env.Height))
		return func() {
			if h.Environment != nil {
				h.Environment(env)
			}
		}, nil
	})

	go fetch(ctx, l.manager, modelURL, l.cfg.LoadTimeout, func() (func(), error) {
		root, err := LoadModel(l.cfg.Path(modelURL))
		if err != nil {
			return nil, err
		}
		if h.PrepareModel != nil {
			if err := h.PrepareModel(root); err != nil {
				return nil, err
			}
		}
		return func() {
			if h.Model != nil {
				h.Model(root)
			}
		}, nil
	})
}

// LoadModel picks a decoder by file extension.
func LoadModel(path string) (*scene.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb", ".gltf":
		return LoadGLTF(path)
	case ".obj":
		return LoadOBJ(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}

type result struct {
	deliver func()
	err     error
}

// fetch runs work with an optional timeout and reports the outcome for url. A
// timed-out work function keeps running but its result is dropped.
func fetch(ctx context.Context, m *Manager, url string, timeout time.Duration, work func() (func(), error)) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("decoder panic: %v", r)}
			}
		}()
		deliver, err := work()
		done <- result{deliver, err}
	}()

	select {
	case <-ctx.Done():
		m.Fail(url, ctx.Err())
	case r := <-done:
		if r.err != nil {
			m.Fail(url, r.err)
			return
		}
		m.Post(r.deliver)
		m.End(url)
	}
}
