package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

// Assets lists the files fetched at startup, relative to Config.AssetsDir.
type Assets struct {
	Environment    string `yaml:"environment"`
	Model          string `yaml:"model"`
	RobotShaders   string `yaml:"robot_shaders"`
	OverlayShaders string `yaml:"overlay_shaders"`
}

type Window struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Title         string  `yaml:"title"`
	MaxPixelRatio float32 `yaml:"max_pixel_ratio"`
	Samples       int     `yaml:"samples"`
}

// Reveal holds the timings, in seconds, of the reveal choreography.
type Reveal struct {
	Delay        float32 `yaml:"delay"`
	FadeDelay    float32 `yaml:"fade_delay"`
	FadeDuration float32 `yaml:"fade_duration"`
	PanelDelay   float32 `yaml:"panel_delay"`
}

type Config struct {
	AssetsDir string `yaml:"assets_dir"`
	Assets    Assets `yaml:"assets"`
	Window    Window `yaml:"window"`
	Reveal    Reveal `yaml:"reveal"`

	// StrictComposition turns a missing named mesh into a startup error.
	StrictComposition bool          `yaml:"strict_composition"`
	LoadTimeout       time.Duration `yaml:"load_timeout"`
	HotReload         bool          `yaml:"hot_reload"`
	Debug             bool          `yaml:"debug"`
}

func Default() Config {
	return Config{
		AssetsDir: "assets",
		Assets: Assets{
			Environment:    "Environment/belfast_sunset_puresky_2k.hdr",
			Model:          "Model/RoboticArm.glb",
			RobotShaders:   "Shaders/Robot",
			OverlayShaders: "Shaders/Overlay",
		},
		Window: Window{
			Width:         1280,
			Height:        720,
			Title:         "Robotic Arm",
			MaxPixelRatio: 2,
			Samples:       4,
		},
		Reveal: Reveal{
			Delay:        1,
			FadeDelay:    0.5,
			FadeDuration: 1.5,
			PanelDelay:   1,
		},
		LoadTimeout: 30 * time.Second,
	}
}

// Load reads a YAML file on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.MaxPixelRatio <= 0:
		return fmt.Errorf("%w: max_pixel_ratio %v", ErrInvalid, c.Window.MaxPixelRatio)
	case c.Reveal.Delay < 0 || c.Reveal.FadeDelay < 0 || c.Reveal.PanelDelay < 0:
		return fmt.Errorf("%w: negative reveal delay", ErrInvalid)
	case c.Reveal.FadeDuration <= 0:
		return fmt.Errorf("%w: fade_duration %v", ErrInvalid, c.Reveal.FadeDuration)
	case c.LoadTimeout < 0:
		return fmt.Errorf("%w: load_timeout %v", ErrInvalid, c.LoadTimeout)
	case c.Assets.Environment == "" || c.Assets.Model == "":
		return fmt.Errorf("%w: environment and model assets are required", ErrInvalid)
	}
	return nil
}

// Path resolves an asset path against AssetsDir.
func (c Config) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.AssetsDir, rel)
}
