package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"RoboticArm/internal/config"
	"RoboticArm/internal/engine"
	"RoboticArm/internal/logger"
	"RoboticArm/internal/renderer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the root command and reports a failure on stderr.
func run(args []string, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "robotarm:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "robotarm",
		Short:         "Interactive robotic arm scene with a sliced circuit board",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Init(cfg.Debug)
			defer logger.Sync()
			logger.Log.Info("Starting",
				zap.String("assets", cfg.AssetsDir),
				zap.Bool("strict", cfg.StrictComposition),
				zap.Bool("hot_reload", cfg.HotReload))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			app, err := engine.NewApp(cfg)
			if err != nil {
				logger.Log.Error("Startup failed", zap.Error(err))
				return err
			}
			if err := engine.New(cfg, app).Run(ctx); err != nil {
				logger.Log.Error("Exited with error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.String("assets", "", "assets directory")
	f.Bool("strict", false, "fail when a named mesh is missing from the model")
	f.Bool("debug", false, "debug logging")
	f.Bool("hot-reload", false, "recompile the robot shaders when they change on disk")
	f.Int("width", 0, "window width")
	f.Int("height", 0, "window height")
	f.BoolVar(&renderer.Debug, "wireframe", false, "draw the scene as wireframe")
	return cmd
}

// applyFlags copies the flags the user set over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("assets") {
		cfg.AssetsDir, _ = f.GetString("assets")
	}
	if f.Changed("strict") {
		cfg.StrictComposition, _ = f.GetBool("strict")
	}
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}
	if f.Changed("hot-reload") {
		cfg.HotReload, _ = f.GetBool("hot-reload")
	}
	if f.Changed("width") {
		cfg.Window.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.Window.Height, _ = f.GetInt("height")
	}
}
