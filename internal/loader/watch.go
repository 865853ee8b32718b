package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"RoboticArm/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Settle is how long a burst of editor writes is coalesced into one change.
const Settle = 150 * time.Millisecond

// WatchShaders calls onChange once per burst of writes to .glsl files in dir, until
// ctx is done. onChange runs on the watcher goroutine.
func WatchShaders(ctx context.Context, dir string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create shader watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Log.Info("Watching shaders", zap.String("dir", dir))

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(Settle)
		if !timer.Stop() {
			<-timer.C
		}
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(event.Name), ".glsl") {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					logger.Log.Debug("Shader changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
					timer.Reset(Settle)
				}
			case <-timer.C:
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Error("Shader watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
