package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// WatchTargets monitors a collections file and calls onChange with the
// reloaded list after each write. Runs until ctx is cancelled.
//
// If a reload fails (e.g. invalid YAML), the error is logged and the
// previous target list stays active — onChange is not called.
func WatchTargets(ctx context.Context, logger *zap.Logger, path string, onChange func([]domain.Target)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.Info("targets_watching", zap.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Editors often save via rename, so catch Create as well.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			targets, err := LoadTargets(path)
			if err != nil {
				logger.Warn("targets_reload_failed", zap.String("path", path), zap.Error(err))
				continue
			}

			logger.Info("targets_reloaded", zap.String("path", path), zap.Int("count", len(targets)))
			onChange(targets)

			// Re-add in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("targets_watch_error", zap.Error(err))
		}
	}
}
