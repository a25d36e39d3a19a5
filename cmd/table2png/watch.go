package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// getWatcher watches the directory holding path. Editors often replace a
// file instead of writing it, which only shows up on the directory.
func getWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}

// readWatcher calls onChange for every write or create of path until ctx
// is done or the watcher is closed.
func readWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string, logger logrus.FieldLogger, onChange func()) {
	target := filepath.Clean(path)
	mask := fsnotify.Create | fsnotify.Write
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target || evt.Op&mask == 0 {
				continue
			}
			logger.WithField("event", evt.String()).Debug("Registered file event.")
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.WithError(err).Warn("File watcher error.")
		}
	}
}

// watchDefinition re-renders path on every change until ctx is done.
func watchDefinition(ctx context.Context, path string, logger logrus.FieldLogger, render func() error) error {
	watcher, err := getWatcher(path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	logger.WithField("definition", path).Info("Watching for changes.")
	readWatcher(ctx, watcher, path, logger, func() {
		if err := render(); err != nil {
			logger.WithField("definition", path).Error(err.Error())
		}
	})
	return nil
}
