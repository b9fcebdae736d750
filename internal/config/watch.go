package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
)

// Watch reloads path whenever it changes and hands the result to onChange.
// Parse failures are passed through so callers can keep the previous config.
// The parent directory is watched since editors replace files on save.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, err, "create watcher")
	}
	defer watcher.Close()

	dir, name := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return tserrors.Wrap(tserrors.ErrCodeConfig, err, "watch %s", dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			onChange(LoadFromFile(path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, tserrors.Wrap(tserrors.ErrCodeConfig, err, "watch %s", path))
		}
	}
}
