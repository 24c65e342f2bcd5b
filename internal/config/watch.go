package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDelay coalesces the burst of events editors emit for a single save.
var DebounceDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and hands the result to fn, which
// receives either the new config or the load error. The parent directory is
// watched so that editors replacing the file are noticed. Watch blocks until
// ctx is done and returns nil then.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	return WatchOver(ctx, path, DefaultConfig(), fn)
}

// WatchOver is Watch with every reload applied over a copy of base.
func WatchOver(ctx context.Context, path string, base *Config, fn func(*Config, error)) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	timer := time.NewTimer(DebounceDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(DebounceDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("config: watch: %w", err))
		case <-timer.C:
			fn(LoadOver(path, base))
		}
	}
}
