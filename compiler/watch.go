package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for after a change.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

type watchOptions struct {
	files    []string
	debounce time.Duration
	logger   *slog.Logger
}

// WatchFiles adds files whose changes also trigger a run, such as a
// custom template.
func WatchFiles(files ...string) WatchOption {
	return func(o *watchOptions) {
		o.files = append(o.files, files...)
	}
}

// WatchDebounce sets the quiet period. Non-positive values are ignored.
func WatchDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WatchLogger sets the logger.
func WatchLogger(l *slog.Logger) WatchOption {
	return func(o *watchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Watch calls run once and then again every time path or one of the
// watched files is written, created or renamed, until ctx is done.
// Failed runs are logged and watching goes on. Watch returns nil once
// ctx is done.
func Watch(ctx context.Context, path string, run func(context.Context) error, opts ...WatchOption) error {
	o := &watchOptions{debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Editors often replace files instead of writing them, so the parent
	// directories are watched and events filtered by name.
	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range append([]string{path}, o.files...) {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	exec := func() {
		if err := run(ctx); err != nil {
			o.logger.Error("generation failed", "error", err)
			return
		}
		o.logger.Info("generation succeeded")
	}
	exec()

	timer := time.NewTimer(o.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !files[name] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			o.logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(o.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("watch error", "error", err)
		case <-timer.C:
			o.logger.Info("configuration changed, regenerating")
			exec()
		}
	}
}
