package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/roach88/mksync/internal/transport"
)

// Watcher reloads the config file when it changes and reports new endpoint
// sets. The directory is watched rather than the file so that editors
// replacing the file by rename are noticed.
type Watcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	current []transport.Endpoint
}

// NewWatcher starts watching path. current is the endpoint set already in
// use; only differing sets are reported.
func NewWatcher(path string, current []transport.Endpoint, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &Watcher{
		path:    filepath.Clean(path),
		logger:  logger.With("component", "config", "path", path),
		watcher: w,
		current: slices.Clone(current),
	}, nil
}

// Run blocks until ctx is done, calling fn with every reloaded config whose
// endpoints differ from the last reported set. Invalid files are logged and
// skipped; the previous endpoints stay in effect.
func (w *Watcher) Run(ctx context.Context, fn func(*Config)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("config file event", "op", event.Op.String())
			w.reload(fn)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) reload(fn func(*Config)) {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("ignoring invalid config", "error", err)
		return
	}
	if slices.Equal(cfg.Endpoints, w.current) {
		return
	}
	w.current = slices.Clone(cfg.Endpoints)
	w.logger.Info("endpoints changed", "count", len(cfg.Endpoints))
	fn(cfg)
}
