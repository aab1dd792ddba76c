package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/toolforge-dev/toolforge/domain/entities"
)

const defaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	logger   *slog.Logger
	debounce time.Duration
	onReload func(*entities.Settings)
}

func defaultWatchConfig() watchConfig {
	return watchConfig{
		logger:   slog.Default(),
		debounce: defaultDebounce,
	}
}

// WithWatchLogger sets the logger. A nil logger discards all records.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		c.logger = logger
	}
}

// WithDebounce sets how long to wait for a burst of file events to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithOnReload registers a callback invoked after each successful reload.
func WithOnReload(fn func(*entities.Settings)) WatchOption {
	return func(c *watchConfig) {
		c.onReload = fn
	}
}

// Watch reloads path into provider whenever it changes, until ctx is done.
// The parent directory is watched so editors that replace the file are handled.
// A reload that fails to parse or validate is logged and the previous snapshot
// stays in place.
func Watch(ctx context.Context, path string, provider *Provider, opts ...WatchOption) error {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	cfg.logger.InfoContext(ctx, "watching configuration", "path", abs)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce.Reset(cfg.debounce)
			}

		case <-debounce.C:
			reload(ctx, abs, provider, cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.WarnContext(ctx, "configuration watcher error", "error", err)
		}
	}
}

func reload(ctx context.Context, path string, provider *Provider, cfg watchConfig) {
	settings, err := Load(path)
	if err != nil {
		cfg.logger.WarnContext(ctx, "configuration reload rejected, keeping previous settings",
			"path", path, "error", err)
		return
	}
	provider.Store(settings)
	cfg.logger.InfoContext(ctx, "configuration reloaded", "path", path)
	if cfg.onReload != nil {
		cfg.onReload(settings)
	}
}
