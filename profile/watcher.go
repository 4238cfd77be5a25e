package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Overrides is the on-disk shape of a profile overrides file: per-profile
// rule bindings that replace the seeded rules when the file changes.
type Overrides struct {
	Profiles map[string]struct {
		Rules []Rule `yaml:"rules"`
	} `yaml:"profiles"`
}

// WatcherConfig configures the overrides watcher.
type WatcherConfig struct {
	// Path is the overrides YAML file to watch.
	Path string

	// DebounceDelay is how long to wait for further writes before
	// reloading. Editors typically emit several events per save.
	DebounceDelay time.Duration

	// Logger for reload events.
	Logger *slog.Logger
}

// Watcher applies a profile-overrides file to a Catalog and reloads it when
// the file changes on disk.
type Watcher struct {
	config  WatcherConfig
	catalog *Catalog
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   bool
}

// NewWatcher constructs a Watcher for the given catalog.
func NewWatcher(catalog *Catalog, config WatcherConfig) (*Watcher, error) {
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		config:  config,
		catalog: catalog,
		watcher: fsw,
		logger:  logger,
	}, nil
}

// Start applies the overrides file once, then watches its directory until
// the context is cancelled. A missing file is not an error: the watcher
// waits for it to appear.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.applyFile(); err != nil && !os.IsNotExist(err) {
		return err
	}

	// Watch the parent directory so replace-by-rename saves are seen.
	dir := filepath.Dir(w.config.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go w.loop(ctx)
	return nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	timer := time.NewTimer(w.config.DebounceDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			if !w.pending {
				w.pending = true
				timer.Reset(w.config.DebounceDelay)
			}
			w.pendingMu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("profile overrides watch error", "error", err)
		case <-timer.C:
			w.pendingMu.Lock()
			w.pending = false
			w.pendingMu.Unlock()
			if err := w.applyFile(); err != nil {
				w.logger.Warn("failed to apply profile overrides",
					"path", w.config.Path, "error", err)
			}
		}
	}
}

// applyFile loads the overrides file and applies each entry to the catalog.
func (w *Watcher) applyFile() error {
	applied, err := ApplyOverridesFile(w.catalog, w.config.Path, w.logger)
	if err != nil {
		return err
	}

	w.logger.Info("applied profile overrides",
		"path", w.config.Path, "profiles", applied)
	return nil
}

// ApplyOverridesFile applies an overrides file to the catalog once, without
// watching it. Returns the number of profiles updated. Unknown profile ids
// are skipped with a warning.
func ApplyOverridesFile(catalog *Catalog, path string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var overrides Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return 0, fmt.Errorf("parse overrides: %w", err)
	}

	applied := 0
	for id, entry := range overrides.Profiles {
		if len(entry.Rules) == 0 {
			continue
		}
		if err := catalog.SetRules(id, entry.Rules); err != nil {
			logger.Warn("skipping override for unknown profile",
				"profile", id, "error", err)
			continue
		}
		applied++
	}
	return applied, nil
}
