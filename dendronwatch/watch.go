// watch.go: optional hot-reload of a YAML configuration document
//
// Grounded on agilira-iris/config_loader.go's DynamicConfigWatcher: same
// argus.Watcher setup (PollInterval, OptimizationAuto, an ErrorHandler
// that writes to stderr instead of panicking),
// same Start/Stop/IsRunning shape. Where iris's watcher only ever
// updates one AtomicLevel, dendronwatch re-parses the whole document and
// re-applies it as a fresh Configurator — LoggingSystem.Configure()
// itself is one-shot (spec §4.7), so a reload goes through the runtime
// mutators, not through Configure again.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendronwatch

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"

	"github.com/agilira/dendron"
)

// Watcher polls a YAML configuration document for changes and re-applies
// it to a LoggingSystem on every change, without ever calling
// Configure() a second time.
type Watcher struct {
	path    string
	system  *dendron.LoggingSystem
	watcher *argus.Watcher

	enabled int32
	mu      sync.Mutex
}

// New constructs a Watcher for path, targeting system. It does not start
// watching until Start is called.
func New(path string, system *dendron.LoggingSystem) (*Watcher, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dendronwatch: config file does not exist: %w", err)
	}

	cfg := argus.Config{
		PollInterval:         2 * time.Second,
		OptimizationStrategy: argus.OptimizationAuto,
		ErrorHandler: func(err error, p string) {
			// Never route watcher errors through the logging system
			// itself: a broken config is exactly when that path is
			// least trustworthy.
			fmt.Fprintf(os.Stderr, "[dendron] watcher error for %s: %v\n", p, err)
		},
	}

	w := &Watcher{
		path:    path,
		system:  system,
		watcher: argus.New(*cfg.WithDefaults()),
	}
	return w, nil
}

// Start begins watching the configuration file, re-applying it to the
// LoggingSystem every time it changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if atomic.LoadInt32(&w.enabled) != 0 {
		return fmt.Errorf("dendronwatch: watcher is already started")
	}

	if err := w.watcher.Watch(w.path, func(event argus.ChangeEvent) {
		w.reload(event.Path)
	}); err != nil {
		return fmt.Errorf("dendronwatch: failed to watch %s: %w", w.path, err)
	}

	if err := w.watcher.Start(); err != nil {
		return fmt.Errorf("dendronwatch: failed to start watcher: %w", err)
	}
	atomic.StoreInt32(&w.enabled, 1)
	return nil
}

// Stop stops watching the configuration file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if atomic.LoadInt32(&w.enabled) == 0 {
		return fmt.Errorf("dendronwatch: watcher is not started")
	}
	if err := w.watcher.Stop(); err != nil {
		return fmt.Errorf("dendronwatch: failed to stop watcher: %w", err)
	}
	atomic.StoreInt32(&w.enabled, 0)
	return nil
}

// IsRunning reports whether the watcher is currently active.
func (w *Watcher) IsRunning() bool {
	return atomic.LoadInt32(&w.enabled) != 0
}

// reload re-parses path and re-applies it to the system via a fresh
// YAMLConfigurator's Apply, never through Configure (spec §4.7:
// "configure() may be called at most once successfully").
func (w *Watcher) reload(path string) {
	cfg, err := dendron.NewYAMLConfiguratorFromFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[dendron] reload from %s failed: %v\n", path, err)
		return
	}
	result := cfg.Apply(w.system)
	if result.HasError {
		fmt.Fprintf(os.Stderr, "[dendron] reload from %s reported errors: %s\n", path, result.Message)
	}
}
