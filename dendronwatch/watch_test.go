// watch_test.go: tests for the optional configuration hot-reload watcher
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendronwatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agilira/dendron"
)

const initialDoc = `
sinks:
  - name: console
    type: console
groups:
  - name: root
    sink: console
    level: info
    is_fallback: true
`

func TestNewRejectsMissingFile(t *testing.T) {
	system := dendron.NewLoggingSystem()
	if _, err := New("/nonexistent/config.yaml", system); err == nil {
		t.Fatal("expected an error constructing a watcher over a missing file")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(initialDoc), 0o644); err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}

	cfg, err := dendron.NewYAMLConfiguratorFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	system := dendron.NewLoggingSystem(cfg)
	system.Configure()

	w, err := New(path, system)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.IsRunning() {
		t.Fatal("expected a freshly constructed watcher not to be running")
	}

	if err := w.Start(); err != nil {
		t.Fatalf("unexpected error starting watcher: %v", err)
	}
	if !w.IsRunning() {
		t.Fatal("expected watcher to report running after Start")
	}
	if err := w.Start(); err == nil {
		t.Fatal("expected a second Start call to fail while already running")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("unexpected error stopping watcher: %v", err)
	}
	if w.IsRunning() {
		t.Fatal("expected watcher to report stopped after Stop")
	}
	if err := w.Stop(); err == nil {
		t.Fatal("expected a second Stop call to fail while already stopped")
	}
}
