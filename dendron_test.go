// dendron_test.go: tests for the top-level construction entry point
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "testing"

func TestNewBuildsAndConfiguresInOneCall(t *testing.T) {
	cfg, err := NewYAMLConfiguratorFromString(`
sinks:
  - name: console
    type: console
groups:
  - name: root
    sink: console
    level: info
    is_fallback: true
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system, result := New(cfg)
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}

	logger, err := system.GetLogger("app", "root", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error getting logger: %v", err)
	}
	if logger.Name() != "app" {
		t.Errorf("expected logger named %q, got %q", "app", logger.Name())
	}
}
