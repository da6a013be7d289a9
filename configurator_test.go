// configurator_test.go: tests for the YAML configurator's wiring and
// validation behavior
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "testing"

func configureFromYAML(t *testing.T, yaml string) (*LoggingSystem, Result) {
	t.Helper()
	cfg, err := NewYAMLConfiguratorFromString(yaml)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	system := NewLoggingSystem(cfg)
	return system, system.Configure()
}

func TestConfiguratorWiresConsoleSinkAndGroup(t *testing.T) {
	system, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
    stream: stdout
groups:
  - name: root
    sink: console
    level: info
    is_fallback: true
`)
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}
	if _, ok := system.Sink("console"); !ok {
		t.Fatal("expected console sink to be registered")
	}
	g, ok := system.Group("root")
	if !ok {
		t.Fatal("expected root group to be registered")
	}
	if g.Level() != Info {
		t.Errorf("expected root group level Info, got %s", g.Level())
	}
}

func TestConfiguratorMultisinkWiresMembers(t *testing.T) {
	system, result := configureFromYAML(t, `
sinks:
  - name: a
    type: console
  - name: b
    type: console
  - name: fanout
    type: multisink
    sinks: [a, b]
groups:
  - name: root
    sink: fanout
    level: info
`)
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}
	sink, ok := system.Sink("fanout")
	if !ok {
		t.Fatal("expected fanout multisink to be registered")
	}
	ms, ok := sink.(*Multisink)
	if !ok {
		t.Fatalf("expected *Multisink, got %T", sink)
	}
	if len(ms.Members()) != 2 {
		t.Fatalf("expected 2 members, got %d", len(ms.Members()))
	}
}

func TestConfiguratorRejectsReservedSinkName(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: "*"
    type: console
groups:
  - name: root
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for a sink named '*'")
	}
}

func TestConfiguratorRejectsReservedGroupName(t *testing.T) {
	_, result := configureFromYAML(t, `
groups:
  - name: "*"
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for a group named '*'")
	}
}

func TestConfiguratorRejectsUnknownSinkType(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: weird
    type: carrier-pigeon
groups:
  - name: root
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for an unknown sink type")
	}
}

func TestConfiguratorRejectsUndefinedSinkReference(t *testing.T) {
	_, result := configureFromYAML(t, `
groups:
  - name: root
    sink: does-not-exist
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error referencing an undefined sink")
	}
}

func TestConfiguratorRejectsMultisinkWithUndefinedMember(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: fanout
    type: multisink
    sinks: [does-not-exist]
groups:
  - name: root
    sink: fanout
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for a multisink referencing an undefined member")
	}
}

func TestConfiguratorRejectsMultisinkSelfCycle(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: a
    type: console
  - name: fanout
    type: multisink
    sinks: [a, fanout]
groups:
  - name: root
    sink: fanout
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for a multisink that contains itself")
	}
}

func TestConfiguratorRejectsNoGroupsDefined(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
`)
	if !result.HasError {
		t.Fatal("expected an error when the document defines no groups at all")
	}
}

func TestConfiguratorRejectsMultipleFallbackGroups(t *testing.T) {
	_, result := configureFromYAML(t, `
groups:
  - name: root1
    level: info
    is_fallback: true
  - name: root2
    level: info
    is_fallback: true
`)
	if !result.HasError {
		t.Fatal("expected an error when more than one group sets is_fallback")
	}
}

func TestConfiguratorChildGroupInheritsParentSinkAndLevel(t *testing.T) {
	system, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
groups:
  - name: root
    sink: console
    level: warning
    children:
      - name: root.child
`)
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}
	child, ok := system.Group("root.child")
	if !ok {
		t.Fatal("expected child group to be registered")
	}
	if child.Level() != Warning {
		t.Errorf("expected child to inherit Warning, got %s", child.Level())
	}
	root, ok := system.Group("root")
	if !ok {
		t.Fatal("expected root group to be registered")
	}
	if child.Sink() != root.Sink() {
		t.Errorf("expected child to inherit the root group's sink, got %v", child.Sink())
	}
	if child.LevelOverridden() {
		t.Error("expected child to not mark level as overridden when inherited")
	}
}

func TestConfiguratorChildGroupOverridesMarkedExplicitly(t *testing.T) {
	system, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
groups:
  - name: root
    sink: console
    level: warning
    children:
      - name: root.child
        level: debug
`)
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}
	child, ok := system.Group("root.child")
	if !ok {
		t.Fatal("expected child group to be registered")
	}
	if !child.LevelOverridden() {
		t.Error("expected an explicitly configured level to be marked as overridden")
	}
	if child.Level() != Debug {
		t.Errorf("expected Debug, got %s", child.Level())
	}
}

func TestConfiguratorUnknownLevelWarnsButDoesNotFailSink(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
    level: not-a-real-level
groups:
  - name: root
    sink: console
    level: info
`)
	if result.HasError {
		t.Fatalf("expected a warning, not an error, got: %s", result.Message)
	}
	if !result.HasWarning {
		t.Fatal("expected a warning for an unparseable level")
	}
}

func TestConfiguratorChainSecondConfiguratorOverridesFirst(t *testing.T) {
	first, err := NewYAMLConfiguratorFromString(`
sinks:
  - name: console
    type: console
groups:
  - name: root
    sink: console
    level: warning
    is_fallback: true
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	second, err := NewYAMLConfiguratorFromString(`
groups:
  - name: root
    level: debug
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	system := NewLoggingSystem(first, second)
	result := system.Configure()
	if result.HasError {
		t.Fatalf("unexpected error: %s", result.Message)
	}

	g, ok := system.Group("root")
	if !ok {
		t.Fatal("expected root group to be registered")
	}
	if g.Level() != Debug {
		t.Errorf("expected the second configurator to override the level to Debug, got %s", g.Level())
	}
}

func TestConfiguratorUnknownKeyWarnsButDoesNotFail(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: console
    type: console
    colour: true
groups:
  - name: root
    sink: console
    level: info
`)
	if result.HasError {
		t.Fatalf("expected a warning, not an error, got: %s", result.Message)
	}
	if !result.HasWarning {
		t.Fatal("expected a warning for an unrecognized key")
	}
}

func TestConfiguratorFileSinkRequiresPath(t *testing.T) {
	_, result := configureFromYAML(t, `
sinks:
  - name: f
    type: file
groups:
  - name: root
    sink: f
    level: info
`)
	if !result.HasError {
		t.Fatal("expected an error for a file sink missing its path")
	}
}
