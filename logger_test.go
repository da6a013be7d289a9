// logger_test.go: tests for the producer-facing Logger leaf
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"bytes"
	"testing"
)

func TestNewLoggerInheritsGroupDefaults(t *testing.T) {
	dest := &memDest{}
	base := newTestSyncSink("sink", dest)
	sink := &ConsoleSink{sinkBase: base}
	g := newGroup("root", sink, Warning)

	lg := newLogger("app", g)
	if lg.Sink() != sink {
		t.Error("expected logger to inherit group's sink")
	}
	if lg.Level() != Warning {
		t.Errorf("expected logger to inherit group's level, got %s", lg.Level())
	}
	if lg.SinkOverridden() || lg.LevelOverridden() {
		t.Error("expected a freshly created logger to have no overrides")
	}
}

func TestLoggerEnabledGatesEmission(t *testing.T) {
	dest := &memDest{}
	sink := &ConsoleSink{sinkBase: newTestSyncSink("sink", dest)}
	g := newGroup("root", sink, Warning)
	lg := newLogger("app", g)

	if lg.Enabled(Info) {
		t.Error("expected Info to be disabled under a Warning threshold")
	}
	if !lg.Enabled(Error) {
		t.Error("expected Error to be enabled under a Warning threshold")
	}

	lg.Info("this should never format or reach the sink")
	if bytes.Contains([]byte(dest.String()), []byte("never")) {
		t.Fatal("expected the gated Info call to never reach the sink")
	}

	lg.Error("this should reach the sink")
	if !bytes.Contains([]byte(dest.String()), []byte("this should reach the sink")) {
		t.Fatal("expected the enabled Error call to reach the sink")
	}
}

func TestLoggerLazyOnlyBuildsWhenEnabled(t *testing.T) {
	dest := &memDest{}
	sink := &ConsoleSink{sinkBase: newTestSyncSink("sink", dest)}
	g := newGroup("root", sink, Error)
	lg := newLogger("app", g)

	built := false
	lg.Lazy(Info, func() (string, []any) {
		built = true
		return "should not be built", nil
	})
	if built {
		t.Fatal("expected Lazy's build func not to run when the level is disabled")
	}

	lg.Lazy(Error, func() (string, []any) {
		built = true
		return "built", nil
	})
	if !built {
		t.Fatal("expected Lazy's build func to run when the level is enabled")
	}
}

func TestLoggerSetResetSinkOverride(t *testing.T) {
	destA := &memDest{}
	destB := &memDest{}
	sinkA := &ConsoleSink{sinkBase: newTestSyncSink("a", destA)}
	sinkB := &ConsoleSink{sinkBase: newTestSyncSink("b", destB)}
	g := newGroup("root", sinkA, Info)
	lg := newLogger("app", g)

	lg.SetSink(sinkB)
	if !lg.SinkOverridden() || lg.Sink() != sinkB {
		t.Fatal("expected SetSink to install an override")
	}

	lg.ResetSink()
	if lg.SinkOverridden() || lg.Sink() != sinkA {
		t.Fatal("expected ResetSink to revert to the group's sink")
	}
}

func TestLoggerSetResetLevelOverride(t *testing.T) {
	sink := NewNullSink("*")
	g := newGroup("root", sink, Info)
	lg := newLogger("app", g)

	lg.SetLevel(Critical)
	if !lg.LevelOverridden() || lg.Level() != Critical {
		t.Fatal("expected SetLevel to install an override")
	}

	lg.ResetLevel()
	if lg.LevelOverridden() || lg.Level() != Info {
		t.Fatal("expected ResetLevel to revert to the group's level")
	}
}

func TestLoggerRebindRespectsOverrides(t *testing.T) {
	sink := NewNullSink("*")
	oldGroup := newGroup("old", sink, Info)
	newGroupNode := newGroup("new", sink, Critical)
	lg := newLogger("app", oldGroup)

	lg.SetLevel(Warning) // override: rebind must not clobber this
	lg.rebind(newGroupNode)

	if lg.Group() != newGroupNode {
		t.Fatal("expected rebind to switch the logger's group")
	}
	if lg.Level() != Warning {
		t.Errorf("expected overridden level to survive rebind, got %s", lg.Level())
	}
}

func TestLoggerRefreshFromGroupUpdatesNonOverriddenOnly(t *testing.T) {
	sink := NewNullSink("*")
	g := newGroup("root", sink, Info)
	lg := newLogger("app", g)
	lg.SetLevel(Error) // override

	g.setLevelLocal(Critical, true)
	lg.refreshFromGroup()

	if lg.Level() != Error {
		t.Errorf("expected overridden logger level to stay Error, got %s", lg.Level())
	}
}
