// configurator.go: chain-of-responsibility document application
// (spec §2 C8, §4.8)
//
// Grounded on agilira-iris/config_loader.go's multi-source chaining
// idiom (apply one source, accumulate diagnostics, move to the next
// regardless of earlier failures); the diagnostic accumulation itself
// uses go.uber.org/multierr the way iris's loader composes errors from
// several config sources into one reported value.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/agilira/dendron/configdoc"
)

// Configurator applies a declarative description to a LoggingSystem
// (spec §4.8). Implementations are meant to be chained: LoggingSystem
// applies each configurator in construction order, and a later one may
// freely update entities an earlier one created (spec: "the applicator
// is expected to be idempotent for already-created entities").
type Configurator interface {
	Apply(system *LoggingSystem) Result
}

// Result is the aggregated outcome of applying one or more configurators
// (spec §6, §4.8).
type Result struct {
	HasError   bool
	HasWarning bool
	Message    string
}

// merge combines r with other, keeping both messages (spec: "the message
// is preserved" across chained configurators even when earlier ones
// failed).
func (r Result) merge(other Result) Result {
	return Result{
		HasError:   r.HasError || other.HasError,
		HasWarning: r.HasWarning || other.HasWarning,
		Message:    joinNonEmpty(r.Message, other.Message),
	}
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "" :
		return b
	case b == "":
		return a
	default:
		return a + "\n" + b
	}
}

// diagnostics accumulates the `E:`/`W:`/`I:` prefixed lines a single
// Apply call produces, using multierr to combine them into one message
// (spec §6: "Diagnostics use the prefix codes E:, W:, I:").
type diagnostics struct {
	errs []error
	hasError,
	hasWarning bool
}

func (d *diagnostics) errorf(format string, args ...any) {
	d.hasError = true
	d.errs = append(d.errs, fmt.Errorf("E: "+format, args...))
}

func (d *diagnostics) warnf(format string, args ...any) {
	d.hasWarning = true
	d.errs = append(d.errs, fmt.Errorf("W: "+format, args...))
}

func (d *diagnostics) infof(format string, args ...any) {
	d.errs = append(d.errs, fmt.Errorf("I: "+format, args...))
}

func (d *diagnostics) result() Result {
	combined := multierr.Combine(d.errs...)
	msg := ""
	if combined != nil {
		msg = combined.Error()
	}
	return Result{HasError: d.hasError, HasWarning: d.hasWarning, Message: msg}
}

// YAMLConfigurator applies a parsed configdoc.Root to a LoggingSystem
// (spec §4.8's document schema).
type YAMLConfigurator struct {
	doc *configdoc.Root
}

// NewYAMLConfigurator wraps an already-parsed document.
func NewYAMLConfigurator(doc *configdoc.Root) *YAMLConfigurator {
	return &YAMLConfigurator{doc: doc}
}

// NewYAMLConfiguratorFromFile loads and wraps a document from path.
func NewYAMLConfiguratorFromFile(path string) (*YAMLConfigurator, error) {
	doc, err := configdoc.LoadFromFile(path)
	if err != nil {
		return nil, wrapError(err, ErrCodeInvalidDocument, "loading configuration document "+path)
	}
	return NewYAMLConfigurator(doc), nil
}

// NewYAMLConfiguratorFromString loads and wraps a document from an
// in-memory YAML string.
func NewYAMLConfiguratorFromString(s string) (*YAMLConfigurator, error) {
	doc, err := configdoc.LoadFromString(s)
	if err != nil {
		return nil, wrapError(err, ErrCodeInvalidDocument, "parsing configuration document")
	}
	return NewYAMLConfigurator(doc), nil
}

// Apply implements Configurator.
func (c *YAMLConfigurator) Apply(system *LoggingSystem) Result {
	d := &diagnostics{}

	for _, key := range c.doc.UnknownKeys {
		d.warnf("unknown configuration key %q", key)
	}

	sinks := make(map[string]Sink, len(c.doc.Sinks))
	var pendingMultisinks []configdoc.Sink

	for _, sd := range c.doc.Sinks {
		if sd.Name == "*" {
			d.errorf("sink name '*' is reserved")
			continue
		}
		if sd.Type == "multisink" {
			pendingMultisinks = append(pendingMultisinks, sd)
			continue
		}
		sink, err := buildSink(sd, d)
		if err != nil {
			d.errorf("sink %q: %v", sd.Name, err)
			continue
		}
		if sink == nil {
			continue // buildSink already recorded the diagnostic (unknown type)
		}
		sinks[sd.Name] = sink
		system.MakeSink(sink)
	}

	for _, sd := range pendingMultisinks {
		members := make([]Sink, 0, len(sd.Sinks))
		ok := true
		for _, memberName := range sd.Sinks {
			mem, found := sinks[memberName]
			if !found {
				mem, found = system.Sink(memberName)
			}
			if !found {
				d.errorf("multisink %q: undefined member sink %q", sd.Name, memberName)
				ok = false
				continue
			}
			if ContainsSinkNamed(mem, sd.Name) {
				d.errorf("multisink %q: member %q would create a cycle", sd.Name, memberName)
				ok = false
				continue
			}
			members = append(members, mem)
		}
		if !ok {
			continue
		}
		ms := NewMultisink(sd.Name, members...)
		sinks[sd.Name] = ms
		system.MakeSink(ms)
	}

	fallbackSeen := false
	for _, gd := range c.doc.Groups {
		if err := applyGroup(system, gd, nil, d, &fallbackSeen); err != nil {
			d.errorf("%v", err)
		}
	}

	// No group set is_fallback and no earlier configurator installed a
	// fallback: the document's first root group becomes the fallback.
	if !fallbackSeen && len(c.doc.Groups) > 0 {
		system.mu.Lock()
		hasFallback := system.fallbackGroup != nil
		system.mu.Unlock()
		if !hasFallback {
			system.SetFallbackGroup(c.doc.Groups[0].Name)
		}
	}

	if len(c.doc.Groups) == 0 && len(system.groupsSnapshot()) == 0 {
		d.errorf("document defines no groups")
	}

	return d.result()
}

// groupsSnapshot is a small accessor used only for the no-groups-defined
// check; it takes the registry lock like every other read here.
func (s *LoggingSystem) groupsSnapshot() map[string]*Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]*Group, len(s.groups))
	for k, v := range s.groups {
		cp[k] = v
	}
	return cp
}

// applyGroup installs or updates gd (recursively for children), wiring
// parent to the already-installed parent group, if any.
func applyGroup(system *LoggingSystem, gd configdoc.Group, parent *Group, d *diagnostics, fallbackSeen *bool) error {
	if gd.Name == "*" {
		return fmt.Errorf("group name '*' is reserved")
	}

	var sink Sink
	if gd.Sink != "" {
		var ok bool
		sink, ok = system.Sink(gd.Sink)
		if !ok {
			d.errorf("group %q: undefined sink %q", gd.Name, gd.Sink)
		}
	} else if parent != nil {
		sink = parent.Sink()
	} else {
		sink, _ = system.Sink(NullSinkName)
	}

	level := Info
	if gd.Level != "" {
		lvl, err := ParseLevel(gd.Level)
		if err != nil {
			d.warnf("group %q: %v", gd.Name, err)
		} else {
			level = lvl
		}
	} else if parent != nil {
		level = parent.Level()
	}

	existing, existed := system.Group(gd.Name)
	var g *Group
	if existed {
		g = existing
		if gd.Sink != "" {
			system.SetSinkOfGroup(gd.Name, sink)
		}
		if gd.Level != "" {
			system.SetLevelOfGroup(gd.Name, level)
		}
	} else {
		g = system.MakeGroup(gd.Name, sink, level)
		if gd.Sink != "" {
			system.SetSinkOfGroup(gd.Name, sink) // marks sinkOverridden, spec §3
		}
		if gd.Level != "" {
			system.SetLevelOfGroup(gd.Name, level) // marks levelOverridden
		}
	}

	if parent != nil {
		if ok, err := system.SetParentOfGroup(gd.Name, parent.Name()); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("group %q: failed to attach to parent %q", gd.Name, parent.Name())
		}
	}

	if gd.IsFallback {
		if *fallbackSeen {
			d.errorf("more than one group set is_fallback: true")
		} else {
			*fallbackSeen = true
			system.SetFallbackGroup(gd.Name)
		}
	}

	for _, child := range gd.Children {
		if err := applyGroup(system, child, g, d, fallbackSeen); err != nil {
			d.errorf("%v", err)
		}
	}
	return nil
}

func buildSink(sd configdoc.Sink, d *diagnostics) (Sink, error) {
	threadMode := ThreadInfoNone
	switch sd.Thread {
	case "", "none":
		threadMode = ThreadInfoNone
	case "id":
		threadMode = ThreadInfoID
	case "name":
		threadMode = ThreadInfoName
	default:
		d.warnf("sink %q: unknown thread mode %q, defaulting to none", sd.Name, sd.Thread)
	}

	latency := time.Duration(sd.Latency) * time.Millisecond

	switch sd.Type {
	case "console":
		stream := StreamStdout
		if sd.Stream == "stderr" {
			stream = StreamStderr
		}
		sink := NewConsoleSink(sd.Name, ConsoleOptions{
			Stream:        stream,
			Color:         sd.Color,
			ThreadMode:    threadMode,
			MaxMessageLen: DefaultMaxMessageLength,
			RingCapacity:  sd.Capacity,
			BufferSize:    sd.Buffer,
			Latency:       latency,
		})
		applySinkLevel(sink, sd, d)
		return sink, nil

	case "file":
		if sd.Path == "" {
			return nil, fmt.Errorf("file sink requires a path")
		}
		sink, err := NewFileSink(sd.Name, sd.Path, FileOptions{
			ThreadMode:    threadMode,
			MaxMessageLen: DefaultMaxMessageLength,
			RingCapacity:  sd.Capacity,
			BufferSize:    sd.Buffer,
			Latency:       latency,
		})
		if err != nil {
			return nil, err
		}
		applySinkLevel(sink, sd, d)
		return sink, nil

	case "syslog":
		sink, err := NewSyslogSink(sd.Name, SyslogOptions{
			Ident:         sd.Ident,
			ThreadMode:    threadMode,
			MaxMessageLen: DefaultMaxMessageLength,
			RingCapacity:  sd.Capacity,
		})
		if err != nil {
			return nil, err
		}
		applySinkLevel(sink, sd, d)
		return sink, nil

	default:
		d.errorf("sink %q: unknown type %q", sd.Name, sd.Type)
		return nil, nil
	}
}

func applySinkLevel(sink Sink, sd configdoc.Sink, d *diagnostics) {
	if sd.Level == "" {
		return
	}
	lvl, err := ParseLevel(sd.Level)
	if err != nil {
		d.warnf("sink %q: %v", sd.Name, err)
		return
	}
	sink.SetLevelFilter(lvl, true)
}
