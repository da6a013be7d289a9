// sink_multisink.go: fan-out sink with no Ring of its own
//
// Grounded on original_source's multisink.hpp (push forwards to every
// delegate in registration order; flush/rotate broadcast) and on
// agilira-iris/writer.go's multiwriter.go idea of a WriteSyncer that
// wraps several others — generalized here to dendron's richer Sink
// interface instead of a plain io.Writer.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "sync/atomic"

// Multisink forwards every operation to an ordered list of member sinks.
// It owns no Ring and no worker: per spec §4.5, its Push forwards
// directly to each member's own Push on the caller's goroutine.
type Multisink struct {
	name    string
	members []Sink

	levelFilterEnabled int32
	levelFilter         AtomicLevel
}

// NewMultisink constructs a Multisink over members, in the given order.
// Callers are responsible for cycle-checking before construction (see
// ContainsSinkNamed); YAMLConfigurator.Apply does this at wiring time,
// while LoggingSystem.MakeSink does not check (spec §4.5).
func NewMultisink(name string, members ...Sink) *Multisink {
	cp := make([]Sink, len(members))
	copy(cp, members)
	return &Multisink{name: name, members: cp}
}

func (m *Multisink) Name() string { return m.name }

// Members returns the sink's delegate list, in registration order.
func (m *Multisink) Members() []Sink {
	cp := make([]Sink, len(m.members))
	copy(cp, m.members)
	return cp
}

func (m *Multisink) SetLevelFilter(level Level, enabled bool) {
	if enabled {
		m.levelFilter.Store(level)
		atomic.StoreInt32(&m.levelFilterEnabled, 1)
	} else {
		atomic.StoreInt32(&m.levelFilterEnabled, 0)
	}
}

func (m *Multisink) LevelFilter() (Level, bool) {
	if atomic.LoadInt32(&m.levelFilterEnabled) == 0 {
		return Off, false
	}
	return m.levelFilter.Load(), true
}

// Push forwards to every member's Push in registration order (spec
// §4.5), after checking the Multisink's own optional level filter. Each
// member applies its own optional level filter on this same call, not
// here — that's the deliberate behavior noted in spec §9.
func (m *Multisink) Push(loggerName string, level Level, format string, args ...any) {
	if lvl, ok := m.LevelFilter(); ok && level < lvl {
		return
	}
	for _, mem := range m.members {
		mem.Push(loggerName, level, format, args...)
	}
}

// Flush triggers a flush on every member (spec §4.5).
func (m *Multisink) Flush() {
	for _, mem := range m.members {
		mem.Flush()
	}
}

// Rotate forwards to every member (spec §4.5).
func (m *Multisink) Rotate() {
	for _, mem := range m.members {
		mem.Rotate()
	}
}

// Finalize forwards to every member.
func (m *Multisink) Finalize() {
	for _, mem := range m.members {
		mem.Finalize()
	}
}

// ContainsSinkNamed reports whether name appears anywhere in s's
// transitive membership (s itself included), used to reject a Multisink
// that would directly or transitively contain itself (spec §4.5,
// "cycle detection at wiring time; cycles yield a configuration error").
func ContainsSinkNamed(s Sink, name string) bool {
	if s.Name() == name {
		return true
	}
	if ms, ok := s.(*Multisink); ok {
		for _, mem := range ms.members {
			if ContainsSinkNamed(mem, name) {
				return true
			}
		}
	}
	return false
}
