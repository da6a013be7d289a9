// logger.go: the producer-facing leaf bound to exactly one group
//
// Grounded on agilira-iris's per-level emitter shape (iris.go's
// Trace/Debug/Info/... methods each gating on the configured level
// before doing any work) and on its lazy-argument-evaluation contract
// from methods.go; generalized to dendron's group-inherited effective
// sink/level instead of iris's single flat per-Logger config (spec §3,
// §4.6's Design Notes on lazy evaluation).
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "sync"

// Logger is the handle application code calls to emit events. It is
// bound to exactly one Group and may locally override that group's sink
// and/or level (spec §3).
type Logger struct {
	mu sync.RWMutex

	name  string
	group *Group

	sink  Sink
	level Level

	sinkOverridden  bool
	levelOverridden bool
}

// newLogger constructs a Logger bound to group, inheriting its current
// effective sink/level (spec §4.7's getLogger).
func newLogger(name string, group *Group) *Logger {
	return &Logger{
		name:  name,
		group: group,
		sink:  group.Sink(),
		level: group.Level(),
	}
}

func (l *Logger) Name() string { return l.name }

// Group returns the group this logger is currently bound to.
func (l *Logger) Group() *Group {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.group
}

// Sink returns the logger's current effective sink.
func (l *Logger) Sink() Sink {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sink
}

// Level returns the logger's current effective level.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) SinkOverridden() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sinkOverridden
}

func (l *Logger) LevelOverridden() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.levelOverridden
}

// Enabled reports whether level passes this logger's current threshold.
// Application code can call this directly to skip building expensive
// arguments when a level is gated out, the accepted Go equivalent of the
// lazy-thunk argument evaluation spec §9's Design Notes describe.
func (l *Logger) Enabled(level Level) bool {
	return level.Enabled(l.Level())
}

// SetSink overrides this logger's sink, independent of its group.
func (l *Logger) SetSink(sink Sink) {
	l.mu.Lock()
	l.sink = sink
	l.sinkOverridden = true
	l.mu.Unlock()
}

// ResetSink clears the override, reverting to the bound group's current
// effective sink.
func (l *Logger) ResetSink() {
	l.mu.Lock()
	l.sink = l.group.Sink()
	l.sinkOverridden = false
	l.mu.Unlock()
}

// SetLevel overrides this logger's level, independent of its group.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.levelOverridden = true
	l.mu.Unlock()
}

// ResetLevel clears the override, reverting to the bound group's current
// effective level.
func (l *Logger) ResetLevel() {
	l.mu.Lock()
	l.level = l.group.Level()
	l.levelOverridden = false
	l.mu.Unlock()
}

// rebind switches the logger's group, adopting the new group's effective
// sink/level for any property this logger does not itself override
// (spec §4.7's logger group setter).
func (l *Logger) rebind(group *Group) {
	l.mu.Lock()
	l.group = group
	if !l.sinkOverridden {
		l.sink = group.Sink()
	}
	if !l.levelOverridden {
		l.level = group.Level()
	}
	l.mu.Unlock()
}

// refreshFromGroup re-reads sink/level from the logger's current group
// for any non-overridden property, used by Group propagation to update
// live loggers attached to a refreshed group (spec §4.6 step 4).
func (l *Logger) refreshFromGroup() {
	l.mu.Lock()
	g := l.group
	if !l.sinkOverridden {
		l.sink = g.Sink()
	}
	if !l.levelOverridden {
		l.level = g.Level()
	}
	l.mu.Unlock()
}

// Flush forces the logger's current effective sink to drain and write
// whatever is buffered.
func (l *Logger) Flush() {
	l.Sink().Flush()
}

func (l *Logger) emit(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.Sink().Push(l.name, level, format, args...)
}

// Lazy emits at level using build only if the level is actually enabled,
// for callers whose arguments are expensive to construct (spec §9's
// Design Notes: "if the level gate rejects the event, no argument
// computation is observable").
func (l *Logger) Lazy(level Level, build func() (format string, args []any)) {
	if !l.Enabled(level) {
		return
	}
	format, args := build()
	l.Sink().Push(l.name, level, format, args...)
}

func (l *Logger) Trace(format string, args ...any)    { l.emit(Trace, format, args...) }
func (l *Logger) Debug(format string, args ...any)    { l.emit(Debug, format, args...) }
func (l *Logger) Verbose(format string, args ...any)  { l.emit(Verbose, format, args...) }
func (l *Logger) Info(format string, args ...any)     { l.emit(Info, format, args...) }
func (l *Logger) Warn(format string, args ...any)     { l.emit(Warning, format, args...) }
func (l *Logger) Error(format string, args ...any)    { l.emit(Error, format, args...) }
func (l *Logger) Critical(format string, args ...any) { l.emit(Critical, format, args...) }
