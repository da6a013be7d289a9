// level.go: Severity levels for the dendron logging system
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Level represents the severity of a logged Event. Levels are ordered from
// least to most severe: Trace < Debug < Verbose < Info < Warning < Error <
// Critical < Off. Off is a sentinel used only as a threshold meaning
// "nothing is enabled", never as the level of an emitted Event.
type Level int32

// Severity levels, in increasing order of severity.
const (
	Trace Level = iota
	Debug
	Verbose
	Info
	Warning
	Error
	Critical
	Off
)

var levelNames = [...]string{
	Trace:    "Trace",
	Debug:    "Debug",
	Verbose:  "Verbose",
	Info:     "Info",
	Warning:  "Warning",
	Error:    "Error",
	Critical: "Critical",
	Off:      "Off",
}

// levelNamesMap provides reverse lookup from string to level, including the
// documented aliases ("warn" for Warning).
var levelNamesMap = map[string]Level{
	"off":      Off,
	"critical": Critical,
	"error":    Error,
	"warning":  Warning,
	"warn":     Warning,
	"info":     Info,
	"verbose":  Verbose,
	"debug":    Debug,
	"trace":    Trace,
}

// String returns the level's canonical name.
func (l Level) String() string {
	if l >= Trace && l <= Off {
		return levelNames[l]
	}
	return "Unknown"
}

// Enabled reports whether this level passes the given minimum threshold.
// This is the hot-path level gate applied before a message is formatted.
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// IsValid reports whether l is one of the eight defined levels.
func (l Level) IsValid() bool {
	return l >= Trace && l <= Off
}

// ParseLevel parses a level name, accepting the documented aliases and
// being case-insensitive. An empty string is rejected (unlike iris's
// empty-defaults-to-Info convention) because in dendron an absent level in
// a configuration document is a distinct "inherit" state, not a default.
func ParseLevel(s string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if lvl, ok := levelNamesMap[normalized]; ok {
		return lvl, nil
	}
	return Off, fmt.Errorf("dendron: unknown level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("dendron: cannot marshal invalid level %d", l)
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// AtomicLevel provides lock-free get/set access to a Level, used for the
// optional per-sink level filter (sinkBase, Multisink), which can change
// concurrently with Push calls on other goroutines.
type AtomicLevel struct {
	v int32
}

// NewAtomicLevel creates an AtomicLevel initialized to level.
func NewAtomicLevel(level Level) *AtomicLevel {
	a := &AtomicLevel{}
	a.Store(level)
	return a
}

// Load atomically reads the current level.
func (a *AtomicLevel) Load() Level { return Level(atomic.LoadInt32(&a.v)) }

// Store atomically sets the current level.
func (a *AtomicLevel) Store(level Level) { atomic.StoreInt32(&a.v, int32(level)) }

// Enabled reports whether level passes the current threshold.
func (a *AtomicLevel) Enabled(level Level) bool {
	return level >= Level(atomic.LoadInt32(&a.v))
}

// AllLevels returns every defined level in ascending severity order,
// excluding the Off sentinel.
func AllLevels() []Level {
	return []Level{Trace, Debug, Verbose, Info, Warning, Error, Critical}
}
