// event.go: the Event value type produced by loggers and consumed by sinks
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import "time"

// Size budgets for Event fields, carried over from the original soralog
// constants (original_source/include/soralog/common.hpp).
const (
	// MaxLoggerNameLen is the number of bytes a logger name is truncated to
	// inside an Event.
	MaxLoggerNameLen = 31

	// MaxThreadNameLen is the number of bytes a captured thread name is
	// truncated to.
	MaxThreadNameLen = 15

	// DefaultMessageCapacity is the largest message-buffer capacity an
	// Event keeps across reset; a larger backing array is dropped.
	DefaultMessageCapacity = 4096

	// DefaultMaxMessageLength is the default per-sink cap applied when
	// formatting a message into an Event (spec §3, Sink max-message-length).
	DefaultMaxMessageLength = 1024

	// DefaultConsoleRingCapacity is the default Ring capacity for console
	// sinks.
	DefaultConsoleRingCapacity = 64

	// DefaultFileRingCapacity is the default Ring capacity for file sinks.
	DefaultFileRingCapacity = 2048

	// DefaultConsoleBufferSize is the default layout buffer size for
	// console sinks.
	DefaultConsoleBufferSize = 128 * 1024

	// DefaultFileBufferSize is the default layout buffer size for file
	// sinks.
	DefaultFileBufferSize = 4 * 1024 * 1024
)

// ThreadInfoMode selects what, if anything, a sink records about the
// producing goroutine/thread in each Event.
type ThreadInfoMode int

const (
	// ThreadInfoNone records nothing about the producer.
	ThreadInfoNone ThreadInfoMode = iota
	// ThreadInfoID records a small monotonically increasing per-process
	// integer, assigned on first use by each producer.
	ThreadInfoID
	// ThreadInfoName records a short name for the producer (up to
	// MaxThreadNameLen bytes).
	ThreadInfoName
)

// Event is the value committed to a Ring slot by a producer and consumed
// exactly once by a sink's worker. Once committed it is treated as
// immutable; the consuming worker is the only writer after that point (it
// resets the slot's fields before the slot is reused by a future
// producer).
//
// Event intentionally carries only a preformatted message, not structured
// key/value fields: per spec §1, structured fields are out of scope.
type Event struct {
	Timestamp  time.Time
	Level      Level
	LoggerName string
	ThreadID   int64
	ThreadName string
	Message    []byte // formatted message bytes, length-bounded by the sink
}

// reset clears an Event's contents so the slot can be reused without
// retaining references to large backing arrays (the "zero the entry"
// discipline borrowed from agilira-iris's processLogEntry/zeroLogEntry).
func (e *Event) reset() {
	e.Timestamp = time.Time{}
	e.Level = Off
	e.LoggerName = ""
	e.ThreadID = 0
	e.ThreadName = ""
	if cap(e.Message) > DefaultMessageCapacity {
		e.Message = nil
	} else {
		e.Message = e.Message[:0]
	}
}

// truncate returns s clipped to at most n bytes, matching the spec's
// "truncated" contract for logger/thread names (no attempt at rune-safe
// truncation, matching the original's byte-oriented semantics).
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
