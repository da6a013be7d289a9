// sink_console.go: stdout/stderr sink with optional ANSI color
//
// Grounded on agilira-iris/writer.go's ConsoleWriter, which wraps
// go-colorable around the chosen stream and gates color on go-isatty;
// dendron keeps that combination (mattn/go-isatty + mattn/go-colorable)
// so that a configured color=true is automatically downgraded to plain
// text when the stream isn't actually a terminal (piped to a file, CI
// log capture), the same degrade-gracefully behavior iris's writer
// provides.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ConsoleStream selects which standard stream a Console sink writes to.
type ConsoleStream int

const (
	StreamStdout ConsoleStream = iota
	StreamStderr
)

// ConsoleOptions configures NewConsoleSink.
type ConsoleOptions struct {
	Stream        ConsoleStream
	Color         bool
	Level         Level // not read by NewConsoleSink; a per-sink filter is installed with SetLevelFilter
	ThreadMode    ThreadInfoMode
	MaxMessageLen int
	RingCapacity  int64
	BufferSize    int
	Latency       time.Duration
}

// ConsoleSink writes laid-out lines to stdout or stderr.
type ConsoleSink struct {
	*sinkBase
}

// NewConsoleSink constructs a Console sink (spec §2 C4, §4.4). Defaults
// match spec §3: ring capacity 64, buffer 128 KiB, latency 0 (synchronous).
func NewConsoleSink(name string, opts ConsoleOptions) *ConsoleSink {
	var file *os.File
	if opts.Stream == StreamStderr {
		file = os.Stderr
	} else {
		file = os.Stdout
	}

	color := opts.Color && isatty.IsTerminal(file.Fd())
	out := colorable.NewColorable(file)

	base := newSinkBase(sinkBaseOptions{
		name:          name,
		ringCapacity:  firstPositive(opts.RingCapacity, DefaultConsoleRingCapacity),
		bufferSize:    firstPositiveInt(opts.BufferSize, DefaultConsoleBufferSize),
		maxMessageLen: firstPositiveInt(opts.MaxMessageLen, DefaultMaxMessageLength),
		threadMode:    opts.ThreadMode,
		color:         color,
		latency:       opts.Latency,
		dest:          out,
		rotateFn:      nil, // rotate is a no-op for console destinations
	})
	return &ConsoleSink{sinkBase: base}
}

func firstPositive(v, def int64) int64 {
	if v > 0 {
		return v
	}
	return def
}

func firstPositiveInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
