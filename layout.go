// layout.go: the stable line format every sink reproduces byte-for-byte
//
// Format (spec §4.4, verified against the S1 end-to-end scenario's
// regex): "YY.MM.DD HH:MM:SS.uuuuuu  [thread  ]LEVEL NAME  MESSAGE\n"
// where LEVEL is left-justified to 8 columns and the thread bracket is
// entirely omitted when thread-info mode is none.
//
// ANSI color table grounded on agilira-iris/encoder-cnsl.go's
// colorizeLevel: same escape codes, extended from iris's six levels to
// dendron's eight and applied per spec §4.4 (level token gets the
// per-level foreground color, the logger name is bolded, and the
// message is bolded for Error and Critical (level >= Error in dendron's
// ordering) or italicized for Debug and Trace (level <= Debug)), every
// styled run closed with the plain reset code.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"bytes"
	"strconv"

	"github.com/agilira/dendron/internal/threadid"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiItalic = "\x1b[3m"

	ansiGray      = "\x1b[90m"
	ansiCyan      = "\x1b[36m"
	ansiBlue      = "\x1b[34m"
	ansiYellow    = "\x1b[33m"
	ansiRed       = "\x1b[31m"
	ansiBrightRed = "\x1b[91m"
)

// levelColor returns the ANSI foreground escape for level, or "" for Off
// (which is never actually emitted as an Event's own level).
func levelColor(l Level) string {
	switch l {
	case Trace, Debug:
		return ansiGray
	case Verbose:
		return ansiCyan
	case Info:
		return ansiBlue
	case Warning:
		return ansiYellow
	case Error:
		return ansiRed
	case Critical:
		return ansiBrightRed
	default:
		return ""
	}
}

// writeTimestamp writes "YY.MM.DD HH:MM:SS.uuuuuu" in local time.
func writeTimestamp(buf *bytes.Buffer, e *Event) {
	t := e.Timestamp.Local()
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	us := t.Nanosecond() / 1000

	writeZeroPadded(buf, y%100, 2)
	buf.WriteByte('.')
	writeZeroPadded(buf, int(mo), 2)
	buf.WriteByte('.')
	writeZeroPadded(buf, d, 2)
	buf.WriteByte(' ')
	writeZeroPadded(buf, h, 2)
	buf.WriteByte(':')
	writeZeroPadded(buf, mi, 2)
	buf.WriteByte(':')
	writeZeroPadded(buf, s, 2)
	buf.WriteByte('.')
	writeZeroPadded(buf, us, 6)
}

func writeZeroPadded(buf *bytes.Buffer, v, width int) {
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		buf.WriteByte('0')
	}
	buf.WriteString(s)
}

// writeThreadField writes the bracketed thread column, or nothing when
// mode is ThreadInfoNone.
func writeThreadField(buf *bytes.Buffer, e *Event, mode ThreadInfoMode) {
	switch mode {
	case ThreadInfoName:
		buf.WriteByte('[')
		padLeft(buf, e.ThreadName, MaxThreadNameLen)
		buf.WriteByte(']')
	case ThreadInfoID:
		buf.WriteByte('[')
		tag := "T:" + strconv.FormatInt(e.ThreadID, 10)
		padLeft(buf, tag, 6+2) // "T:" + 6-digit id
		buf.WriteByte(']')
	}
}

// padLeft writes s right-justified (left-padded with spaces) to width w,
// or unmodified if s is already at least that long.
func padLeft(buf *bytes.Buffer, s string, w int) {
	for i := len(s); i < w; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString(s)
}

// padRight writes s left-justified (right-padded with spaces) to width w.
func padRight(buf *bytes.Buffer, s string, w int) {
	buf.WriteString(s)
	for i := len(s); i < w; i++ {
		buf.WriteByte(' ')
	}
}

// layoutOptions controls how renderLine formats a single Event.
type layoutOptions struct {
	threadMode ThreadInfoMode
	color      bool
}

// renderLine appends e's rendering to buf, following the layout exactly
// as specified (spec §4.4); byte-for-byte stable when opts.color is false
// and opts.threadMode is ThreadInfoNone.
func renderLine(buf *bytes.Buffer, e *Event, opts layoutOptions) {
	writeTimestamp(buf, e)
	buf.WriteString("  ")
	writeThreadField(buf, e, opts.threadMode)

	levelStr := e.Level.String()
	if opts.color {
		if c := levelColor(e.Level); c != "" {
			buf.WriteString(c)
			padRight(buf, levelStr, 8)
			buf.WriteString(ansiReset)
		} else {
			padRight(buf, levelStr, 8)
		}
	} else {
		padRight(buf, levelStr, 8)
	}

	buf.WriteByte(' ')

	name := e.LoggerName
	if opts.color {
		buf.WriteString(ansiBold)
		buf.WriteString(name)
		buf.WriteString(ansiReset)
	} else {
		buf.WriteString(name)
	}

	buf.WriteString("  ")

	if opts.color {
		if e.Level >= Error {
			buf.WriteString(ansiBold)
		} else if e.Level <= Debug {
			buf.WriteString(ansiItalic)
		}
		buf.Write(e.Message)
		if e.Level >= Error || e.Level <= Debug {
			buf.WriteString(ansiReset)
		}
	} else {
		buf.Write(e.Message)
	}

	buf.WriteByte('\n')
}

// captureThreadInfo fills ThreadID/ThreadName on e according to mode,
// using internal/threadid's goroutine-identity tracking.
func captureThreadInfo(e *Event, mode ThreadInfoMode) {
	switch mode {
	case ThreadInfoID:
		e.ThreadID = threadid.Current()
	case ThreadInfoName:
		e.ThreadName = truncate(threadid.Name(), MaxThreadNameLen)
	}
}
