// sink.go: the Sink contract and the shared base every concrete,
// Ring-owning sink (Console, File, Syslog) builds on
//
// Grounded on agilira-iris's Logger/writer split (iris.go's log() hot
// path plus writer.go's WriteSyncer contract) and on
// internal/zephyroslite for the Ring itself, but restructured around the
// producer/worker split described explicitly in spec §4.3-§4.4: a Sink
// owns its Ring, its layout buffer, and (when latency > 0) exactly one
// background worker draining it.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/agilira/dendron/internal/bufferpool"
	"github.com/agilira/dendron/internal/clock"
	"github.com/agilira/dendron/internal/ring"
)

// Sink is the producer-facing and control-plane contract every concrete
// sink implements (spec §3, §4.3-§4.5).
type Sink interface {
	// Name returns the sink's stable, process-unique name.
	Name() string

	// Push formats an Event from format/args and commits it for delivery.
	// Thread-info capture follows this sink's own configured mode (spec
	// §3: thread-info mode is a Sink property, not a per-call one). It
	// blocks on I/O only when it flushes synchronously: on every Push to
	// a sink with zero latency (and on its flush-and-retry when the Ring
	// is full), and on a sink with a worker when the bytes pushed since
	// the last flush exceed its layout buffer budget. A sink with a
	// worker whose Ring is full signals the worker and retries the Put
	// (spec §4.3).
	Push(loggerName string, level Level, format string, args ...any)

	// Flush drains and writes out whatever is currently buffered. Safe to
	// call concurrently; a second concurrent call returns immediately
	// (spec §4.4's re-entrant-safe spinflag).
	Flush()

	// Rotate closes and reopens the sink's destination, if it has one
	// that supports rotation. A no-op for sinks without a rotatable
	// destination (spec §4.4).
	Rotate()

	// Finalize stops the sink's worker (if any) after a last synchronous
	// drain, or performs that drain directly if there is no worker
	// (spec §4.4).
	Finalize()

	// SetLevelFilter installs (or, with enabled=false, clears) an optional
	// level filter applied on this sink's own producer path — relevant
	// mainly to Multisink members, whose level gate is applied at the
	// member's own Push, not the Multisink's (spec §4.5, §9).
	SetLevelFilter(level Level, enabled bool)

	// LevelFilter reports the currently installed filter, if any.
	LevelFilter() (level Level, enabled bool)
}

// internalLoggerName is used for events synthesized by the library
// itself (format errors, fallback-group warnings) rather than by an
// application logger.
const internalLoggerName = "Dendron"

// destination is what a sinkBase writes its laid-out bytes to. Concrete
// sinks supply one (Null and Syslog supply noopDestination); Multisink
// doesn't use sinkBase at all.
type destination interface {
	io.Writer
}

// minFreeSpace is the free-buffer-space threshold used in place of the
// literal "sizeof(Event)" the spec names (Go Events aren't a fixed byte
// size); it approximates one worst-case formatted line.
const minFreeSpace = 2048

// sinkBase implements the Ring-owning, worker-driven machinery shared by
// Console, File, and Syslog sinks. It is embedded, not used standalone.
type sinkBase struct {
	name string

	ring       *ring.Ring[Event]
	pool       *bufferpool.Pool
	buf        *bytes.Buffer
	bufferSize int

	maxMessageLen int
	threadMode    ThreadInfoMode
	color         bool

	levelFilterEnabled int32
	levelFilter        AtomicLevel

	latency time.Duration
	dest    destination

	// rotate reopens dest in place, returning the new destination. nil
	// for sinks whose destination doesn't support rotation (console,
	// syslog).
	rotateFn func(old destination) (destination, error)

	// consume disposes of one drained Event. The default appends a
	// rendered line to buf; Syslog overrides this to write directly via
	// its own per-severity API instead of accumulating into buf (see
	// sink_syslog.go).
	consume func(e *Event)

	flushing int32 // test-and-set spinflag (spec §4.4)
	rotate   int32
	finalize int32

	bytesSinceFlush int64

	signal chan struct{}
	done   chan struct{}
}

// sinkBaseOptions configures newSinkBase.
type sinkBaseOptions struct {
	name          string
	ringCapacity  int64
	bufferSize    int
	maxMessageLen int
	threadMode    ThreadInfoMode
	color         bool
	latency       time.Duration
	dest          destination
	rotateFn      func(old destination) (destination, error)
	consume       func(s *sinkBase, e *Event)
}

// newSinkBase constructs the shared machinery and starts the worker if
// opts.latency > 0.
func newSinkBase(opts sinkBaseOptions) *sinkBase {
	maxMsg := opts.maxMessageLen
	if maxMsg <= 0 {
		maxMsg = DefaultMaxMessageLength
	}
	bufSize := opts.bufferSize
	if bufSize <= 0 {
		bufSize = DefaultConsoleBufferSize
	}
	ringCap := opts.ringCapacity
	if ringCap <= 0 {
		ringCap = DefaultConsoleRingCapacity
	}

	pool := bufferpool.New(bufSize, bufSize*4)
	sb := &sinkBase{
		name:          opts.name,
		ring:          ring.New[Event](ringCap),
		pool:          pool,
		buf:           pool.Get(),
		bufferSize:    bufSize,
		maxMessageLen: maxMsg,
		threadMode:    opts.threadMode,
		color:         opts.color,
		latency:       opts.latency,
		dest:          opts.dest,
		rotateFn:      opts.rotateFn,
		signal:        make(chan struct{}, 1),
		done:          make(chan struct{}),
	}

	if opts.consume != nil {
		hook := opts.consume
		sb.consume = func(e *Event) { hook(sb, e) }
	} else {
		sb.consume = func(e *Event) {
			renderLine(sb.buf, e, layoutOptions{threadMode: sb.threadMode, color: sb.color})
		}
	}

	if sb.latency > 0 {
		go sb.runWorker()
	} else {
		close(sb.done) // no worker to join on Finalize
	}
	return sb
}

func (s *sinkBase) Name() string { return s.name }

func (s *sinkBase) SetLevelFilter(level Level, enabled bool) {
	if enabled {
		s.levelFilter.Store(level)
		atomic.StoreInt32(&s.levelFilterEnabled, 1)
	} else {
		atomic.StoreInt32(&s.levelFilterEnabled, 0)
	}
}

func (s *sinkBase) LevelFilter() (Level, bool) {
	if atomic.LoadInt32(&s.levelFilterEnabled) == 0 {
		return Off, false
	}
	return s.levelFilter.Load(), true
}

// Push implements Sink.Push (spec §4.2, §4.3).
func (s *sinkBase) Push(loggerName string, level Level, format string, args ...any) {
	if lvl, enabled := s.LevelFilter(); enabled && level < lvl {
		return
	}

	for {
		h, ok := s.ring.Put()
		if ok {
			e := h.Value()
			e.Timestamp = clock.Now()
			e.Level = level
			e.LoggerName = truncate(loggerName, MaxLoggerNameLen)
			captureThreadInfo(e, s.threadMode)
			formatMessage(e, s.maxMessageLen, format, args...)
			h.Commit()

			n := atomic.AddInt64(&s.bytesSinceFlush, int64(len(e.Message))+64)

			if s.latency <= 0 {
				s.Flush()
			} else {
				select {
				case s.signal <- struct{}{}:
				default:
				}
				if n > int64(s.bufferSize-minFreeSpace) {
					s.Flush()
				}
			}
			return
		}

		// Ring full: synchronous sinks must drain themselves; async
		// sinks just nudge the worker and spin the retry (spec §4.3).
		if s.latency <= 0 {
			s.Flush()
		} else {
			select {
			case s.signal <- struct{}{}:
			default:
			}
		}
	}
}

// Flush implements Sink.Flush (spec §4.4).
func (s *sinkBase) Flush() {
	if !atomic.CompareAndSwapInt32(&s.flushing, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&s.flushing, 0)

	deadline := clock.Now().Add(s.latency)

	for {
		if s.latency > 0 && clock.Now().After(deadline) {
			break
		}
		if s.buf.Len() > 0 && s.buf.Cap()-s.buf.Len() < minFreeSpace {
			break
		}

		h, ok := s.ring.Get()
		if !ok {
			break
		}
		e := h.Value()
		s.consume(e)
		e.reset()
		h.Release()
	}

	if s.buf.Len() > 0 {
		s.writeOut()
	}

	if s.tryHandleRotate() {
		// rotate swap happened; nothing further to do this pass
	}

	atomic.StoreInt64(&s.bytesSinceFlush, 0)
}

func (s *sinkBase) writeOut() {
	_, err := s.dest.Write(s.buf.Bytes())
	if err != nil {
		reportError(wrapError(err, ErrCodeWriteFailed, fmt.Sprintf("sink %q: write failed", s.name)))
	}
	s.buf.Reset()
}

// tryHandleRotate performs the pending rotation, if any, at the end of a
// drain (spec §4.4: "causes the worker, at the end of the current drain,
// to reopen the configured path").
func (s *sinkBase) tryHandleRotate() bool {
	if !atomic.CompareAndSwapInt32(&s.rotate, 1, 0) {
		return false
	}
	if s.rotateFn == nil {
		return false
	}
	newDest, err := s.rotateFn(s.dest)
	if err != nil {
		reportError(wrapError(err, ErrCodeFileRotation, fmt.Sprintf("sink %q: rotate failed", s.name)))
		return false
	}
	s.dest = newDest
	return true
}

// Rotate implements Sink.Rotate.
func (s *sinkBase) Rotate() {
	if s.rotateFn == nil {
		return // no-op for non-rotatable destinations (spec §4.4)
	}
	atomic.StoreInt32(&s.rotate, 1)
	if s.latency <= 0 {
		s.Flush()
	} else {
		select {
		case s.signal <- struct{}{}:
		default:
		}
	}
}

// Finalize implements Sink.Finalize.
func (s *sinkBase) Finalize() {
	atomic.StoreInt32(&s.finalize, 1)
	if s.latency <= 0 {
		s.Flush()
		return
	}
	select {
	case s.signal <- struct{}{}:
	default:
	}
	<-s.done
}

func (s *sinkBase) runWorker() {
	strategy := ring.NewChannelStrategy(s.signal, s.latency)
	defer close(s.done)
	for {
		strategy.Idle()
		s.Flush()
		if atomic.LoadInt32(&s.finalize) == 1 && s.ring.Len() == 0 {
			return
		}
	}
}

// formatMessage renders format/args into e.Message, truncating to
// maxLen and, on a formatting failure, rewriting the Event into the
// synthetic diagnostic the spec requires (§4.2) rather than ever
// returning an error to the caller — emission always succeeds.
func formatMessage(e *Event, maxLen int, format string, args ...any) {
	scratch := e.Message[:0]
	buf := bytes.NewBuffer(scratch)
	fmt.Fprintf(buf, format, args...)
	out := buf.Bytes()

	if bytes.Contains(out, []byte("%!")) {
		reason := string(out)
		buf.Reset()
		fmt.Fprintf(buf, "Format error: %s; Format: %s", reason, format)
		out = buf.Bytes()
		e.LoggerName = internalLoggerName
		e.Level = Error
	}

	if len(out) > maxLen {
		out = out[:maxLen]
	}
	e.Message = out
}
