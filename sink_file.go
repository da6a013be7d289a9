// sink_file.go: append-mode file sink with rotate-on-signal
//
// Grounded on agilira-iris/writer.go's FileWriter (open in append mode,
// swap the handle on rotate) generalized to the spec's explicit
// rotate-at-end-of-drain contract (§4.4: "setting the rotate flag
// causes the worker, at the end of the current drain, to reopen the
// configured path"). If the current destination implements
// internal/dendronlethe's LetheWriter (see that package's doc comment
// for why dendron only duck-types it instead of importing lethe
// directly) and its SupportsHotReload() reports true, reopen keeps it
// instead of closing and reopening the path. NewFileSink always opens an
// *os.File, which does not implement LetheWriter.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendron

import (
	"os"
	"time"

	"github.com/agilira/dendron/internal/dendronlethe"
)

// FileOptions configures NewFileSink.
type FileOptions struct {
	Path          string
	ThreadMode    ThreadInfoMode
	MaxMessageLen int
	RingCapacity  int64
	BufferSize    int
	Latency       time.Duration
}

// FileSink appends formatted lines to a path, supporting external-signal
// rotation (spec §2 C4, §4.4).
type FileSink struct {
	*sinkBase
	path string
}

// NewFileSink opens path in append mode and constructs a File sink.
// Defaults match spec §3: ring capacity 2048, buffer 4 MiB.
func NewFileSink(name, path string, opts FileOptions) (*FileSink, error) {
	f, err := openAppend(path)
	if err != nil {
		return nil, wrapError(err, ErrCodeFileOpen, "opening file sink destination "+path)
	}

	fs := &FileSink{path: path}
	base := newSinkBase(sinkBaseOptions{
		name:          name,
		ringCapacity:  firstPositive(opts.RingCapacity, DefaultFileRingCapacity),
		bufferSize:    firstPositiveInt(opts.BufferSize, DefaultFileBufferSize),
		maxMessageLen: firstPositiveInt(opts.MaxMessageLen, DefaultMaxMessageLength),
		threadMode:    opts.ThreadMode,
		color:         false, // ANSI color is console-only (spec §4.4)
		latency:       opts.Latency,
		dest:          f,
		rotateFn:      fs.reopen,
	})
	fs.sinkBase = base
	return fs, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// reopen implements the sinkBase rotateFn contract: close the old
// destination and reopen the same path in append mode, unless the old
// destination is a lethe-capable writer that already handles rotation
// internally.
func (fs *FileSink) reopen(old destination) (destination, error) {
	if lw := dendronlethe.Detect(old); lw != nil && lw.SupportsHotReload() {
		return old, nil
	}

	if closer, ok := old.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	f, err := openAppend(fs.path)
	if err != nil {
		return old, err
	}
	return f, nil
}
