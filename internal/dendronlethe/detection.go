// detection.go: optional lethe integration for the File sink
//
// Ported from agilira-iris/internal/lethe/detection.go. Like the
// original, this package duck-types an interface rather than importing
// the real github.com/agilira/lethe module: lethe's public writer
// constructor isn't something dendron has grounding for (see DESIGN.md).
// The File sink calls Detect only when rotating: if its current
// destination implements LetheWriter and reports SupportsHotReload, the
// sink keeps it instead of closing and reopening the path. NewFileSink
// always opens an *os.File itself, which does not implement LetheWriter,
// and the sink never calls WriteOwned or GetOptimalBufferSize.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package dendronlethe

// LetheWriter is the optimization surface a rotation-aware writer may
// offer. A plain *os.File does not implement it (it has no WriteOwned,
// GetOptimalBufferSize or SupportsHotReload); the File sink always
// writes with plain Write.
type LetheWriter interface {
	Write([]byte) (int, error)
	Sync() error
	Close() error

	WriteOwned([]byte) (int, error) // zero-copy write for buffers the sink owns outright
	GetOptimalBufferSize() int      // hint for sizing the sink's layout buffer
	SupportsHotReload() bool        // whether external rotation signals are handled internally
}

// Detect returns writer's LetheWriter capabilities, or nil if it doesn't
// implement them.
func Detect(writer any) LetheWriter {
	if lw, ok := writer.(LetheWriter); ok {
		return lw
	}
	return nil
}

// Supports reports whether writer implements LetheWriter at all.
func Supports(writer any) bool {
	_, ok := writer.(LetheWriter)
	return ok
}
