// pool.go: reusable layout buffers for sink workers
//
// Adapted from agilira-iris/internal/bufferpool/pool.go: that package is a
// single global sync.Pool sized for one kind of buffer. dendron's sinks
// need two very differently sized layout buffers (a console sink's is
// 128 KiB by default, a file sink's 4 MiB), so this version turns the global into a Pool value each
// sink constructs with its own default/max capacity, instead of adding a
// second global pool.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package bufferpool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool is a sync.Pool of *bytes.Buffer tuned for one buffer size class.
type Pool struct {
	pool       sync.Pool
	defaultCap int
	maxCap     int

	gets   int64
	puts   int64
	allocs int64
	drops  int64
}

// New creates a Pool. New buffers start at defaultCap; a buffer that has
// grown past maxCap is discarded on Put rather than returned to the pool,
// so one outsized message can't permanently bloat the pool's footprint.
func New(defaultCap, maxCap int) *Pool {
	p := &Pool{defaultCap: defaultCap, maxCap: maxCap}
	p.pool.New = func() any {
		atomic.AddInt64(&p.allocs, 1)
		return bytes.NewBuffer(make([]byte, 0, p.defaultCap))
	}
	return p
}

// Get returns a clean, ready-to-use buffer.
func (p *Pool) Get() *bytes.Buffer {
	atomic.AddInt64(&p.gets, 1)
	b := p.pool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// Put returns b to the pool, or drops it if it has grown past maxCap.
func (p *Pool) Put(b *bytes.Buffer) {
	if b == nil {
		return
	}
	atomic.AddInt64(&p.puts, 1)
	if b.Cap() > p.maxCap {
		atomic.AddInt64(&p.drops, 1)
		*b = *bytes.NewBuffer(make([]byte, 0, p.defaultCap))
	}
	b.Reset()
	p.pool.Put(b)
}

// Stats is a snapshot of pool activity, useful in tests and diagnostics.
type Stats struct {
	Gets        int64
	Puts        int64
	Allocations int64
	Drops       int64
}

// Stats returns a snapshot of this pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Gets:        atomic.LoadInt64(&p.gets),
		Puts:        atomic.LoadInt64(&p.puts),
		Allocations: atomic.LoadInt64(&p.allocs),
		Drops:       atomic.LoadInt64(&p.drops),
	}
}
