// atomic.go: cache-line padded atomic counters for the ring
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import "sync/atomic"

// paddedInt64 is a cache-line padded atomic int64, grounded directly on
// agilira-iris/internal/zephyroslite/atomic.go's AtomicPaddedInt64: the
// pre/post padding keeps the head/tail cursors (and each slot's own state
// word) from sharing a cache line with its neighbors, which matters a lot
// for a structure producers and a consumer hit concurrently.
type paddedInt64 struct {
	_   [64]byte
	val int64
	_   [64]byte
}

func (p *paddedInt64) Load() int64 { return atomic.LoadInt64(&p.val) }

func (p *paddedInt64) Store(v int64) { atomic.StoreInt64(&p.val, v) }

func (p *paddedInt64) Add(delta int64) int64 { return atomic.AddInt64(&p.val, delta) }

func (p *paddedInt64) CompareAndSwap(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&p.val, old, new)
}
