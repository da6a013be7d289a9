// threadid.go: per-goroutine identity for Event thread-info capture
//
// Go exposes no official goroutine ID. Grounded on
// willibrandon-mtlog/enrichers/thread.go's technique of parsing the
// "goroutine <id> [" header out of a runtime.Stack dump; this package
// adds the first-use sequential assignment spec §4.2 requires ("a small
// monotonically increasing integer assigned on first use per thread"),
// caching the mapping in a sync.Map the same way agilira-iris's
// funcNameCache caches runtime.FuncForPC lookups.
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package threadid

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

var (
	assigned  sync.Map // raw goroutine id (int64) -> assigned sequential id (int64)
	names     sync.Map // raw goroutine id (int64) -> name (string)
	nextID    int64
)

// raw parses the calling goroutine's runtime-internal id out of a stack
// trace header ("goroutine 37 [running]:"). It is not a stable or
// documented API, only a best-effort extraction as mtlog's enricher does;
// if parsing fails for any reason raw returns 0, which still works fine
// as a sync.Map key (it would just mean every failed-parse caller shares
// one assigned id).
func raw() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := string(buf[:n])
	if len(s) < 10 || s[:9] != "goroutine" {
		return 0
	}
	i := 10
	for i < len(s) && s[i] != ' ' {
		i++
	}
	id, err := strconv.ParseInt(s[10:i], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Current returns the small per-process sequential id assigned to the
// calling goroutine, assigning a fresh one on first use.
func Current() int64 {
	key := raw()
	if v, ok := assigned.Load(key); ok {
		return v.(int64)
	}
	id := atomic.AddInt64(&nextID, 1)
	actual, _ := assigned.LoadOrStore(key, id)
	return actual.(int64)
}

// SetName records a short name for the calling goroutine, to be reported
// instead of a numeric id when a sink's thread-info mode is
// ThreadInfoName. Applications call this once per goroutine (e.g. at the
// top of a worker's run loop); goroutines that never call it report an
// empty name.
func SetName(name string) {
	names.Store(raw(), name)
}

// Name returns the name previously recorded for the calling goroutine via
// SetName, or "" if none was set.
func Name() string {
	if v, ok := names.Load(raw()); ok {
		return v.(string)
	}
	return ""
}
