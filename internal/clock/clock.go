// clock.go: timestamp source for Events
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package clock

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// Now returns the current wall-clock time. It delegates to go-timecache's
// cached clock the same way agilira-iris's hot path does (iris.go's log()
// uses CachedTime() instead of time.Now() to avoid a syscall per Event),
// since the Ring producer path has the same near-wait-free requirement
// here (spec §1).
func Now() time.Time {
	return timecache.CachedTime()
}
