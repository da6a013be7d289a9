// idle.go: wait strategies used by a sink's worker while its Ring is empty
//
// Grounded on agilira-iris/internal/zephyroslite/idle_strategy.go: the
// Strategy interface and the Spinning/Sleeping/Yielding/Channel
// implementations are kept almost verbatim (same names, same shape),
// adapted for dendron's worker loop which also has a latency deadline to
// respect (spec §4.4, "wakes on the earlier of: new event or latency
// deadline").
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"runtime"
	"time"
)

// Strategy decides how a worker goroutine waits between unsuccessful
// Drain attempts on an empty Ring.
type Strategy interface {
	// Idle is called once per empty poll. It returns true once it has
	// performed its wait (including a wait cut short by a signal) and the
	// caller may poll again; every strategy in this package returns true.
	Idle() bool
	// Reset clears any accumulated backoff state; a caller may invoke it
	// after a Drain call that processed something. The strategies in this
	// package keep no such state, so their Reset does nothing.
	Reset()
	String() string
}

// SpinningStrategy never sleeps; it is appropriate only for sinks with a
// dedicated core, and is mainly useful in tests and benchmarks.
type SpinningStrategy struct{}

func NewSpinningStrategy() *SpinningStrategy { return &SpinningStrategy{} }

func (s *SpinningStrategy) Idle() bool { return true }
func (s *SpinningStrategy) Reset()     {}
func (s *SpinningStrategy) String() string { return "spinning" }

// YieldingStrategy calls runtime.Gosched between polls, trading some
// latency for much lower CPU usage than spinning.
type YieldingStrategy struct{}

func NewYieldingStrategy() *YieldingStrategy { return &YieldingStrategy{} }

func (s *YieldingStrategy) Idle() bool {
	runtime.Gosched()
	return true
}
func (s *YieldingStrategy) Reset() {}
func (s *YieldingStrategy) String() string { return "yielding" }

// SleepingStrategy sleeps a fixed duration between polls. Sink workers
// do not use it; they wait with ChannelStrategy.
type SleepingStrategy struct {
	d time.Duration
}

// NewSleepingStrategy creates a strategy sleeping d between idle polls.
func NewSleepingStrategy(d time.Duration) *SleepingStrategy {
	if d <= 0 {
		d = time.Millisecond
	}
	return &SleepingStrategy{d: d}
}

func (s *SleepingStrategy) Idle() bool {
	time.Sleep(s.d)
	return true
}
func (s *SleepingStrategy) Reset() {}
func (s *SleepingStrategy) String() string { return "sleeping" }

// ChannelStrategy waits on a signal channel instead of polling, used by
// sink workers, which the sink's Push wakes explicitly by sending on that
// channel (Ring.Put itself signals nothing). Idle blocks until
// either the channel fires or the given maximum wait elapses (the
// configured flush latency deadline).
type ChannelStrategy struct {
	signal  <-chan struct{}
	maxWait time.Duration
}

// NewChannelStrategy creates a strategy that waits on signal, or at most
// maxWait, whichever comes first.
func NewChannelStrategy(signal <-chan struct{}, maxWait time.Duration) *ChannelStrategy {
	return &ChannelStrategy{signal: signal, maxWait: maxWait}
}

func (s *ChannelStrategy) Idle() bool {
	if s.maxWait <= 0 {
		<-s.signal
		return true
	}
	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case <-s.signal:
	case <-timer.C:
	}
	return true
}
func (s *ChannelStrategy) Reset() {}
func (s *ChannelStrategy) String() string { return "channel" }
