// ring.go: bounded lock-free slot ring used by every Sink (spec §3, §4.1)
//
// Grounded on agilira-iris/internal/zephyroslite/zephyros.go's cache-line
// padded cursor pair and batch-drain consumer loop, generalized from
// zephyroslite's MPSC sequence-claim contract to the spec's explicit
// per-slot state machine: empty -> producing -> ready -> consuming -> empty.
// agilira-iris/notus/notus.go's split writer/reader cursor shape was
// consulted for the producer/consumer cursor split but is not reused
// verbatim (notus is SPSC-only; dendron's Ring must stay correct with
// multiple concurrent producers per spec §4.1).
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

// slotState is the per-slot state machine required by spec §3. A slot
// whose producer gives it up takes the side path producing -> abandoned
// -> empty, the last step made by the consumer when it skips the slot.
type slotState int64

const (
	stateEmpty slotState = iota
	stateProducing
	stateReady
	stateConsuming
	stateAbandoned
)

// Ring is a bounded slot ring of T, safe for any number of concurrent
// producers calling Put and (per sink) a single consumer calling Get/Drain.
// Capacity may be any positive value; it does not need to be a power of
// two (spec §3: "power-of-two or arbitrary capacity").
type Ring[T any] struct {
	buffer   []T
	states   []paddedInt64
	capacity int64

	head paddedInt64 // next slot a producer will attempt to claim
	tail paddedInt64 // next slot the consumer will attempt to take
}

// New creates a Ring with room for capacity-1 live events (one slot is
// always kept free to distinguish full from empty, the classic circular
// buffer convention).
func New[T any](capacity int64) *Ring[T] {
	if capacity < 2 {
		capacity = 2
	}
	return &Ring[T]{
		buffer:   make([]T, capacity),
		states:   make([]paddedInt64, capacity),
		capacity: capacity,
	}
}

// Cap returns the ring's slot count (not its usable event capacity, which
// is Cap()-1).
func (r *Ring[T]) Cap() int64 { return r.capacity }

// Len returns an approximate count of events currently held by the ring.
// Per spec §9 (Open Questions), this counter is updated from head/tail
// positions that can each move independently of the ready-flag transition
// that actually publishes or retires a slot, so it is advisory only —
// never used by Put/Get correctness logic, exactly as the original's
// `size` field is described.
func (r *Ring[T]) Len() int64 {
	head := r.head.Load()
	tail := r.tail.Load()
	diff := head - tail
	if diff < 0 {
		diff += r.capacity
	}
	return diff
}

// PutHandle represents a slot reserved for a single producer. The
// producer must call Commit (to publish the Event it constructed in
// Value()) or Abandon (to give the slot back unused) exactly once.
type PutHandle[T any] struct {
	ring *Ring[T]
	idx  int64
	done bool
}

// Value returns a pointer to the slot's storage, to be filled in place by
// the producer. Never allocate a temporary T and copy it in — the whole
// point of the handle is to format directly into ring-owned memory.
func (h *PutHandle[T]) Value() *T { return &h.ring.buffer[h.idx] }

// Commit publishes the slot: after this call a consumer may observe and
// take it. Idempotent.
func (h *PutHandle[T]) Commit() {
	if h.done {
		return
	}
	h.done = true
	h.ring.states[h.idx].Store(int64(stateReady))
}

// Abandon releases the slot without publishing it (the scope that
// acquired it ended before an explicit Commit): the slot is marked
// abandoned, and the consumer skips it and returns it to empty.
// Idempotent.
func (h *PutHandle[T]) Abandon() {
	if h.done {
		return
	}
	h.done = true
	h.ring.states[h.idx].Store(int64(stateAbandoned))
}

// Put reserves a slot for a new Event. It never blocks: if the ring is
// full it returns ok=false immediately (spec §4.1, "put never blocks").
func (r *Ring[T]) Put() (handle *PutHandle[T], ok bool) {
	for {
		head := r.head.Load()
		next := (head + 1) % r.capacity
		tail := r.tail.Load()
		if next == tail {
			return nil, false // full
		}

		idx := head % r.capacity
		if r.states[idx].Load() != int64(stateEmpty) {
			// A lagging consumer hasn't cleared this slot yet (it laps the
			// ring while the previous occupant is still stateConsuming or
			// the consumer is mid-way through skipping an abandoned slot).
			// Retry rather than overwrite it.
			continue
		}

		if !r.head.CompareAndSwap(head, next) {
			continue
		}

		r.states[idx].Store(int64(stateProducing))
		return &PutHandle[T]{ring: r, idx: idx}, true
	}
}

// GetHandle represents a slot a single consumer has taken ownership of.
// Release must be called exactly once to return the slot to the empty
// pool.
type GetHandle[T any] struct {
	ring *Ring[T]
	idx  int64
}

// Value returns a pointer to the consumed slot's storage.
func (h *GetHandle[T]) Value() *T { return &h.ring.buffer[h.idx] }

// Release returns the slot to the empty state so a future producer may
// reuse it.
func (h *GetHandle[T]) Release() {
	h.ring.states[h.idx].Store(int64(stateEmpty))
}

// Get takes the oldest ready event, if any. It never blocks: if the ring
// is empty, or the next logical slot's producer hasn't finished
// committing yet, it returns ok=false immediately (spec §4.1, "get never
// blocks").
func (r *Ring[T]) Get() (handle *GetHandle[T], ok bool) {
	for {
		tail := r.tail.Load()
		head := r.head.Load()
		if head == tail {
			return nil, false // empty
		}

		idx := tail % r.capacity
		state := r.states[idx].Load()
		if state == int64(stateAbandoned) {
			// The producer gave the slot up: skip it and free it.
			if r.tail.CompareAndSwap(tail, (tail+1)%r.capacity) {
				r.states[idx].Store(int64(stateEmpty))
			}
			continue
		}
		if state != int64(stateReady) {
			// Producer claimed the slot but hasn't committed yet.
			return nil, false
		}

		next := (tail + 1) % r.capacity
		if !r.tail.CompareAndSwap(tail, next) {
			continue
		}

		r.states[idx].Store(int64(stateConsuming))
		return &GetHandle[T]{ring: r, idx: idx}, true
	}
}

// Drain repeatedly takes ready events and passes them to fn, releasing
// each slot immediately after. It stops when the ring runs out of ready
// events, or when fn returns false (used by a sink's worker to stop once
// its layout buffer has too little free space left, per spec §4.4). It
// returns the number of events processed.
func (r *Ring[T]) Drain(fn func(*T) bool) int {
	processed := 0
	for {
		h, ok := r.Get()
		if !ok {
			return processed
		}
		keepGoing := fn(h.Value())
		h.Release()
		processed++
		if !keepGoing {
			return processed
		}
	}
}
