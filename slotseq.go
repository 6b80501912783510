package spscq

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Sequence discipline per slot, for the slot that serves logical
// position i (and i+cap, i+2cap, ...):
//
//	seq == 2i         slot is free, ready to be written at position i
//	seq == 2i+1       slot holds the value produced at position i
//	seq == 2(i+cap)   slot is free again for position i+cap
//
// Derived from Dmitry Vyukov's bounded queue, whittled down for one
// producer and one consumer: the positions need no CAS, only the slot's
// own sequence field crosses cores. The ticket advances twice per slot
// cycle so that "occupied at i" and "free at i+cap" stay distinct even
// when cap is 1.
type seqSlot[T any] struct {
	seq atomic.Uint64
	val T
	_   cpu.CacheLinePad // no two slots share a cache line
}

// SlotSequenceQueue is a lock-free SPSC queue where availability is
// decided by comparing a per-slot sequence number against the caller's
// logical position. Neither side ever reads the other side's position
// index on the fast path; the sequence field embedded in the slot being
// touched is the single point of cross-goroutine communication.
//
// WARNING: This queue is NOT safe for multiple producers or multiple
// consumers. Runtime guards panic if the SPSC contract is violated.
type SlotSequenceQueue[T any] struct {
	ring  ringIdx
	slots []seqSlot[T]

	_ cpu.CacheLinePad

	// Monotonically increasing logical positions. Each is stored only by
	// its owning side; they are atomic so Len and Empty stay race-clean.
	pidx atomic.Uint64 // producer position

	_ cpu.CacheLinePad

	cidx atomic.Uint64 // consumer position

	_ cpu.CacheLinePad

	// SPSC guards: detect concurrent misuse
	pushActive atomic.Uint32
	popActive  atomic.Uint32
}

// NewSlotSequence creates a SlotSequenceQueue with the given capacity.
// Capacity is exact, not rounded. Returns ErrInvalidCapacity if capacity
// is zero or the slot allocation would overflow.
func NewSlotSequence[T any](capacity int) (*SlotSequenceQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if err := checkAlloc(uint64(capacity), unsafe.Sizeof(seqSlot[T]{})); err != nil {
		return nil, err
	}

	slots := make([]seqSlot[T], capacity)
	for i := range slots {
		// initial sequence marks each slot free for its own index
		slots[i].seq.Store(2 * uint64(i))
	}

	return &SlotSequenceQueue[T]{
		ring:  newRingIdx(uint64(capacity)),
		slots: slots,
	}, nil
}

// Push adds an item to the queue.
// Returns false if the queue is full; the queue is unchanged in that case.
//
// SPSC CONTRACT: Only ONE goroutine may call Push().
func (q *SlotSequenceQueue[T]) Push(v T) bool {
	if !q.pushActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent Push on SPSC SlotSequenceQueue - only one producer allowed")
	}
	defer q.pushActive.Store(0)

	pos := q.pidx.Load()
	s := &q.slots[q.ring.wrap(pos)]

	seq := s.seq.Load()
	diff := int64(seq) - int64(2*pos)

	if diff < 0 {
		// consumer has not freed this slot for this generation yet
		return false
	}
	if diff > 0 {
		// unreachable with a single producer: the slot is already past
		// this position, so a second producer must have advanced it
		panic("spscq: slot sequence ahead of producer position - SPSC contract violated")
	}

	s.val = v

	// Publish the value (store-release semantics via atomic)
	s.seq.Store(2*pos + 1)
	q.pidx.Store(pos + 1)

	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Pop().
func (q *SlotSequenceQueue[T]) Pop() (T, bool) {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent Pop on SPSC SlotSequenceQueue - only one consumer allowed")
	}
	defer q.popActive.Store(0)

	pos := q.cidx.Load()
	s := &q.slots[q.ring.wrap(pos)]

	seq := s.seq.Load()
	diff := int64(seq) - int64(2*pos+1)

	if diff < 0 {
		// producer has not filled this slot for this generation yet
		var zero T
		return zero, false
	}
	if diff > 0 {
		panic("spscq: slot sequence ahead of consumer position - SPSC contract violated")
	}

	v := s.val
	var zero T
	s.val = zero // release the slot's reference for GC

	// Free the slot for the next wrap
	// (store-release semantics via atomic)
	s.seq.Store(2 * (pos + q.ring.size))
	q.cidx.Store(pos + 1)

	return v, true
}

// Front returns the next item without removing it.
// Returns false if the queue is empty. Repeated calls without an
// intervening Pop return the same item.
//
// Front is a consumer-side operation.
func (q *SlotSequenceQueue[T]) Front() (T, bool) {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent consumer-side call on SPSC SlotSequenceQueue")
	}
	defer q.popActive.Store(0)

	pos := q.cidx.Load()
	s := &q.slots[q.ring.wrap(pos)]

	seq := s.seq.Load()
	diff := int64(seq) - int64(2*pos+1)

	if diff < 0 {
		var zero T
		return zero, false
	}
	if diff > 0 {
		panic("spscq: slot sequence ahead of consumer position - SPSC contract violated")
	}
	return s.val, true
}

// PushWait retries Push until it succeeds or timeout elapses, yielding
// the goroutine between attempts. A timeout <= 0 retries without bound.
// Returns ErrTimedOut on expiry; the queue is unchanged in that case.
func (q *SlotSequenceQueue[T]) PushWait(v T, timeout time.Duration) error {
	if q.Push(v) {
		return nil
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for spins := 1; ; spins++ {
		runtime.Gosched()
		if q.Push(v) {
			return nil
		}
		if timeout > 0 && spins%deadlineCheckEvery == 0 && time.Now().After(deadline) {
			return ErrTimedOut
		}
	}
}

// PopWait retries Pop until an item arrives or timeout elapses, yielding
// the goroutine between attempts. A timeout <= 0 retries without bound.
// Returns ErrTimedOut on expiry.
func (q *SlotSequenceQueue[T]) PopWait(timeout time.Duration) (T, error) {
	if v, ok := q.Pop(); ok {
		return v, nil
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for spins := 1; ; spins++ {
		runtime.Gosched()
		if v, ok := q.Pop(); ok {
			return v, nil
		}
		if timeout > 0 && spins%deadlineCheckEvery == 0 && time.Now().After(deadline) {
			var zero T
			return zero, ErrTimedOut
		}
	}
}

// Empty reports whether the queue currently holds no items.
// Advisory only: the answer may be stale the instant it is returned.
func (q *SlotSequenceQueue[T]) Empty() bool {
	return q.pidx.Load() == q.cidx.Load()
}

// Len returns the current number of items in the queue.
// This is an approximation and may be slightly stale.
func (q *SlotSequenceQueue[T]) Len() int {
	return int(q.pidx.Load() - q.cidx.Load())
}

// Cap returns the capacity of the queue. Constant for the queue's lifetime.
func (q *SlotSequenceQueue[T]) Cap() int {
	return int(q.ring.size)
}

// Close drains remaining items in FIFO order, calling release once per
// item if release is non-nil, then drops the backing storage. The caller
// must guarantee neither side touches the queue once Close begins.
func (q *SlotSequenceQueue[T]) Close(release func(T)) {
	if q.slots == nil {
		return
	}
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		if release != nil {
			release(v)
		}
	}
	q.slots = nil
}
