package spscq

import (
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// IndexPairQueue is a lock-free SPSC queue built on a slack-slot ring.
//
// The producer owns wIdx, the consumer owns rIdx. Each side additionally
// keeps a private, non-atomic snapshot of the other side's index and only
// re-reads the shared index when the snapshot says the queue might be
// full (producer) or empty (consumer). On the fast path neither side
// touches a cache line the other side writes.
//
// One ring position is kept as slack so that full and empty are both
// detectable from index equality alone; a queue of capacity C allocates
// C+1 slots.
//
// WARNING: This queue is NOT safe for multiple producers or multiple
// consumers. Runtime guards panic if the SPSC contract is violated.
type IndexPairQueue[T any] struct {
	ring ringIdx
	buf  []T // window into a guard-padded backing array

	_ cpu.CacheLinePad

	wIdx       atomic.Uint64 // Written by producer, read by consumer
	rIdxCached uint64        // Producer-private snapshot of rIdx

	_ cpu.CacheLinePad

	rIdx       atomic.Uint64 // Written by consumer, read by producer
	wIdxCached uint64        // Consumer-private snapshot of wIdx

	_ cpu.CacheLinePad

	// SPSC guards: detect concurrent misuse
	pushActive atomic.Uint32
	popActive  atomic.Uint32
}

// NewIndexPair creates an IndexPairQueue with the given usable capacity.
// Capacity is exact, not rounded. Returns ErrInvalidCapacity if capacity
// is zero or the padded allocation would overflow.
func NewIndexPair[T any](capacity int) (*IndexPairQueue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	elemSize := unsafe.Sizeof(*new(T))
	guard := guardSlots(elemSize)
	size := uint64(capacity) + 1
	if err := checkAlloc(size+2*guard, elemSize); err != nil {
		return nil, err
	}

	// Guard slots on both ends keep the live window off cache lines
	// shared with adjacent allocations or the queue header.
	raw := make([]T, size+2*guard)
	return &IndexPairQueue[T]{
		ring: newRingIdx(size),
		buf:  raw[guard : guard+size],
	}, nil
}

// Push adds an item to the queue.
// Returns false if the queue is full; the queue is unchanged in that case.
//
// SPSC CONTRACT: Only ONE goroutine may call Push().
func (q *IndexPairQueue[T]) Push(v T) bool {
	if !q.pushActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent Push on SPSC IndexPairQueue - only one producer allowed")
	}
	defer q.pushActive.Store(0)

	idx := q.wIdx.Load()
	next := q.ring.next(idx)
	if next == q.rIdxCached {
		q.rIdxCached = q.rIdx.Load()
		if next == q.rIdxCached {
			return false
		}
	}

	q.buf[idx] = v

	// Publish (store-release semantics via atomic)
	q.wIdx.Store(next)

	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
//
// SPSC CONTRACT: Only ONE goroutine may call Pop().
func (q *IndexPairQueue[T]) Pop() (T, bool) {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent Pop on SPSC IndexPairQueue - only one consumer allowed")
	}
	defer q.popActive.Store(0)

	idx := q.rIdx.Load()
	if idx == q.wIdxCached {
		q.wIdxCached = q.wIdx.Load()
		if idx == q.wIdxCached {
			var zero T
			return zero, false
		}
	}

	v := q.buf[idx]
	var zero T
	q.buf[idx] = zero // release the slot's reference for GC

	// Consume (store-release semantics via atomic)
	q.rIdx.Store(q.ring.next(idx))

	return v, true
}

// Front returns the next item without removing it.
// Returns false if the queue is empty. Repeated calls without an
// intervening Pop return the same item.
//
// Front is a consumer-side operation.
func (q *IndexPairQueue[T]) Front() (T, bool) {
	if !q.popActive.CompareAndSwap(0, 1) {
		panic("spscq: concurrent consumer-side call on SPSC IndexPairQueue")
	}
	defer q.popActive.Store(0)

	idx := q.rIdx.Load()
	if idx == q.wIdxCached {
		q.wIdxCached = q.wIdx.Load()
		if idx == q.wIdxCached {
			var zero T
			return zero, false
		}
	}
	return q.buf[idx], true
}

// PushWait retries Push until it succeeds or timeout elapses, yielding
// the goroutine between attempts. A timeout <= 0 retries without bound.
// Returns ErrTimedOut on expiry; the queue is unchanged in that case.
func (q *IndexPairQueue[T]) PushWait(v T, timeout time.Duration) error {
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
		// The clock check is amortized: time.Now costs more than a
		// failed Push, so only look at it every few attempts.
		if timeout > 0 && spins%deadlineCheckEvery == 0 && time.Now().After(deadline) {
			return ErrTimedOut
		}
	}
}

// PopWait retries Pop until an item arrives or timeout elapses, yielding
// the goroutine between attempts. A timeout <= 0 retries without bound.
// Returns ErrTimedOut on expiry.
func (q *IndexPairQueue[T]) PopWait(timeout time.Duration) (T, error) {
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
func (q *IndexPairQueue[T]) Empty() bool {
	return q.wIdx.Load() == q.rIdx.Load()
}

// Len returns the current number of items in the queue.
// This is an approximation and may be slightly stale.
func (q *IndexPairQueue[T]) Len() int {
	w := q.wIdx.Load()
	r := q.rIdx.Load()
	if w >= r {
		return int(w - r)
	}
	return int(q.ring.size - (r - w))
}

// Cap returns the usable capacity of the queue (allocated slots minus
// the slack slot). Constant for the queue's lifetime.
func (q *IndexPairQueue[T]) Cap() int {
	return int(q.ring.size - 1)
}

// Close drains remaining items in FIFO order, calling release once per
// item if release is non-nil, then drops the backing storage. The caller
// must guarantee neither side touches the queue once Close begins.
func (q *IndexPairQueue[T]) Close(release func(T)) {
	if q.buf == nil {
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
	q.buf = nil
}

// deadlineCheckEvery bounds how many failed attempts PushWait/PopWait
// make between clock reads.
const deadlineCheckEvery = 64
