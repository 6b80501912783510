// Package spscq provides bounded single-producer single-consumer queues
// for low-latency handoff between exactly two goroutines.
//
// This package offers two implementations of the Queue interface:
//   - IndexPairQueue: ring buffer with producer/consumer-cached opposite
//     indices (minimal cross-core traffic on the fast path)
//   - SlotSequenceQueue: ring buffer with a per-slot sequence number
//     (each side only touches the slot it is about to use)
//
// # SPSC Safety (IMPORTANT)
//
// Both queues are Single-Producer Single-Consumer (SPSC).
// It is NOT safe for multiple goroutines to call Push() or Pop() concurrently.
//
// The implementations include runtime guards that panic on misuse.
// This catches bugs early but adds ~1-2ns overhead per operation.
//
// Correct usage:
//   - Exactly ONE goroutine calls Push(), PushWait() and Close()
//   - Exactly ONE goroutine calls Pop(), Front() and PopWait()
//   - These may be the same goroutine or different goroutines
package spscq

import "errors"

var (
	// ErrInvalidCapacity is returned by constructors when the requested
	// capacity is zero or the padded backing allocation would overflow.
	ErrInvalidCapacity = errors.New("spscq: invalid capacity")

	// ErrTimedOut is returned by PushWait/PopWait when the timeout
	// elapses before the operation could complete.
	ErrTimedOut = errors.New("spscq: timed out")
)

// Queue is a single-producer single-consumer queue.
//
// Implementations are non-blocking: Push returns false if full,
// Pop returns false if empty.
type Queue[T any] interface {
	// Push adds an item to the queue.
	// Returns false if the queue is full.
	Push(T) bool

	// Pop removes and returns an item from the queue.
	// Returns false if the queue is empty.
	Pop() (T, bool)
}
