// Package baseline provides comparison-only queue implementations.
//
// These exist so the harness and benchmarks can put the lock-free SPSC
// queues next to conventional approaches:
//   - MutexQueue: mutex-protected growable queue
//   - ChannelQueue: buffered channel with non-blocking select
//
// Neither is bounded the way the SPSC queues are, and neither is meant
// for production use here; they are the yardstick.
package baseline

import (
	"sync"

	eq "github.com/eapache/queue"
)

// MutexQueue is a growable FIFO queue guarded by a mutex.
//
// Push never reports full: the backing ring grows as needed. That makes
// it a deliberately unfair comparison on the full path and a fair one on
// the uncontended hot path.
type MutexQueue[T any] struct {
	mu sync.Mutex
	q  *eq.Queue
}

// NewMutex creates an empty MutexQueue.
func NewMutex[T any]() *MutexQueue[T] {
	return &MutexQueue[T]{q: eq.New()}
}

// Push adds an item to the queue. Always succeeds.
func (m *MutexQueue[T]) Push(v T) bool {
	m.mu.Lock()
	m.q.Add(v)
	m.mu.Unlock()
	return true
}

// Pop removes and returns an item from the queue.
// Returns false if the queue is empty.
func (m *MutexQueue[T]) Pop() (T, bool) {
	m.mu.Lock()
	if m.q.Length() == 0 {
		m.mu.Unlock()
		var zero T
		return zero, false
	}
	v := m.q.Remove().(T)
	m.mu.Unlock()
	return v, true
}

// Len returns the current number of items in the queue.
func (m *MutexQueue[T]) Len() int {
	m.mu.Lock()
	n := m.q.Length()
	m.mu.Unlock()
	return n
}

// ChannelQueue adapts a buffered channel to the queue contract the
// harness drives.
//
// Channels are the answer Go itself gives to goroutine handoff, which
// makes this the comparison every lock-free number has to beat. Push
// and Pop go through select with a default arm, keeping both
// non-blocking like the queues under test.
type ChannelQueue[T any] struct {
	ch chan T
}

// NewChannel creates a ChannelQueue backed by a channel of the given
// buffer size.
func NewChannel[T any](size int) *ChannelQueue[T] {
	return &ChannelQueue[T]{
		ch: make(chan T, size),
	}
}

// Push adds an item, reporting false when the buffer is full.
func (c *ChannelQueue[T]) Push(v T) bool {
	select {
	case c.ch <- v:
		return true
	default:
		return false
	}
}

// Pop removes and returns the oldest item, reporting false when the
// buffer is empty.
func (c *ChannelQueue[T]) Pop() (T, bool) {
	select {
	case v := <-c.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of buffered items.
func (c *ChannelQueue[T]) Len() int {
	return len(c.ch)
}

// Cap returns the buffer capacity.
func (c *ChannelQueue[T]) Cap() int {
	return cap(c.ch)
}
