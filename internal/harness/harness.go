// Package harness drives one producer and one consumer goroutine over an
// SPSC queue for a fixed item count and reports elapsed time.
//
// The harness owns all scheduling state: it spawns the two goroutines,
// carries the "producer finished" flag, and verifies that every value
// arrived exactly once and in order. The queues themselves never create
// goroutines.
package harness

import (
	"fmt"
	"runtime"
	"time"

	"github.com/hotpath/spscq"
)

// Result captures one producer/consumer transfer run.
type Result struct {
	Items   int
	Elapsed time.Duration
}

// NsPerOp returns the average cost of one push+pop handoff.
func (r Result) NsPerOp() float64 {
	if r.Items == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Items)
}

// Throughput returns transferred items per second in millions.
func (r Result) Throughput() float64 {
	ns := r.NsPerOp()
	if ns == 0 {
		return 0
	}
	return 1000 / ns
}

// Run transfers count distinct sequential integers through q with one
// producer and one consumer goroutine, spinning with a yield on full and
// empty. It returns an error if any value is lost, duplicated or
// reordered.
func Run(q spscq.Queue[int], count int) (Result, error) {
	producerDone := NewFlag()
	errCh := make(chan error, 1)

	start := time.Now()

	// Producer (single goroutine - SPSC contract)
	go func() {
		for i := 0; i < count; i++ {
			for !q.Push(i) {
				runtime.Gosched()
			}
		}
		producerDone.Set()
	}()

	// Consumer (single goroutine - SPSC contract)
	go func() {
		expected := 0
		for expected < count {
			val, ok := q.Pop()
			if !ok {
				runtime.Gosched()
				continue
			}
			if val != expected {
				errCh <- fmt.Errorf("harness: expected %d, got %d (order violated)", expected, val)
				return
			}
			expected++
		}
		errCh <- nil
	}()

	if err := <-errCh; err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	// Join the producer. It can be descheduled between its last Push and
	// Set, so the flag is polled rather than snapshotted. A producer that
	// is still pushing once the consumer has all count values means the
	// consumer saw duplicates, so the wait is bounded.
	deadline := time.Now().Add(joinTimeout)
	for !producerDone.IsSet() {
		if time.Now().After(deadline) {
			return Result{}, fmt.Errorf("harness: producer still running after consumer finished (values duplicated?)")
		}
		runtime.Gosched()
	}

	if v, ok := q.Pop(); ok {
		return Result{}, fmt.Errorf("harness: queue not empty after transfer (got %d)", v)
	}

	return Result{Items: count, Elapsed: elapsed}, nil
}

// joinTimeout bounds how long Run waits for the producer to raise its
// flag after the consumer has received every value.
const joinTimeout = 5 * time.Second
