package spscq_test

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/valyala/fastrand"

	"github.com/hotpath/spscq"
)

// TestSPSC_NoLossNoDuplication runs the valid SPSC pattern (one producer
// goroutine pushing distinct sequential integers, one consumer goroutine
// popping until it has received them all) and requires exactly N values,
// in ascending order, for both variants.
func TestSPSC_NoLossNoDuplication(t *testing.T) {
	variants := []struct {
		name string
		make func(capacity int) (spscq.Queue[int], error)
	}{
		{"IndexPair", func(c int) (spscq.Queue[int], error) { return spscq.NewIndexPair[int](c) }},
		{"SlotSequence", func(c int) (spscq.Queue[int], error) { return spscq.NewSlotSequence[int](c) }},
	}

	for _, variant := range variants {
		for _, capacity := range []int{1, 2, 7, 1024} {
			for _, count := range []int{1, 1_000, 100_000} {
				name := fmt.Sprintf("%s/cap=%d/n=%d", variant.name, capacity, count)
				t.Run(name, func(t *testing.T) {
					q, err := variant.make(capacity)
					if err != nil {
						t.Fatalf("constructor: %v", err)
					}
					runSPSC(t, q, count)
				})
			}
		}
	}
}

func runSPSC(t *testing.T, q spscq.Queue[int], count int) {
	t.Helper()
	done := make(chan struct{})

	// Producer (single goroutine). Random yields shake out interleavings
	// that a pure spin would rarely hit.
	go func() {
		for i := 0; i < count; i++ {
			for !q.Push(i) {
				runtime.Gosched()
			}
			if fastrand.Uint32n(256) == 0 {
				runtime.Gosched()
			}
		}
		close(done)
	}()

	// Consumer (single goroutine - this test's main goroutine)
	received := 0
	expected := 0
	for received < count {
		if val, ok := q.Pop(); ok {
			if val != expected {
				t.Errorf("FIFO violation: expected %d, got %d", expected, val)
				return
			}
			expected++
			received++
			if fastrand.Uint32n(256) == 0 {
				runtime.Gosched()
			}
		} else {
			runtime.Gosched()
		}
	}

	<-done // Wait for producer

	if received != count {
		t.Errorf("expected %d items, received %d", count, received)
	}
	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue after transfer")
	}
}

// TestConcurrentPush_Panics verifies that the SPSC guards catch
// concurrent Push() calls.
//
// These tests intentionally violate the SPSC contract to verify the
// guards work.
func TestConcurrentPush_Panics(t *testing.T) {
	queues := map[string]spscq.Queue[int]{
		"IndexPair":    mustIndexPair[int](t, 1024),
		"SlotSequence": mustSlotSequence[int](t, 1024),
	}

	for name, q := range queues {
		t.Run(name, func(t *testing.T) {
			panicked := make(chan bool, 1)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					defer func() {
						if r := recover(); r != nil {
							select {
							case panicked <- true:
							default:
							}
						}
					}()
					for j := 0; j < 1000; j++ {
						q.Push(n*1000 + j)
					}
				}(i)
			}

			wg.Wait()

			select {
			case <-panicked:
				// Expected: the SPSC guard caught concurrent access
				t.Log("SPSC guard correctly detected concurrent Push()")
			default:
				// The test may pass without panic if goroutines don't overlap
				// This is OK - it just means we didn't catch the race this time
				t.Log("No panic detected (goroutines may not have overlapped)")
			}
		})
	}
}

// TestConcurrentPop_Panics verifies that the SPSC guards catch
// concurrent Pop() calls.
func TestConcurrentPop_Panics(t *testing.T) {
	queues := map[string]spscq.Queue[int]{
		"IndexPair":    mustIndexPair[int](t, 1024),
		"SlotSequence": mustSlotSequence[int](t, 1024),
	}

	for name, q := range queues {
		t.Run(name, func(t *testing.T) {
			// Pre-fill the queue
			for i := 0; i < 1024; i++ {
				q.Push(i)
			}

			panicked := make(chan bool, 1)

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					defer func() {
						if r := recover(); r != nil {
							select {
							case panicked <- true:
							default:
							}
						}
					}()
					for j := 0; j < 200; j++ {
						q.Pop()
					}
				}()
			}

			wg.Wait()

			select {
			case <-panicked:
				t.Log("SPSC guard correctly detected concurrent Pop()")
			default:
				t.Log("No panic detected (goroutines may not have overlapped)")
			}
		})
	}
}
