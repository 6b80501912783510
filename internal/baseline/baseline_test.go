package baseline_test

import (
	"testing"

	"github.com/hotpath/spscq"
	"github.com/hotpath/spscq/internal/baseline"
)

// Both baselines must satisfy the queue contract the harness drives.
var (
	_ spscq.Queue[int] = (*baseline.MutexQueue[int])(nil)
	_ spscq.Queue[int] = (*baseline.ChannelQueue[int])(nil)
)

func TestMutexQueue_FIFO(t *testing.T) {
	q := baseline.NewMutex[int]()

	if _, ok := q.Pop(); ok {
		t.Error("expected Pop() = false on empty queue")
	}

	for i := 0; i < 100; i++ {
		if !q.Push(i) {
			t.Fatalf("expected Push(%d) = true", i)
		}
	}
	if q.Len() != 100 {
		t.Errorf("expected Len() = 100, got %d", q.Len())
	}

	for i := 0; i < 100; i++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("expected Pop() = true for item %d", i)
		}
		if got != i {
			t.Errorf("FIFO violation: expected %d, got %d", i, got)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("expected Pop() = false after draining")
	}
}

// MutexQueue grows: it never reports full.
func TestMutexQueue_Grows(t *testing.T) {
	q := baseline.NewMutex[int]()
	for i := 0; i < 10_000; i++ {
		if !q.Push(i) {
			t.Fatalf("expected Push(%d) = true (growable queue)", i)
		}
	}
	if q.Len() != 10_000 {
		t.Errorf("expected Len() = 10000, got %d", q.Len())
	}
}

func TestChannelQueue(t *testing.T) {
	q := baseline.NewChannel[int](2)

	if !q.Push(1) {
		t.Error("expected Push(1) = true")
	}
	if !q.Push(2) {
		t.Error("expected Push(2) = true")
	}
	if q.Push(3) {
		t.Error("expected Push(3) = false on full queue")
	}
	if q.Cap() != 2 {
		t.Errorf("expected Cap() = 2, got %d", q.Cap())
	}

	got, ok := q.Pop()
	if !ok || got != 1 {
		t.Errorf("expected Pop() = (1, true), got (%d, %v)", got, ok)
	}
	got, ok = q.Pop()
	if !ok || got != 2 {
		t.Errorf("expected Pop() = (2, true), got (%d, %v)", got, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("expected Pop() = false after draining")
	}
}
