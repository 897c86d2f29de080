package capture

import (
	"testing"
	"time"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Frame{1, 1})
	q.Push(Frame{2, 2})
	q.Push(Frame{3, 3})

	if q.Len() != 3 {
		t.Fatalf("Expected 3 queued frames, got %d", q.Len())
	}

	for i, want := range []int16{1, 2, 3} {
		f, ok := q.Pop(time.Second)
		if !ok {
			t.Fatalf("Pop %d: expected a frame, got timeout", i)
		}
		if len(f) != 2 || f[0] != want {
			t.Errorf("Pop %d: expected frame starting with %d, got %v", i, want, f)
		}
	}

	if q.Len() != 0 {
		t.Errorf("Expected empty queue after draining, got %d", q.Len())
	}
}

func TestQueuePopTimeout(t *testing.T) {
	q := NewQueue()

	start := time.Now()
	f, ok := q.Pop(50 * time.Millisecond)
	elapsed := time.Since(start)

	if ok || f != nil {
		t.Errorf("Expected timeout on empty queue, got frame %v", f)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected Pop to wait at least 50ms, returned after %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("Expected Pop to return near the timeout, took %v", elapsed)
	}
}

func TestQueuePopWakesOnPush(t *testing.T) {
	q := NewQueue()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push(Frame{7})
	}()

	start := time.Now()
	f, ok := q.Pop(5 * time.Second)
	elapsed := time.Since(start)

	if !ok {
		t.Fatalf("Expected a frame before the timeout")
	}
	if len(f) != 1 || f[0] != 7 {
		t.Errorf("Expected frame [7], got %v", f)
	}
	if elapsed > time.Second {
		t.Errorf("Expected Pop to wake promptly after push, took %v", elapsed)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()

	const producers = 8
	const perProducer = 50
	for i := 0; i < producers; i++ {
		go func() {
			for j := 0; j < perProducer; j++ {
				q.Push(Frame{int16(j)})
			}
		}()
	}

	received := 0
	for received < producers*perProducer {
		if _, ok := q.Pop(time.Second); !ok {
			t.Fatalf("Timed out after receiving %d of %d frames", received, producers*perProducer)
		}
		received++
	}

	if q.Len() != 0 {
		t.Errorf("Expected empty queue after draining, got %d", q.Len())
	}
}
