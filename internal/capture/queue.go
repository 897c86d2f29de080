package capture

import (
	"sync"
	"time"
)

// Queue is an unbounded FIFO of captured frames. Producers never block;
// a consumer polls with a timeout so it can periodically re-check its own
// stop condition.
type Queue struct {
	mu    sync.Mutex
	items []Frame
	wake  chan struct{}
}

// NewQueue creates an empty frame queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends a frame to the queue and wakes a waiting consumer.
func (q *Queue) Push(f Frame) {
	q.mu.Lock()
	q.items = append(q.items, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest frame, waiting up to timeout for one
// to arrive. The second return value is false when the timeout elapsed with
// the queue still empty.
func (q *Queue) Pop(timeout time.Duration) (Frame, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			f := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return f, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-deadline.C:
			return nil, false
		}
	}
}

// Len returns the number of queued frames.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
