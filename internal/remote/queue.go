package remote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// commandQueue serializes outbound commands through a single lane with a
// minimum interval between dispatch starts. The device throttles clients
// that flood it with key presses; spacing is enforced at the moment a
// command actually dispatches, not when it was enqueued, so the guarantee
// holds between real network sends.
//
// Invariant: at most one command is in flight at any time; entries run in
// FIFO order.
type commandQueue struct {
	limiter *rate.Limiter

	mu      sync.Mutex
	pending []*queueEntry
	running bool
}

// queueEntry is a pending outbound action and its completion channel
type queueEntry struct {
	run  func() error
	done chan error
}

func newCommandQueue(spacing time.Duration) *commandQueue {
	if spacing <= 0 {
		spacing = time.Nanosecond
	}
	return &commandQueue{
		// Burst of 1: the first dispatch is immediate, every later one
		// waits out the spacing from the previous dispatch start
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
	}
}

// enqueue appends a command and blocks until it has been dispatched and
// completed. Processing starts if the queue was idle.
func (q *commandQueue) enqueue(run func() error) error {
	entry := &queueEntry{run: run, done: make(chan error, 1)}

	q.mu.Lock()
	q.pending = append(q.pending, entry)
	if !q.running {
		q.running = true
		go q.drain()
	}
	q.mu.Unlock()

	return <-entry.done
}

// drain pops and dispatches entries one at a time until the queue empties
func (q *commandQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		entry := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		// Blocks until the minimum spacing from the previous dispatch
		// start has elapsed
		_ = q.limiter.Wait(context.Background())
		entry.done <- entry.run()
	}
}

// depth returns the number of entries not yet dispatched
func (q *commandQueue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
