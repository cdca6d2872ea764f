// Package queue defines the mailbox carrying detector results from the
// detection loop to the frame loop.
//
// The mailbox is bounded. When it is full the oldest detection is evicted,
// since the newest hand sample is the one the frame loop should see.
package queue

import (
	"context"
	"sync"

	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 8
)

// Detection is the payload type flowing through the queue.
type Detection = model.Detection

// Queue provides non-blocking enqueue and drain semantics.
type Queue interface {
	// Enqueue adds a detection. Returns false if it was not accepted.
	Enqueue(ctx context.Context, d Detection) bool

	// Drain removes and returns everything queued, oldest first. It never blocks.
	Drain(ctx context.Context) []Detection

	// Len returns the current number of queued detections.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new detections can be enqueued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	detections chan Detection
	capacity   int
	dropOldest bool
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		dropOldest: true,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.detections = make(chan Detection, q.capacity)

	metrics.UpdateMailboxCapacity(q.capacity)
	metrics.UpdateMailboxSize(0)

	return q
}

// Enqueue adds a detection to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, d Detection) bool { //nolint:gocritic // hugeParam: Detection must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordMailboxDrop("closed")
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	if ctx.Err() != nil {
		metrics.RecordMailboxDrop("context_cancelled")
		return false
	}

	for {
		select {
		case q.detections <- d:
			metrics.UpdateMailboxSize(len(q.detections))
			return true
		default:
		}

		if !q.dropOldest {
			metrics.RecordMailboxDrop("full")
			return false
		}

		// Make room. A concurrent Drain may have emptied it already.
		select {
		case <-q.detections:
			metrics.RecordMailboxDrop("evicted")
		default:
		}
	}
}

// Drain removes everything currently queued.
func (q *InMemoryQueue) Drain(_ context.Context) []Detection {
	var out []Detection
	for {
		select {
		case d, ok := <-q.detections:
			if !ok {
				metrics.UpdateMailboxSize(0)
				return out
			}
			out = append(out, d)
		default:
			metrics.UpdateMailboxSize(len(q.detections))
			return out
		}
	}
}

// Len returns the current number of queued detections.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.detections)
	metrics.UpdateMailboxSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	close(q.detections)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
