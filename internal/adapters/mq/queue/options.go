package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropOldest selects eviction of the oldest detection (true) or rejection
// of the new one (false) when the queue is full.
func WithDropOldest(drop bool) Option {
	return func(q *InMemoryQueue) {
		q.dropOldest = drop
	}
}
