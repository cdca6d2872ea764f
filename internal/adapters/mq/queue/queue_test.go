package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
)

func detection(ms int) model.Detection {
	return model.Detection{Fresh: true, Timestamp: time.Duration(ms) * time.Millisecond}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, detection(33)) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := q.Drain(ctx)
	if len(got) != 1 || got[0].Timestamp != 33*time.Millisecond {
		t.Errorf("expected one detection at 33ms, got %v", got)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if got := q.Drain(ctx); len(got) != 0 {
		t.Errorf("expected empty drain, got %v", got)
	}
}

func TestInMemoryQueue_EvictsOldestWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for _, ms := range []int{1, 2, 3} {
		if !q.Enqueue(ctx, detection(ms)) {
			t.Fatalf("expected enqueue of %dms to succeed", ms)
		}
	}

	got := q.Drain(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 detections, got %d", len(got))
	}
	if got[0].Timestamp != 2*time.Millisecond || got[1].Timestamp != 3*time.Millisecond {
		t.Errorf("expected the two newest in order, got %v", got)
	}
}

func TestInMemoryQueue_RejectsWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2), WithDropOldest(false))
	ctx := context.Background()

	q.Enqueue(ctx, detection(1))
	q.Enqueue(ctx, detection(2))

	if q.Enqueue(ctx, detection(3)) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for p := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				q.Enqueue(ctx, detection(p*1000+i))
			}
		}()
	}

	drained := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			drained += len(q.Drain(ctx))
		}
	}
	drained += len(q.Drain(ctx))

	if drained == 0 || drained > 400 {
		t.Errorf("unexpected drained count %d", drained)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected empty queue, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(4))
	ctx := context.Background()

	q.Enqueue(ctx, detection(1))

	if err := q.Close(); err != nil {
		t.Errorf("expected no error on close, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if q.Enqueue(ctx, detection(2)) {
		t.Error("expected enqueue to fail after close")
	}
	if got := q.Drain(ctx); len(got) != 1 {
		t.Errorf("expected queued detection to survive close, got %v", got)
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected no error on second close, got %v", err)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, detection(1)) {
		t.Error("expected enqueue to fail with cancelled context")
	}
}
