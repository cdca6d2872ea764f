package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
)

func testFrame(n int) scene.Frame {
	elements := make([]model.Element, n)
	for i := range elements {
		elements[i] = model.Element{ID: i, Kind: model.KindOrnament, LivePosition: math32.Vec3(float32(i), 0, 0)}
	}
	return scene.Frame{Mode: model.ModeAssembled, Elements: elements}
}

func TestSnapshotStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()

	if v := store.Version(ctx); v != 0 {
		t.Errorf("expected version 0, got %d", v)
	}
	if _, err := store.Snapshot(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.Element(ctx, 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestSnapshotStore_Publish(t *testing.T) {
	ctx := context.Background()
	stamp := time.Unix(1700000000, 0)
	store := NewSnapshotStore(WithClock(func() time.Time { return stamp }))

	frame := testFrame(5)
	v := store.Publish(ctx, 42, frame)
	if v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Seed != 42 || snap.Version != 1 || !snap.PublishedAt.Equal(stamp) {
		t.Errorf("unexpected snapshot header: %+v", snap)
	}
	if len(snap.Frame.Elements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(snap.Frame.Elements))
	}

	// The snapshot must not alias the frame loop's slice.
	frame.Elements[2].LivePosition = math32.Vec3(99, 99, 99)
	e, err := store.Element(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.LivePosition.X != 2 {
		t.Errorf("snapshot changed after publish: %+v", e.LivePosition)
	}

	if v := store.Publish(ctx, 42, frame); v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}
	if v := store.Version(ctx); v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}
}

func TestSnapshotStore_ElementBounds(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()
	store.Publish(ctx, 1, testFrame(3))

	for _, id := range []int{-1, 3, 100} {
		if _, err := store.Element(ctx, id); !errors.Is(err, ErrElementNotFound) {
			t.Errorf("id %d: expected ErrElementNotFound, got %v", id, err)
		}
	}
}

func TestSnapshotStore_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore()
	store.Publish(ctx, 1, testFrame(10))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				snap, err := store.Snapshot(ctx)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if len(snap.Frame.Elements) != 10 {
					t.Errorf("torn snapshot: %d elements", len(snap.Frame.Elements))
					return
				}
			}
		}()
	}
	for range 200 {
		store.Publish(ctx, 1, testFrame(10))
	}
	wg.Wait()

	if v := store.Version(ctx); v != 201 {
		t.Errorf("expected version 201, got %d", v)
	}
}
