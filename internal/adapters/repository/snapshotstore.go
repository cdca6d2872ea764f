package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
	"github.com/okian/evergreen/pkg/metrics"
)

// Snapshot is an immutable copy of one frame. Readers must not modify it.
type Snapshot struct {
	Version     uint64
	Seed        int64
	PublishedAt time.Time
	Frame       scene.Frame
}

// SnapshotStore keeps the latest Snapshot behind an atomic pointer, so reads
// never wait on the frame loop.
type SnapshotStore struct {
	mu       sync.Mutex // serializes publishers
	version  uint64
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

var _ Store = (*SnapshotStore)(nil)

// NewSnapshotStore creates an empty store with configuration options.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.
func (s *SnapshotStore) Publish(_ context.Context, seed int64, frame scene.Frame) uint64 {
	start := time.Now()

	elements := make([]model.Element, len(frame.Elements))
	copy(elements, frame.Elements)
	frame.Elements = elements

	s.mu.Lock()
	s.version++
	v := s.version
	s.snapshot.Store(&Snapshot{
		Version:     v,
		Seed:        seed,
		PublishedAt: s.now(),
		Frame:       frame,
	})
	s.mu.Unlock()

	metrics.RecordSnapshotPublished(float64(time.Since(start).Nanoseconds()) / 1e6)
	return v
}

// Snapshot implements Store.
func (s *SnapshotStore) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Element implements Store.
func (s *SnapshotStore) Element(ctx context.Context, id int) (model.Element, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return model.Element{}, err
	}
	if id < 0 || id >= len(snap.Frame.Elements) {
		return model.Element{}, ErrElementNotFound
	}
	return snap.Frame.Elements[id], nil
}

// Version implements Store.
func (s *SnapshotStore) Version(_ context.Context) uint64 {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return 0
}
