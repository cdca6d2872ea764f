// Package framegate admits each video frame timestamp to detection once.
package framegate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Gate decides whether a video frame still needs detection.
type Gate interface {
	// Admit atomically checks ts against the last admitted frame and records
	// it if new. Returns false when the frame was already processed.
	Admit(ctx context.Context, ts time.Duration) bool

	// Release forgets an admitted ts so the frame can be retried. Use it only
	// when detection for ts failed before producing a result.
	Release(ctx context.Context, ts time.Duration)

	// Skipped counts frames rejected by Admit.
	Skipped() int64
}

// lastFrameGate remembers the last admitted timestamp and the one before it
// so a single Release can roll back.
type lastFrameGate struct {
	mu      sync.Mutex
	last    time.Duration
	prev    time.Duration
	hasLast bool
	hasPrev bool
	rewind  bool
	skipped atomic.Int64
}

// New creates a gate with configuration options.
func New(opts ...Option) Gate {
	g := &lastFrameGate{rewind: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Admit implements Gate.
func (g *lastFrameGate) Admit(_ context.Context, ts time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasLast && (ts == g.last || (!g.rewind && ts < g.last)) {
		g.skipped.Add(1)
		return false
	}

	g.prev, g.hasPrev = g.last, g.hasLast
	g.last, g.hasLast = ts, true
	return true
}

// Release implements Gate.
func (g *lastFrameGate) Release(_ context.Context, ts time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasLast || g.last != ts {
		return
	}
	g.last, g.hasLast = g.prev, g.hasPrev
	g.hasPrev = false
}

// Skipped implements Gate.
func (g *lastFrameGate) Skipped() int64 {
	return g.skipped.Load()
}
