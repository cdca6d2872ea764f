package detector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
)

// Push is fed landmark samples from outside, e.g. a browser running the
// landmark model and posting results. The newest pushed sample is the
// current video frame.
type Push struct {
	mu     sync.RWMutex
	latest model.Detection
	has    bool

	pushed     atomic.Int64
	duplicates atomic.Int64
}

// NewPush creates an empty push source.
func NewPush() *Push {
	return &Push{}
}

// Init implements Source.
func (p *Push) Init(context.Context) error { return nil }

// Name implements Source.
func (p *Push) Name() string { return NamePush }

// Push records hands seen at ts. It returns false when ts repeats the latest
// sample's timestamp; the sample is then ignored.
func (p *Push) Push(ts time.Duration, hands []model.Hand) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.has && p.latest.Timestamp == ts {
		p.duplicates.Add(1)
		return false
	}
	if hands == nil {
		hands = []model.Hand{}
	}
	p.latest = model.Detection{Fresh: true, Timestamp: ts, Hands: hands}
	p.has = true
	p.pushed.Add(1)
	return true
}

// Frame implements Source.
func (p *Push) Frame(context.Context) (time.Duration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest.Timestamp, p.has
}

// Detect implements Source. A ts other than the latest has no result.
func (p *Push) Detect(_ context.Context, ts time.Duration) (model.Detection, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.has || p.latest.Timestamp != ts {
		return model.NoResult(ts), nil
	}
	return p.latest, nil
}

// Stats returns pushed and duplicate counts.
func (p *Push) Stats() (pushed, duplicates int64) {
	return p.pushed.Load(), p.duplicates.Load()
}
