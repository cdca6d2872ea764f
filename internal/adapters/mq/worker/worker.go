// Package worker runs the detection loop: it polls the video clock, skips
// frames the gate has already seen, invokes the detector and posts results
// to the mailbox for the frame loop.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/pkg/logger"
	"github.com/okian/evergreen/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultInterval = time.Second / 30
)

// VideoClock reports the timestamp of the current video frame.
type VideoClock interface {
	// Frame returns the current frame timestamp, or false if no frame is
	// available yet.
	Frame(ctx context.Context) (time.Duration, bool)
}

// Detector runs hand detection on the video frame at ts.
type Detector interface {
	Detect(ctx context.Context, ts time.Duration) (model.Detection, error)
}

// Gate admits each frame timestamp once.
type Gate interface {
	Admit(ctx context.Context, ts time.Duration) bool
	Release(ctx context.Context, ts time.Duration)
}

// Queue defines where detections go.
type Queue interface {
	Enqueue(ctx context.Context, d model.Detection) bool
}

// Worker is a frame-paced background loop.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker. A poll already running completes.
	Shutdown(ctx context.Context) error
}

// DetectionWorker implements Worker for the detection loop.
type DetectionWorker struct {
	clock    VideoClock
	detector Detector
	gate     Gate
	queue    Queue
	interval time.Duration
	name     string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewDetectionWorker creates a new worker with configuration options.
func NewDetectionWorker(clock VideoClock, detector Detector, gate Gate, queue Queue, opts ...Option) *DetectionWorker {
	w := &DetectionWorker{
		clock:    clock,
		detector: detector,
		gate:     gate,
		queue:    queue,
		interval: defaultInterval,
		name:     "detection",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Default().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "detection" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *DetectionWorker) Run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *DetectionWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Poll runs one detection attempt. It reports whether a fresh result was
// posted to the queue.
func (w *DetectionWorker) Poll(ctx context.Context) bool {
	ts, ok := w.clock.Frame(ctx)
	if !ok {
		return false
	}

	if !w.gate.Admit(ctx, ts) {
		metrics.RecordDetection(metrics.DetectionSkipped)
		return false
	}

	d, err := w.detector.Detect(ctx, ts)
	if err != nil {
		w.gate.Release(ctx, ts)
		metrics.RecordDetection(metrics.DetectionError)
		metrics.RecordErrorByComponent("worker", "detect")
		w.logger.Debug(ctx, "detection failed",
			logger.Duration("frame", ts),
			logger.Error(err),
		)
		return false
	}

	if !d.Fresh {
		metrics.RecordDetection(metrics.DetectionSkipped)
		return false
	}

	if len(d.Hands) > 0 {
		metrics.RecordDetection(metrics.DetectionHands)
	} else {
		metrics.RecordDetection(metrics.DetectionNone)
	}

	if !w.queue.Enqueue(ctx, d) {
		w.logger.Debug(ctx, "detection dropped", logger.Duration("frame", ts))
		return false
	}
	return true
}
