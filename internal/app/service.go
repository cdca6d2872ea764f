// Package service runs a scene session: it owns the element set, the
// detection and frame loops, and the published snapshots read by the HTTP
// API and renderers.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/evergreen/internal/adapters/assets"
	"github.com/okian/evergreen/internal/adapters/detector"
	eventqueue "github.com/okian/evergreen/internal/adapters/mq/queue"
	workerpool "github.com/okian/evergreen/internal/adapters/mq/worker"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/internal/config"
	"github.com/okian/evergreen/internal/domain/framegate"
	"github.com/okian/evergreen/internal/domain/gesture"
	"github.com/okian/evergreen/internal/domain/layout"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/motion"
	"github.com/okian/evergreen/internal/domain/scene"
	"github.com/okian/evergreen/internal/domain/view"
	"github.com/okian/evergreen/pkg/logger"
	"github.com/okian/evergreen/pkg/metrics"
)

// Session is one running scene. All element and view mutation happens under
// mu, whether it comes from the frame loop or from a request.
type Session struct {
	mu sync.Mutex

	id  string
	cfg *config.Config

	// Core components
	generator *layout.Generator
	stepper   *scene.Stepper
	tracker   *gesture.Tracker
	gate      framegate.Gate
	source    detector.Source
	store     repository.Store
	loader    *assets.Loader
	palette   assets.Palette

	// Per-run components, rebuilt by Start
	mailbox *eventqueue.InMemoryQueue
	worker  *workerpool.DetectionWorker

	// State
	frame         scene.Frame
	seed          int64
	report        layout.Report
	textures      *assets.Set
	detectorReady bool
	started       bool
	startedAt     time.Time
	frames        int64
	loops         bool
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	now           func() time.Time

	logger logger.Logger
}

// New builds a session from cfg. Nothing runs until Start.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}
	palette, err := assets.ParsePalette(cfg.PalettePrimary, cfg.PaletteSecondary,
		cfg.PaletteTertiary, cfg.PaletteLight, cfg.PalettePlaceholder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	smoothing := motion.ParseSmoothing(cfg.Smoothing)
	engine := motion.NewEngine(
		motion.WithRates(float32(cfg.PositionRate), float32(cfg.RotationRate), float32(cfg.TumbleRate)),
		motion.WithSmoothing(smoothing),
	)
	controller := view.NewController(
		view.WithRanges(float32(cfg.AzimuthRange), float32(cfg.PolarRange)),
		view.WithPolarLimits(float32(cfg.MinPolar), float32(cfg.MaxPolar)),
		view.WithRates(float32(cfg.OrbitRate), float32(cfg.AutoRotateSpeed), float32(cfg.DistanceRate)),
		view.WithDistances(float32(cfg.DistanceAssembled), float32(cfg.DistanceUnleashed)),
		view.WithSmoothing(smoothing),
	)

	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		generator: generator,
		stepper:   scene.NewStepper(engine, controller, scene.WithMaxDelta(float32(cfg.MaxFrameDelta().Seconds()))),
		tracker:   gesture.NewTracker(gesture.NewClassifier(gesture.WithOpenThreshold(float32(cfg.OpenThreshold)))),
		gate:      framegate.New(),
		palette:   palette,
		loops:     true,
		now:       time.Now,
		logger:    logger.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		s.source, err = detector.New(cfg.Detector)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
	}
	if s.store == nil {
		s.store = repository.NewSnapshotStore()
	}
	s.logger = s.logger.Named("session")
	s.loader = assets.NewLoader(
		assets.WithDir(cfg.PhotoDir),
		assets.WithTextureSize(cfg.TextureSize),
		assets.WithPlaceholderColor(palette.Placeholder),
		assets.WithLogger(s.logger),
	)

	return s, nil
}

func newGenerator(cfg *config.Config) (*layout.Generator, error) {
	photoRegion, err := layout.RegionByName(cfg.PhotoRegion,
		float32(cfg.PhotoRingInner), float32(cfg.PhotoRingOuter), float32(cfg.PhotoRingHeight))
	if err != nil {
		return nil, fmt.Errorf("%w: photo_region: %w", config.ErrInvalidConfig, err)
	}
	lightRegion, err := layout.RegionByName(cfg.LightRegion,
		float32(cfg.LightShellInner), float32(cfg.LightShellOuter), float32(cfg.PhotoRingHeight))
	if err != nil {
		return nil, fmt.Errorf("%w: light_region: %w", config.ErrInvalidConfig, err)
	}
	ornamentRegion, err := layout.RegionByName(cfg.OrnamentRegion,
		float32(cfg.OrnamentShellInner), float32(cfg.OrnamentShellOuter), float32(cfg.PhotoRingHeight))
	if err != nil {
		return nil, fmt.Errorf("%w: ornament_region: %w", config.ErrInvalidConfig, err)
	}

	return layout.NewGenerator(
		layout.WithCount(cfg.ElementCount),
		layout.WithTreeSize(float32(cfg.TreeHeight), float32(cfg.TreeRadius)),
		layout.WithMaxLights(cfg.MaxLights),
		layout.WithMinPhotoDistance(float32(cfg.MinPhotoDistance)),
		layout.WithPhotoAttempts(cfg.PhotoAttempts),
		layout.WithPhotos(cfg.Photos),
		layout.WithPhotoRegion(photoRegion),
		layout.WithLightRegion(lightRegion),
		layout.WithOrnamentRegion(ornamentRegion),
		layout.WithFallbackRadius(float32(cfg.PhotoFallbackRadius)),
	), nil
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Palette returns the display palette.
func (s *Session) Palette() assets.Palette { return s.palette }

// Start generates the layout, preloads photos and initializes the detector,
// then starts the loops. It returns once the scene is ready to render.
// A detector that fails to initialize leaves the session running without
// gesture input.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting session...",
		logger.String("id", s.id),
		logger.String("detector", s.source.Name()),
	)

	seed := s.cfg.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	s.generateLocked(ctx, seed)
	s.frame = s.stepper.Start(s.frame.Elements)
	s.tracker.Reset()

	textures, err := s.loader.Preload(ctx, s.cfg.Photos)
	if err != nil {
		return fmt.Errorf("preload photos: %w", err)
	}
	s.textures = textures

	s.detectorReady = true
	if err := s.source.Init(ctx); err != nil {
		s.detectorReady = false
		s.logger.Warn(ctx, "detector unavailable, gesture input disabled",
			logger.String("detector", s.source.Name()),
			logger.Error(err),
		)
		metrics.RecordErrorByComponent("detector", "init")
	}
	metrics.UpdateDetectorReady(s.detectorReady)

	s.mailbox = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.cfg.DetectionQueueSize))
	s.worker = workerpool.NewDetectionWorker(s.source, s.source, s.gate, s.mailbox,
		workerpool.WithInterval(s.cfg.DetectionInterval()),
		workerpool.WithLogger(s.logger),
	)

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	if s.loops {
		if s.detectorReady {
			w := s.worker
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				w.Run(loopCtx)
			}()
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runFrames(loopCtx)
		}()
	}

	s.store.Publish(ctx, s.seed, s.frame)
	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "session started",
		logger.Int64("seed", s.seed),
		logger.Int("elements", len(s.frame.Elements)),
		logger.Int("photos", s.report.Counts[model.KindPhoto]),
		logger.Int("placeholders", textures.Placeholders()),
		logger.Bool("detectorReady", s.detectorReady),
	)

	return nil
}

// Stop cancels the loops and waits for them. A frame already executing
// completes; no further frame starts.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.logger.Info(ctx, "stopping session...")
	s.started = false
	cancel, worker := s.cancel, s.worker
	workerRunning := s.loops && s.detectorReady
	s.mu.Unlock()

	cancel()
	var err error
	if workerRunning {
		err = worker.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return fmt.Errorf("stop timed out: %w", ctx.Err())
	}

	s.mu.Lock()
	if s.mailbox != nil {
		_ = s.mailbox.Close()
	}
	s.mu.Unlock()

	s.logger.Info(ctx, "session stopped")
	return err
}

// IsStarted reports whether the loops are running.
func (s *Session) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Session) runFrames(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval())
	defer ticker.Stop()

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.now()
			dt := float32(now.Sub(last).Seconds())
			last = now

			s.mu.Lock()
			if s.started {
				s.advanceLocked(ctx, dt)
			}
			s.mu.Unlock()
		}
	}
}

// Advance runs one frame of dt seconds and returns the published snapshot.
// The frame loop calls the same step; tests and manual drivers call Advance.
func (s *Session) Advance(ctx context.Context, dt float32) (*repository.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil, ErrSessionNotStarted
	}
	s.advanceLocked(ctx, dt)
	return s.store.Snapshot(ctx)
}

// PollDetection runs one detection attempt outside the detection loop.
func (s *Session) PollDetection(ctx context.Context) (bool, error) {
	s.mu.Lock()
	worker, ready, started := s.worker, s.detectorReady, s.started
	s.mu.Unlock()

	if !started {
		return false, ErrSessionNotStarted
	}
	if !ready {
		return false, nil
	}
	return worker.Poll(ctx), nil
}

func (s *Session) advanceLocked(ctx context.Context, dt float32) {
	start := time.Now()

	for _, d := range s.mailbox.Drain(ctx) {
		s.tracker.Update(d)
	}
	sig := s.tracker.Signal()

	prev := s.frame.Mode
	s.frame = s.stepper.Step(dt, sig, s.frame)
	s.frames++
	s.store.Publish(ctx, s.seed, s.frame)

	if s.frame.Mode != prev {
		s.logger.Debug(ctx, "mode changed",
			logger.String("from", prev.String()),
			logger.String("to", s.frame.Mode.String()),
		)
	}

	metrics.RecordFrameStepped()
	metrics.RecordFrameDelta(float64(dt) * 1000)
	metrics.RecordFrameStepLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.UpdateMode(int(s.frame.Mode), s.frame.Mode.String(), s.frame.Mode != prev)
	metrics.UpdateGesture(sig.Detected, sig.Open)
}

// generateLocked replaces the element set. Live fields restart at the
// assembled pose.
func (s *Session) generateLocked(ctx context.Context, seed int64) {
	start := time.Now()
	elements, report := s.generator.Generate(seed)
	elapsed := time.Since(start)

	s.seed = seed
	s.report = report
	s.frame.Elements = elements

	byKind := make(map[string]int, len(report.Counts))
	for kind, n := range report.Counts {
		byKind[kind.String()] = n
	}
	metrics.RecordLayoutGenerated(float64(elapsed.Nanoseconds())/1e6, byKind, len(report.Fallbacks))

	s.logger.Info(ctx, "layout generated",
		logger.Int64("seed", seed),
		logger.Int("elements", len(elements)),
		logger.Int("fallbacks", len(report.Fallbacks)),
		logger.Duration("took", elapsed),
	)
}

// Regenerate replaces the element set from seed, or from the clock when seed
// is 0. Mode and view carry over.
func (s *Session) Regenerate(ctx context.Context, seed int64) (layout.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return layout.Report{}, ErrSessionNotStarted
	}
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	s.generateLocked(ctx, seed)
	s.store.Publish(ctx, s.seed, s.frame)
	return s.report, nil
}

// Orbit rotates the camera by the given angles in radians.
func (s *Session) Orbit(ctx context.Context, dAzimuth, dPolar float32) (model.ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.ViewState{}, ErrSessionNotStarted
	}
	s.frame = s.stepper.Orbit(s.frame, dAzimuth, dPolar)
	s.store.Publish(ctx, s.seed, s.frame)
	return s.frame.View, nil
}

// PushLandmarks feeds one landmark sample to a push detector. It reports
// false when ts repeats the latest sample.
func (s *Session) PushLandmarks(_ context.Context, ts time.Duration, hands []model.Hand) (bool, error) {
	push, ok := s.source.(*detector.Push)
	if !ok {
		return false, ErrPushUnsupported
	}
	if !s.IsStarted() {
		return false, ErrSessionNotStarted
	}
	return push.Push(ts, hands), nil
}

// AcceptsLandmarks reports whether PushLandmarks can succeed.
func (s *Session) AcceptsLandmarks() bool {
	_, ok := s.source.(*detector.Push)
	return ok
}

// Snapshot returns the latest published frame.
func (s *Session) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Element returns one element of the latest published frame.
func (s *Session) Element(ctx context.Context, id int) (model.Element, error) {
	return s.store.Element(ctx, id)
}

// Report returns the current layout report.
func (s *Session) Report() layout.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Textures returns the preloaded photo textures.
func (s *Session) Textures() *assets.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.textures
}

// GetStats returns session statistics for monitoring.
func (s *Session) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"id":        s.id,
		"started":   s.started,
		"detector":  s.source.Name(),
		"smoothing": s.cfg.Smoothing,
		"elements":  s.generator.Count(),
	}

	if s.started {
		counts := make(map[string]int, len(s.report.Counts))
		for kind, n := range s.report.Counts {
			counts[kind.String()] = n
		}
		mailboxLen := s.mailbox.Len(ctx)

		stats["seed"] = s.seed
		stats["uptimeSeconds"] = s.now().Sub(s.startedAt).Seconds()
		stats["frames"] = s.frames
		stats["mode"] = s.frame.Mode.String()
		stats["gesture"] = s.frame.Signal
		stats["view"] = s.frame.View
		stats["counts"] = counts
		stats["fallbacks"] = len(s.report.Fallbacks)
		stats["detectorReady"] = s.detectorReady
		stats["mailboxLength"] = mailboxLen
		stats["framesSkipped"] = s.gate.Skipped()
		stats["textures"] = s.textures.Len()
		stats["placeholders"] = s.textures.Placeholders()
		stats["snapshotVersion"] = s.store.Version(ctx)

		metrics.UpdateMailboxSize(mailboxLen)
	}

	return stats
}
