package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/evergreen/internal/app"
	"github.com/okian/evergreen/internal/config"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/handsim"
	. "github.com/smartystreets/goconvey/convey"
)

func testConfig(detector string) *config.Config {
	cfg := config.New()
	cfg.ElementCount = 120
	cfg.Seed = 7
	cfg.Detector = detector
	return cfg
}

func newManualSession(t *testing.T, detector string) *service.Session {
	t.Helper()
	sess, err := service.New(testConfig(detector), service.WithLoops(false))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func TestSessionLifecycle(t *testing.T) {
	Convey("Given a session that has not started", t, func() {
		ctx := context.Background()
		sess := newManualSession(t, config.DetectorPush)

		Convey("Operations should report it", func() {
			_, err := sess.Advance(ctx, 0.016)
			So(errors.Is(err, service.ErrSessionNotStarted), ShouldBeTrue)

			_, err = sess.Regenerate(ctx, 1)
			So(errors.Is(err, service.ErrSessionNotStarted), ShouldBeTrue)

			_, err = sess.Orbit(ctx, 0.1, 0)
			So(errors.Is(err, service.ErrSessionNotStarted), ShouldBeTrue)

			_, err = sess.PushLandmarks(ctx, time.Second, nil)
			So(errors.Is(err, service.ErrSessionNotStarted), ShouldBeTrue)

			So(sess.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When started", func() {
			So(sess.Start(ctx), ShouldBeNil)
			defer sess.Stop(ctx) //nolint:errcheck // test cleanup

			Convey("Then the first frame should be published at the assembled pose", func() {
				snap, err := sess.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(snap.Seed, ShouldEqual, 7)
				So(snap.Frame.Mode, ShouldEqual, model.ModeAssembled)
				So(len(snap.Frame.Elements), ShouldEqual, 120)
				for _, e := range snap.Frame.Elements {
					So(e.LivePosition, ShouldResemble, e.AssembledPosition)
				}
			})

			Convey("Then starting again should be a no-op", func() {
				So(sess.Start(ctx), ShouldBeNil)
				So(sess.IsStarted(), ShouldBeTrue)
			})

			Convey("Then stats should describe the session", func() {
				stats := sess.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["id"], ShouldEqual, sess.ID())
				So(stats["detector"], ShouldEqual, "push")
				So(stats["detectorReady"], ShouldEqual, true)
				So(stats["seed"], ShouldEqual, int64(7))
			})

			Convey("Then stopping should end the session", func() {
				So(sess.Stop(ctx), ShouldBeNil)
				So(sess.IsStarted(), ShouldBeFalse)
				So(sess.Stop(ctx), ShouldBeNil)
			})
		})
	})
}

func TestSessionGesture(t *testing.T) {
	Convey("Given a started session fed by pushed landmarks", t, func() {
		ctx := context.Background()
		sess := newManualSession(t, config.DetectorPush)
		So(sess.Start(ctx), ShouldBeNil)
		defer sess.Stop(ctx) //nolint:errcheck // test cleanup

		script := handsim.NewScript(handsim.WithJitter(0))

		Convey("When an open hand is pushed and detected", func() {
			accepted, err := sess.PushLandmarks(ctx, time.Second, script.Pose(time.Second, true))
			So(err, ShouldBeNil)
			So(accepted, ShouldBeTrue)

			posted, err := sess.PollDetection(ctx)
			So(err, ShouldBeNil)
			So(posted, ShouldBeTrue)

			snap, err := sess.Advance(ctx, 0.05)
			So(err, ShouldBeNil)

			Convey("Then the scene should unleash", func() {
				So(snap.Frame.Signal.Detected, ShouldBeTrue)
				So(snap.Frame.Signal.Open, ShouldBeTrue)
				So(snap.Frame.Mode, ShouldEqual, model.ModeUnleashed)
			})

			Convey("Then the same frame should not be detected twice", func() {
				again, err := sess.PushLandmarks(ctx, time.Second, script.Pose(time.Second, true))
				So(err, ShouldBeNil)
				So(again, ShouldBeFalse)

				posted, err := sess.PollDetection(ctx)
				So(err, ShouldBeNil)
				So(posted, ShouldBeFalse)
			})

			Convey("Then a lost hand should keep the mode", func() {
				_, err := sess.PushLandmarks(ctx, 2*time.Second, nil)
				So(err, ShouldBeNil)
				_, err = sess.PollDetection(ctx)
				So(err, ShouldBeNil)

				snap, err := sess.Advance(ctx, 0.05)
				So(err, ShouldBeNil)
				So(snap.Frame.Signal.Detected, ShouldBeFalse)
				So(snap.Frame.Mode, ShouldEqual, model.ModeUnleashed)
			})

			Convey("Then a closed hand should reassemble", func() {
				_, err := sess.PushLandmarks(ctx, 2*time.Second, script.Pose(2*time.Second, false))
				So(err, ShouldBeNil)
				_, err = sess.PollDetection(ctx)
				So(err, ShouldBeNil)

				snap, err := sess.Advance(ctx, 0.05)
				So(err, ShouldBeNil)
				So(snap.Frame.Signal.Detected, ShouldBeTrue)
				So(snap.Frame.Signal.Open, ShouldBeFalse)
				So(snap.Frame.Mode, ShouldEqual, model.ModeAssembled)
			})
		})

		Convey("When many frames pass with the hand open", func() {
			_, err := sess.PushLandmarks(ctx, time.Second, script.Pose(time.Second, true))
			So(err, ShouldBeNil)
			_, err = sess.PollDetection(ctx)
			So(err, ShouldBeNil)

			var first, last model.Element
			for i := range 300 {
				snap, err := sess.Advance(ctx, 1.0/60)
				So(err, ShouldBeNil)
				if i == 0 {
					first = snap.Frame.Elements[60]
				}
				last = snap.Frame.Elements[60]
			}

			Convey("Then elements should approach their unleashed targets", func() {
				before := first.LivePosition.Sub(first.UnleashedPosition).Length()
				after := last.LivePosition.Sub(last.UnleashedPosition).Length()
				So(after, ShouldBeLessThan, before)
				So(after, ShouldBeLessThan, 0.01)
			})
		})
	})
}

func TestSessionWithoutDetector(t *testing.T) {
	Convey("Given a session whose detector cannot initialize", t, func() {
		ctx := context.Background()
		sess := newManualSession(t, config.DetectorNone)

		Convey("Start should still succeed", func() {
			So(sess.Start(ctx), ShouldBeNil)
			defer sess.Stop(ctx) //nolint:errcheck // test cleanup

			So(sess.GetStats()["detectorReady"], ShouldEqual, false)

			posted, err := sess.PollDetection(ctx)
			So(err, ShouldBeNil)
			So(posted, ShouldBeFalse)

			Convey("And frames should idle-rotate in assembled mode", func() {
				before, err := sess.Snapshot(ctx)
				So(err, ShouldBeNil)
				snap, err := sess.Advance(ctx, 0.05)
				So(err, ShouldBeNil)
				So(snap.Frame.Mode, ShouldEqual, model.ModeAssembled)
				So(snap.Frame.Signal.Detected, ShouldBeFalse)
				So(snap.Frame.View.Azimuth, ShouldBeGreaterThan, before.Frame.View.Azimuth)
			})

			Convey("And landmark pushes should be refused", func() {
				So(sess.AcceptsLandmarks(), ShouldBeFalse)
				_, err := sess.PushLandmarks(ctx, time.Second, nil)
				So(errors.Is(err, service.ErrPushUnsupported), ShouldBeTrue)
			})
		})
	})
}

func TestSessionControls(t *testing.T) {
	Convey("Given a started session", t, func() {
		ctx := context.Background()
		sess := newManualSession(t, config.DetectorNone)
		So(sess.Start(ctx), ShouldBeNil)
		defer sess.Stop(ctx) //nolint:errcheck // test cleanup

		Convey("When regenerating with a seed", func() {
			_, err := sess.Advance(ctx, 0.05)
			So(err, ShouldBeNil)
			report, err := sess.Regenerate(ctx, 99)
			So(err, ShouldBeNil)

			Convey("Then the new layout should be published at the assembled pose", func() {
				So(report.Seed, ShouldEqual, 99)
				snap, err := sess.Snapshot(ctx)
				So(err, ShouldBeNil)
				So(snap.Seed, ShouldEqual, 99)
				So(len(snap.Frame.Elements), ShouldEqual, 120)
				for _, e := range snap.Frame.Elements {
					So(e.LivePosition, ShouldResemble, e.AssembledPosition)
				}
				So(sess.Report().Seed, ShouldEqual, 99)
			})
		})

		Convey("When regenerating without a seed", func() {
			report, err := sess.Regenerate(ctx, 0)
			So(err, ShouldBeNil)
			So(report.Seed, ShouldNotEqual, 0)
		})

		Convey("When orbiting", func() {
			before, err := sess.Snapshot(ctx)
			So(err, ShouldBeNil)
			v, err := sess.Orbit(ctx, 0.5, 10)

			Convey("Then the view should rotate and clamp", func() {
				So(err, ShouldBeNil)
				So(v.Azimuth, ShouldAlmostEqual, before.Frame.View.Azimuth+0.5, 1e-4)
				So(v.Polar, ShouldAlmostEqual, 2.6, 1e-4)

				el, err := sess.Element(ctx, 3)
				So(err, ShouldBeNil)
				So(el.ID, ShouldEqual, 3)
			})
		})
	})
}

func TestSessionConfigErrors(t *testing.T) {
	Convey("Given invalid configuration", t, func() {
		cfg := testConfig(config.DetectorPush)
		cfg.ElementCount = 0

		Convey("New should reject it", func() {
			_, err := service.New(cfg)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
