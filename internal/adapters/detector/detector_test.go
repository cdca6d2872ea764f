package detector_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/evergreen/internal/adapters/detector"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/handsim"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestNew(t *testing.T) {
	Convey("Given detector names", t, func() {
		Convey("Known names should build their source", func() {
			for _, name := range []string{detector.NameSynthetic, detector.NamePush, detector.NameNone} {
				src, err := detector.New(name)
				So(err, ShouldBeNil)
				So(src.Name(), ShouldEqual, name)
			}
		})

		Convey("Unknown names should be rejected", func() {
			_, err := detector.New("webcam")
			So(errors.Is(err, detector.ErrUnknownDetector), ShouldBeTrue)
		})
	})
}

func TestNone(t *testing.T) {
	Convey("Given the none source", t, func() {
		src := detector.None{}

		Convey("Init should report the detector unavailable", func() {
			err := src.Init(context.Background())
			So(errors.Is(err, detector.ErrDetectorUnavailable), ShouldBeTrue)
		})

		Convey("There should never be a frame", func() {
			_, ok := src.Frame(context.Background())
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPush(t *testing.T) {
	Convey("Given a push source", t, func() {
		ctx := context.Background()
		p := detector.NewPush()
		So(p.Init(ctx), ShouldBeNil)

		Convey("Before any sample there should be no frame", func() {
			_, ok := p.Frame(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("When a sample is pushed", func() {
			hand := make(model.Hand, 21)
			So(p.Push(40*time.Millisecond, []model.Hand{hand}), ShouldBeTrue)

			Convey("The frame should be its timestamp", func() {
				ts, ok := p.Frame(ctx)
				So(ok, ShouldBeTrue)
				So(ts, ShouldEqual, 40*time.Millisecond)
			})

			Convey("Detect on that frame should return the hands", func() {
				d, err := p.Detect(ctx, 40*time.Millisecond)
				So(err, ShouldBeNil)
				So(d.Fresh, ShouldBeTrue)
				So(len(d.Hands), ShouldEqual, 1)
			})

			Convey("Detect on another frame should have no result", func() {
				d, err := p.Detect(ctx, 10*time.Millisecond)
				So(err, ShouldBeNil)
				So(d.Fresh, ShouldBeFalse)
			})

			Convey("Pushing the same timestamp again should be a duplicate", func() {
				So(p.Push(40*time.Millisecond, nil), ShouldBeFalse)
				pushed, dups := p.Stats()
				So(pushed, ShouldEqual, 1)
				So(dups, ShouldEqual, 1)
			})

			Convey("A sample with no hands should be a fresh empty detection", func() {
				So(p.Push(80*time.Millisecond, nil), ShouldBeTrue)
				d, _ := p.Detect(ctx, 80*time.Millisecond)
				So(d.Fresh, ShouldBeTrue)
				So(d.Hands, ShouldBeEmpty)
			})
		})
	})
}

func TestSynthetic(t *testing.T) {
	Convey("Given a synthetic source on a fake clock", t, func() {
		ctx := context.Background()
		clock := &fakeClock{now: time.Unix(1000, 0)}
		src := detector.NewSynthetic(
			detector.WithVideoFPS(25),
			detector.WithInitDelay(0),
			detector.WithClock(clock.Now),
			detector.WithScript(handsim.NewScript(handsim.WithJitter(0))),
		)

		Convey("Before Init there should be no frame", func() {
			_, ok := src.Frame(ctx)
			So(ok, ShouldBeFalse)
		})

		Convey("After Init", func() {
			So(src.Init(ctx), ShouldBeNil)

			Convey("Frames should be quantized to the video rate", func() {
				clock.Advance(50 * time.Millisecond)
				a, ok := src.Frame(ctx)
				So(ok, ShouldBeTrue)
				So(a, ShouldEqual, 40*time.Millisecond)

				clock.Advance(20 * time.Millisecond)
				b, _ := src.Frame(ctx)
				So(b, ShouldEqual, a)

				clock.Advance(20 * time.Millisecond)
				c, _ := src.Frame(ctx)
				So(c, ShouldEqual, 80*time.Millisecond)
			})

			Convey("Detect should return one fresh hand of full length", func() {
				d, err := src.Detect(ctx, 40*time.Millisecond)
				So(err, ShouldBeNil)
				So(d.Fresh, ShouldBeTrue)
				So(d.Timestamp, ShouldEqual, 40*time.Millisecond)
				So(len(d.Hands), ShouldEqual, 1)
				So(len(d.Hands[0]), ShouldEqual, 21)
			})
		})

		Convey("Init with a cancelled context should fail", func() {
			slow := detector.NewSynthetic(detector.WithInitDelay(time.Hour))
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := slow.Init(cctx)
			So(errors.Is(err, detector.ErrDetectorUnavailable), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
