package framegate

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGate(t *testing.T) {
	Convey("Given a frame gate", t, func() {
		ctx := context.Background()
		g := New()

		Convey("When a timestamp is admitted", func() {
			So(g.Admit(ctx, 33*time.Millisecond), ShouldBeTrue)

			Convey("Then the same timestamp should be skipped", func() {
				So(g.Admit(ctx, 33*time.Millisecond), ShouldBeFalse)
				So(g.Skipped(), ShouldEqual, 1)
			})

			Convey("Then a later timestamp should be admitted", func() {
				So(g.Admit(ctx, 66*time.Millisecond), ShouldBeTrue)
			})

			Convey("Then a rewound timestamp should start a new stream", func() {
				So(g.Admit(ctx, 0), ShouldBeTrue)
			})

			Convey("And when it is released", func() {
				g.Release(ctx, 33*time.Millisecond)

				Convey("Then it should be admitted again", func() {
					So(g.Admit(ctx, 33*time.Millisecond), ShouldBeTrue)
				})
			})

			Convey("And when a different timestamp is released", func() {
				g.Release(ctx, 99*time.Millisecond)

				Convey("Then the gate should be unchanged", func() {
					So(g.Admit(ctx, 33*time.Millisecond), ShouldBeFalse)
				})
			})
		})

		Convey("When rewinding is disabled", func() {
			g := New(WithRewind(false))
			So(g.Admit(ctx, 100*time.Millisecond), ShouldBeTrue)

			Convey("Then older timestamps should be skipped", func() {
				So(g.Admit(ctx, 50*time.Millisecond), ShouldBeFalse)
				So(g.Admit(ctx, 150*time.Millisecond), ShouldBeTrue)
			})
		})

		Convey("When many goroutines race on one timestamp", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			admitted := 0
			for range 32 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if g.Admit(ctx, time.Second) {
						mu.Lock()
						admitted++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one should win", func() {
				So(admitted, ShouldEqual, 1)
				So(g.Skipped(), ShouldEqual, 31)
			})
		})
	})
}
