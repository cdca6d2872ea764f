package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okian/evergreen/internal/adapters/assets"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/internal/adapters/tui"
	"github.com/okian/evergreen/internal/domain/layout"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/domain/scene"
	. "github.com/smartystreets/goconvey/convey"
)

type pushed struct {
	ts    time.Duration
	hands []model.Hand
}

type fakeSession struct {
	store   *repository.SnapshotStore
	push    bool
	pushes  []pushed
	orbits  [][2]float32
	regens  int
	snapErr error
}

func newFakeSession(push bool) *fakeSession {
	s := &fakeSession{store: repository.NewSnapshotStore(), push: push}
	s.store.Publish(context.Background(), 1, scene.Frame{
		Mode: model.ModeAssembled,
		View: model.ViewState{Polar: math32.Pi / 2, Distance: 30},
		Elements: []model.Element{
			{ID: 0, Kind: model.KindOrnament, Color: model.ColorPrimary, Scale: 1},
			{ID: 1, Kind: model.KindLight, Scale: 1, LivePosition: math32.Vec3(0, 5, 0)},
		},
	})
	return s
}

func (s *fakeSession) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.store.Snapshot(ctx)
}

func (s *fakeSession) Orbit(_ context.Context, dAzimuth, dPolar float32) (model.ViewState, error) {
	s.orbits = append(s.orbits, [2]float32{dAzimuth, dPolar})
	return model.ViewState{}, nil
}

func (s *fakeSession) Regenerate(context.Context, int64) (layout.Report, error) {
	s.regens++
	return layout.Report{}, nil
}

func (s *fakeSession) PushLandmarks(_ context.Context, ts time.Duration, hands []model.Hand) (bool, error) {
	s.pushes = append(s.pushes, pushed{ts: ts, hands: hands})
	return true, nil
}

func (s *fakeSession) AcceptsLandmarks() bool { return s.push }

func testPalette() assets.Palette {
	p, err := assets.ParsePalette("#c0392b", "#f6c453", "#2e8b57", "#fff3c4", "#8a8a8a")
	So(err, ShouldBeNil)
	return p
}

// tick runs one tick through Update by executing the command Init returns.
func tick(m *tui.Model) {
	msg := m.Init()()
	_, cmd := m.Update(msg)
	So(cmd, ShouldNotBeNil)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPreview(t *testing.T) {
	Convey("Given a preview over a push session", t, func() {
		ctx := context.Background()
		session := newFakeSession(true)
		m := tui.New(ctx, session, testPalette(), tui.WithTickInterval(time.Millisecond))

		Convey("Then it should wait for a window size", func() {
			So(m.View(), ShouldEqual, "starting preview...")
		})

		Convey("When a tick arrives", func() {
			m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
			tick(m)

			Convey("Then a closed hand should be pushed at time zero", func() {
				So(len(session.pushes), ShouldEqual, 1)
				So(session.pushes[0].ts, ShouldEqual, time.Duration(0))
				So(len(session.pushes[0].hands), ShouldEqual, 1)
				So(len(session.pushes[0].hands[0]), ShouldEqual, 21)
			})

			Convey("Then the frame should be drawn with a status line", func() {
				out := m.View()
				lines := strings.Split(out, "\n")
				So(len(lines), ShouldEqual, 23)
				So(out, ShouldContainSubstring, "o")
				So(out, ShouldContainSubstring, "*")
				So(out, ShouldContainSubstring, "assembled")
			})

			Convey("And the hand is hidden before the next tick", func() {
				m.Update(key("h"))
				tick(m)

				Convey("Then an empty sample should be pushed at the next frame", func() {
					So(len(session.pushes), ShouldEqual, 2)
					So(session.pushes[1].ts, ShouldEqual, time.Millisecond)
					So(session.pushes[1].hands, ShouldBeEmpty)
				})
			})
		})

		Convey("When keys are pressed", func() {
			m.Update(key("left"))
			m.Update(key("up"))
			m.Update(key("r"))

			Convey("Then the session should be driven", func() {
				So(session.orbits, ShouldResemble, [][2]float32{{-0.15, 0}, {0, -0.1}})
				So(session.regens, ShouldEqual, 1)
			})
		})

		Convey("When quit is pressed", func() {
			_, cmd := m.Update(key("q"))
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})

			_, cmd = m.Update(key("ctrl+c"))
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})
	})

	Convey("Given a preview over a scripted session", t, func() {
		session := newFakeSession(false)
		m := tui.New(context.Background(), session, testPalette())
		m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

		Convey("When ticks arrive", func() {
			tick(m)

			Convey("Then nothing should be pushed", func() {
				So(session.pushes, ShouldBeEmpty)
				So(m.View(), ShouldContainSubstring, "scripted")
			})
		})

		Convey("When the snapshot fails", func() {
			session.snapErr = errors.New("no frame")
			tick(m)

			Convey("Then the view should keep waiting", func() {
				So(m.View(), ShouldEqual, "waiting for the first frame...")
			})
		})
	})
}
