// Package tui previews the scene in a terminal. Keys stand in for the
// camera: arrows orbit, space opens and closes the hand, h shows or hides it.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cogentcore.org/core/math32"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/okian/evergreen/internal/adapters/assets"
	"github.com/okian/evergreen/internal/adapters/render"
	"github.com/okian/evergreen/internal/adapters/repository"
	"github.com/okian/evergreen/internal/domain/layout"
	"github.com/okian/evergreen/internal/domain/model"
	"github.com/okian/evergreen/internal/handsim"
)

// Preview defaults.
const (
	defaultInterval = time.Second / 30
	defaultFOV      = 45
	orbitStep       = 0.15
	polarStep       = 0.1
	maxShade        = 0.6
)

// Session is the part of the scene session the preview drives.
type Session interface {
	Snapshot(ctx context.Context) (*repository.Snapshot, error)
	Orbit(ctx context.Context, dAzimuth, dPolar float32) (model.ViewState, error)
	Regenerate(ctx context.Context, seed int64) (layout.Report, error)
	PushLandmarks(ctx context.Context, ts time.Duration, hands []model.Hand) (bool, error)
	AcceptsLandmarks() bool
}

type tickMsg time.Time

// Model is the bubbletea model for the preview.
type Model struct {
	ctx     context.Context //nolint:containedctx // bubbletea callbacks carry no context
	session Session
	palette assets.Palette
	script  *handsim.Script

	interval time.Duration
	fov      float32
	elapsed  time.Duration
	open     bool
	present  bool

	width, height int
	snap          *repository.Snapshot
	err           error
}

// New creates a preview over session.
func New(ctx context.Context, session Session, palette assets.Palette, opts ...Option) *Model {
	m := &Model{
		ctx:      ctx,
		session:  session,
		palette:  palette,
		script:   handsim.NewScript(),
		interval: defaultInterval,
		fov:      math32.DegToRad(defaultFOV),
		present:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run shows the preview until the user quits or ctx is done.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input and ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "left":
		_, m.err = m.session.Orbit(m.ctx, -orbitStep, 0)
	case "right":
		_, m.err = m.session.Orbit(m.ctx, orbitStep, 0)
	case "up":
		_, m.err = m.session.Orbit(m.ctx, 0, -polarStep)
	case "down":
		_, m.err = m.session.Orbit(m.ctx, 0, polarStep)
	case " ":
		m.open = !m.open
	case "h":
		m.present = !m.present
	case "r":
		_, m.err = m.session.Regenerate(m.ctx, 0)
	}
	return nil
}

// step pushes the current hand pose, then picks up the latest frame.
func (m *Model) step() {
	if m.session.AcceptsLandmarks() {
		hands := []model.Hand{}
		if m.present {
			hands = m.script.Pose(m.elapsed, m.open)
		}
		if _, err := m.session.PushLandmarks(m.ctx, m.elapsed, hands); err != nil {
			m.err = err
		}
	}
	m.elapsed += m.interval

	snap, err := m.session.Snapshot(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e4eadf")).Background(lipgloss.Color("#1a2a20"))
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6c453"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e06c5a"))
)

type cell struct {
	glyph rune
	depth float32
	color colorful.Color
	set   bool
}

// View draws the frame as a character grid with a status line.
func (m *Model) View() string {
	if m.width == 0 || m.height < 3 {
		return "starting preview..."
	}
	if m.snap == nil {
		return "waiting for the first frame..."
	}

	rows := m.height - 2
	grid := m.project(rows)

	var b strings.Builder
	for y := range rows {
		for x := range m.width {
			c := grid[y*m.width+x]
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.color.Hex())).Render(string(c.glyph)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.status())
	if m.err != nil {
		b.WriteByte('\n')
		b.WriteString(errStyle.Render(m.err.Error()))
	}
	return b.String()
}

// project rasterizes elements into rows x width cells. Terminal cells are
// about twice as tall as wide, so the projection runs at double height.
func (m *Model) project(rows int) []cell {
	f := m.snap.Frame
	proj := render.NewProjector(f.View, m.width, rows*2, m.fov)
	grid := make([]cell, rows*m.width)

	nearest, farthest := math32.Infinity, float32(0)
	type hit struct {
		idx   int
		depth float32
		el    *model.Element
	}
	hits := make([]hit, 0, len(f.Elements))
	for i := range f.Elements {
		e := &f.Elements[i]
		px, py, depth, ok := proj.Project(e.LivePosition)
		if !ok {
			continue
		}
		x, y := int(px), int(py/2)
		if x < 0 || x >= m.width || y < 0 || y >= rows {
			continue
		}
		hits = append(hits, hit{idx: y*m.width + x, depth: depth, el: e})
		nearest = math32.Min(nearest, depth)
		farthest = math32.Max(farthest, depth)
	}

	span := farthest - nearest
	for _, h := range hits {
		c := &grid[h.idx]
		if c.set && c.depth <= h.depth {
			continue
		}
		shade := float64(0)
		if span > 0 {
			shade = float64((h.depth-nearest)/span) * maxShade
		}
		col, _ := colorful.MakeColor(assets.Shade(m.palette.Of(h.el), shade))
		*c = cell{glyph: glyph(h.el.Kind), depth: h.depth, color: col, set: true}
	}
	return grid
}

func glyph(k model.Kind) rune {
	switch k {
	case model.KindLight:
		return '*'
	case model.KindPhoto:
		return '#'
	default:
		return 'o'
	}
}

func (m *Model) status() string {
	f := m.snap.Frame
	hand := "hidden"
	if m.present {
		hand = "closed"
		if m.open {
			hand = "open"
		}
	}
	if !m.session.AcceptsLandmarks() {
		hand = "scripted"
	}
	line := fmt.Sprintf(" %s  hand:%s  az:%.2f polar:%.2f dist:%.1f  v%d  [arrows] orbit [space] open [h] hand [r] layout [q] quit",
		modeStyle.Render(f.Mode.String()), hand, f.View.Azimuth, f.View.Polar, f.View.Distance, m.snap.Version)
	return statusStyle.Width(m.width).MaxHeight(1).Render(line)
}
