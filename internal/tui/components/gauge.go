package components

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/estatevault/vaultmeter/internal/domain"
	meter "github.com/estatevault/vaultmeter/internal/progress"
	"github.com/estatevault/vaultmeter/internal/tui/styles"
)

// GaugeKind selects how a gauge draws its arc
type GaugeKind int

const (
	GaugeRing GaugeKind = iota
	GaugeBar
)

// FrameMsg is one refresh for a gauge. Gen ties it to the run that asked.
type FrameMsg struct {
	GaugeID int
	Gen     uint64
	Time    time.Time
}

// GaugeOptions configures a Gauge
type GaugeOptions struct {
	ID        int
	Kind      GaugeKind
	Title     string
	Duration  time.Duration
	Radius    float64
	FrameRate int
	Initial   float64
	Logger    *slog.Logger
	Clock     meter.Clock
}

// gaugeSurface is the render target the indicator writes into
type gaugeSurface struct {
	kind     GaugeKind
	offset   float64
	label    string
	level    meter.Level
	attached bool
}

func (s *gaugeSurface) SetArcOffset(offset float64) { s.offset = offset }
func (s *gaugeSurface) SetLabelText(text string) { s.label = text }
func (s *gaugeSurface) SetLevelClass(level meter.Level) { s.level = level }
func (s *gaugeSurface) Attached() bool { return s.attached }

func (s *gaugeSurface) Validate() error {
	switch s.kind {
	case GaugeRing, GaugeBar:
		return nil
	default:
		return fmt.Errorf("gauge kind %d has no arc: %w", s.kind, domain.ErrMissingElement)
	}
}

// frameQueue collects frame requests made during one Update
type frameQueue struct {
	gen     uint64
	pending bool
}

func (q *frameQueue) RequestFrame(gen uint64) {
	q.gen = gen
	q.pending = true
}

// Gauge hosts one progress indicator inside the Bubble Tea loop
type Gauge struct {
	id       int
	title    string
	interval time.Duration
	width    int

	surface   *gaugeSurface
	queue     *frameQueue
	indicator *meter.Indicator
	bar       progress.Model
}

// NewGauge creates a gauge. Any initial value is animated once the program
// runs the command returned by Init.
func NewGauge(opts GaugeOptions) *Gauge {
	fps := opts.FrameRate
	if fps <= 0 {
		fps = meter.DefaultFrameRate
	}

	g := &Gauge{
		id:       opts.ID,
		title:    opts.Title,
		interval: time.Second / time.Duration(fps),
		width:    30,
		surface:  &gaugeSurface{kind: opts.Kind, attached: true},
		queue:    &frameQueue{},
		bar: progress.New(
			progress.WithSolidFill(string(styles.Red)),
			progress.WithFillCharacters('█', '░'),
			progress.WithoutPercentage(),
		),
	}
	g.indicator = meter.New(g.surface, g.queue, meter.Options{
		Duration:     opts.Duration,
		Radius:       opts.Radius,
		InitialValue: opts.Initial,
		Clock:        opts.Clock,
		Logger:       opts.Logger,
	})
	return g
}

// ID returns the gauge identifier carried by its frame messages
func (g *Gauge) ID() int { return g.id }

// Indicator exposes the underlying animation driver
func (g *Gauge) Indicator() *meter.Indicator { return g.indicator }

// Init flushes frames requested during construction
func (g *Gauge) Init() tea.Cmd {
	return g.flush()
}

// SetPercent starts a run toward v and returns the first frame command
func (g *Gauge) SetPercent(v float64) tea.Cmd {
	g.indicator.SetProgress(v)
	return g.flush()
}

// UpdateProgress is SetPercent for callers that recompute completion
func (g *Gauge) UpdateProgress(v float64) tea.Cmd {
	return g.SetPercent(v)
}

// Update handles frame messages addressed to this gauge
func (g *Gauge) Update(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(FrameMsg)
	if !ok || frame.GaugeID != g.id {
		return nil
	}
	g.indicator.Frame(frame.Gen, frame.Time)
	return g.flush()
}

// flush turns the latest pending request into a tick
func (g *Gauge) flush() tea.Cmd {
	if !g.queue.pending {
		return nil
	}
	g.queue.pending = false
	id, gen := g.id, g.queue.gen
	return tea.Tick(g.interval, func(t time.Time) tea.Msg {
		return FrameMsg{GaugeID: id, Gen: gen, Time: t}
	})
}

// Detach removes the gauge from the screen; pending frames stop writing
func (g *Gauge) Detach() {
	g.surface.attached = false
}

// SetWidth sets the bar width
func (g *Gauge) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	g.width = w
}

// Label returns the text currently shown
func (g *Gauge) Label() string { return g.surface.label }

// Level returns the level class currently shown
func (g *Gauge) Level() meter.Level { return g.surface.level }

// Fraction returns the drawn share of the arc in [0, 1]
func (g *Gauge) Fraction() float64 {
	c := g.indicator.Circumference()
	if c <= 0 {
		return 0
	}
	f := (c - g.surface.offset) / c
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// View renders the gauge
func (g *Gauge) View() string {
	if !g.surface.attached {
		return ""
	}

	levelStyle := styles.LevelStyle(g.surface.level)
	label := styles.GaugeLabelStyle.Render(g.surface.label)
	class := levelStyle.Render(g.surface.level.String())

	var body string
	switch g.surface.kind {
	case GaugeBar:
		g.bar.Width = g.width
		g.bar.FullColor = string(styles.LevelColor(g.surface.level))
		body = lipgloss.JoinHorizontal(lipgloss.Center, g.bar.ViewAs(g.Fraction()), " ", label)
	default:
		body = RenderRing(g.Fraction(), label, levelStyle)
	}

	parts := []string{}
	if g.title != "" {
		parts = append(parts, styles.SubtitleStyle.Render(g.title))
	}
	parts = append(parts, body, class)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
