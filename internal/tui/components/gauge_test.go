package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	meter "github.com/estatevault/vaultmeter/internal/progress"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func newTestGauge(kind GaugeKind) (*Gauge, *stepClock) {
	clock := &stepClock{now: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)}
	g := NewGauge(GaugeOptions{
		ID:       7,
		Kind:     kind,
		Title:    "Vault",
		Duration: time.Second,
		Clock:    clock,
	})
	return g, clock
}

func TestGaugeStartsEmpty(t *testing.T) {
	g, _ := newTestGauge(GaugeRing)

	if g.Label() != "0%" {
		t.Errorf("label = %q, want 0%%", g.Label())
	}
	if g.Fraction() != 0 {
		t.Errorf("fraction = %v, want 0", g.Fraction())
	}
	if g.Init() != nil {
		t.Error("no frame expected without an initial value")
	}
}

func TestGaugeSettlesOnFrame(t *testing.T) {
	g, clock := newTestGauge(GaugeBar)

	if cmd := g.SetPercent(73); cmd == nil {
		t.Fatal("SetPercent should schedule a frame")
	}
	gen := g.Indicator().Generation()

	cmd := g.Update(FrameMsg{GaugeID: g.ID(), Gen: gen, Time: clock.now.Add(400 * time.Millisecond)})
	if cmd == nil {
		t.Error("mid-run frame should schedule another")
	}
	if g.Fraction() <= 0 || g.Fraction() >= 0.73 {
		t.Errorf("mid-run fraction = %v, want between 0 and 0.73", g.Fraction())
	}

	cmd = g.Update(FrameMsg{GaugeID: g.ID(), Gen: gen, Time: clock.now.Add(time.Second)})
	if cmd != nil {
		t.Error("final frame should not schedule another")
	}
	if g.Label() != "73%" {
		t.Errorf("label = %q, want 73%%", g.Label())
	}
	if g.Level() != meter.LevelHigh {
		t.Errorf("level = %v, want high", g.Level())
	}
	if got := g.Fraction(); got < 0.7299 || got > 0.7301 {
		t.Errorf("fraction = %v, want 0.73", got)
	}
}

func TestGaugeIgnoresOtherGaugesAndStaleFrames(t *testing.T) {
	g, clock := newTestGauge(GaugeRing)

	g.SetPercent(30)
	stale := g.Indicator().Generation()
	g.SetPercent(90)

	if cmd := g.Update(FrameMsg{GaugeID: 99, Gen: g.Indicator().Generation(), Time: clock.now}); cmd != nil {
		t.Error("frame for another gauge must be ignored")
	}
	if cmd := g.Update(FrameMsg{GaugeID: g.ID(), Gen: stale, Time: clock.now.Add(2 * time.Second)}); cmd != nil {
		t.Error("stale frame must not reschedule")
	}
	if g.Label() != "0%" {
		t.Errorf("stale frame wrote label %q", g.Label())
	}

	g.Update(FrameMsg{GaugeID: g.ID(), Gen: g.Indicator().Generation(), Time: clock.now.Add(2 * time.Second)})
	if g.Label() != "90%" {
		t.Errorf("label = %q, want 90%%", g.Label())
	}
}

func TestGaugeFrameCommandCarriesGeneration(t *testing.T) {
	g, _ := newTestGauge(GaugeRing)

	cmd := g.SetPercent(50)
	msg, ok := cmd().(FrameMsg)
	if !ok {
		t.Fatalf("command produced %T, want FrameMsg", cmd())
	}
	if msg.GaugeID != g.ID() || msg.Gen != g.Indicator().Generation() {
		t.Errorf("msg = %+v", msg)
	}
}

func TestGaugeDetachStopsWrites(t *testing.T) {
	g, clock := newTestGauge(GaugeRing)

	g.SetPercent(60)
	g.Detach()
	if cmd := g.Update(FrameMsg{GaugeID: g.ID(), Gen: g.Indicator().Generation(), Time: clock.now.Add(time.Second)}); cmd != nil {
		t.Error("detached gauge must not schedule frames")
	}
	if g.Label() != "0%" {
		t.Errorf("label = %q after detach, want 0%%", g.Label())
	}
	if g.View() != "" {
		t.Error("detached gauge should render nothing")
	}
}

func TestGaugeUnknownKindIsNoOp(t *testing.T) {
	g := NewGauge(GaugeOptions{ID: 1, Kind: GaugeKind(42)})

	if g.Indicator().Enabled() {
		t.Error("gauge without an arc should disable its indicator")
	}
	if cmd := g.SetPercent(50); cmd != nil {
		t.Error("disabled gauge must not schedule frames")
	}
}

func TestGaugeViewShowsLabelAndLevel(t *testing.T) {
	for _, kind := range []GaugeKind{GaugeRing, GaugeBar} {
		g, clock := newTestGauge(kind)
		g.SetPercent(100)
		g.Update(FrameMsg{GaugeID: g.ID(), Gen: g.Indicator().Generation(), Time: clock.now.Add(time.Second)})

		view := g.View()
		for _, want := range []string{"Vault", "100%", "complete"} {
			if !strings.Contains(view, want) {
				t.Errorf("kind %d view missing %q:\n%s", kind, want, view)
			}
		}
	}
}

func TestRenderRingFraction(t *testing.T) {
	plain := lipgloss.NewStyle()

	empty := RenderRing(0, "0%", plain)
	if strings.Contains(empty, ringFullChar) {
		t.Error("empty ring should have no lit cells")
	}

	full := RenderRing(1, "100%", plain)
	if strings.Contains(full, ringEmptyChar) {
		t.Error("full ring should have no unlit cells")
	}

	if lines := strings.Split(full, "\n"); len(lines) != ringRows {
		t.Errorf("ring has %d rows, want %d", len(lines), ringRows)
	}
}

func TestRingGridMonotonic(t *testing.T) {
	prev := 0
	for i := 0; i <= 20; i++ {
		grid := ringGrid(float64(i) / 20)
		lit := 0
		for _, row := range grid {
			for _, cell := range row {
				if cell.lit {
					lit++
				}
			}
		}
		if lit < prev {
			t.Fatalf("lit cells decreased at step %d: %d < %d", i, lit, prev)
		}
		prev = lit
	}
}
