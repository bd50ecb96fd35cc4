package progress

import (
	"log/slog"
	"sync"
	"time"
)

// Defaults applied by New when Options leaves a field unset.
const (
	DefaultDuration = 1200 * time.Millisecond
	DefaultRadius   = 54.0
)

// RenderTarget receives the three outputs of every animation frame.
type RenderTarget interface {
	SetArcOffset(offset float64)
	SetLabelText(text string)
	SetLevelClass(level Level)
}

// Validator is implemented by targets that can report missing sub-elements
// at construction time.
type Validator interface {
	Validate() error
}

// Attacher is implemented by targets that can be removed from their host.
// Frames stop writing once Attached reports false.
type Attacher interface {
	Attached() bool
}

// Scheduler asks the host for a frame callback. The host answers by calling
// Indicator.Frame with the same generation on its next refresh.
type Scheduler interface {
	RequestFrame(gen uint64)
}

// Clock supplies the current time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Options configures an Indicator.
type Options struct {
	Duration     time.Duration
	Radius       float64
	InitialValue float64
	Clock        Clock
	Logger       *slog.Logger
}

// run is the state of one animation toward a target.
type run struct {
	gen    uint64
	start  time.Time
	from   float64
	target float64
	done   bool
}

// Indicator animates a ring/bar gauge toward a target percentage.
//
// Each SetProgress starts a new run tagged with a fresh generation. Frames
// carrying an older generation are dropped, so only the latest run writes.
type Indicator struct {
	mu sync.Mutex

	target        RenderTarget
	sched         Scheduler
	clock         Clock
	logger        *slog.Logger
	duration      time.Duration
	circumference float64

	enabled   bool
	gen       uint64
	displayed float64
	cur       run
}

// New builds an Indicator writing to target. A nil target or scheduler, or a
// target whose Validate fails, yields a disabled indicator: the problem is
// logged and every later call is a no-op.
func New(target RenderTarget, sched Scheduler, opts Options) *Indicator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = wallClock{}
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}

	ind := &Indicator{
		target:        target,
		sched:         sched,
		clock:         clock,
		logger:        logger,
		duration:      duration,
		circumference: Circumference(radius),
		cur:           run{done: true},
	}

	if target == nil || sched == nil {
		logger.Warn("progress indicator disabled", "reason", "nil render target or scheduler")
		return ind
	}
	if v, ok := target.(Validator); ok {
		if err := v.Validate(); err != nil {
			logger.Warn("progress indicator disabled", "error", err)
			return ind
		}
	}

	ind.enabled = true
	ind.writeLocked(0, LevelOf(0))

	if initial := Clamp(opts.InitialValue); initial > 0 {
		ind.SetProgress(initial)
	}
	return ind
}

// SetProgress starts a run from the displayed value toward target,
// superseding any run in flight.
func (ind *Indicator) SetProgress(target float64) {
	ind.mu.Lock()
	if !ind.enabled {
		ind.mu.Unlock()
		return
	}
	if !ind.attachedLocked() {
		ind.cur.done = true
		ind.mu.Unlock()
		return
	}

	target = Clamp(target)
	ind.gen++
	ind.cur = run{
		gen:    ind.gen,
		start:  ind.clock.Now(),
		from:   ind.displayed,
		target: target,
	}
	ind.target.SetLevelClass(LevelOf(target))
	gen := ind.gen
	ind.mu.Unlock()

	ind.sched.RequestFrame(gen)
}

// UpdateProgress is the entry point for other components that recompute the
// completion percentage.
func (ind *Indicator) UpdateProgress(v float64) {
	ind.SetProgress(v)
}

// Frame advances the run tagged gen to time now. It reports whether another
// frame was requested.
func (ind *Indicator) Frame(gen uint64, now time.Time) bool {
	ind.mu.Lock()
	if !ind.enabled || gen != ind.gen || ind.cur.done {
		ind.mu.Unlock()
		return false
	}
	if !ind.attachedLocked() {
		ind.cur.done = true
		ind.logger.Debug("progress target detached, stopping run", "gen", gen)
		ind.mu.Unlock()
		return false
	}

	elapsed := now.Sub(ind.cur.start)
	level := LevelOf(ind.cur.target)
	if elapsed >= ind.duration {
		ind.cur.done = true
		ind.writeLocked(ind.cur.target, level)
		ind.mu.Unlock()
		return false
	}

	t := 0.0
	if elapsed > 0 {
		t = float64(elapsed) / float64(ind.duration)
	}
	ind.writeLocked(interpolate(ind.cur.from, ind.cur.target, t), level)
	ind.mu.Unlock()

	ind.sched.RequestFrame(gen)
	return true
}

// writeLocked records v as displayed and pushes all three outputs.
func (ind *Indicator) writeLocked(v float64, level Level) {
	ind.displayed = v
	ind.target.SetArcOffset(ArcOffset(ind.circumference, v))
	ind.target.SetLabelText(FormatLabel(v))
	ind.target.SetLevelClass(level)
}

func (ind *Indicator) attachedLocked() bool {
	if a, ok := ind.target.(Attacher); ok {
		return a.Attached()
	}
	return true
}

// Enabled reports whether construction succeeded.
func (ind *Indicator) Enabled() bool {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.enabled
}

// Active reports whether a run is still scheduling frames.
func (ind *Indicator) Active() bool {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.enabled && !ind.cur.done
}

// Displayed returns the value most recently written to the target.
func (ind *Indicator) Displayed() float64 {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.displayed
}

// Target returns the target of the current (or last) run.
func (ind *Indicator) Target() float64 {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.cur.target
}

// Level returns the classification of the current target.
func (ind *Indicator) Level() Level {
	return LevelOf(ind.Target())
}

// Generation returns the token of the current run.
func (ind *Indicator) Generation() uint64 {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	return ind.gen
}

// Circumference returns the ring stroke length used for arc offsets.
func (ind *Indicator) Circumference() float64 {
	return ind.circumference
}

// Duration returns the configured animation length.
func (ind *Indicator) Duration() time.Duration {
	return ind.duration
}
