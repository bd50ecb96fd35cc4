package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/estatevault/vaultmeter/internal/progress"
)

// statusLine is a render target that redraws one terminal line in place
type statusLine struct {
	w     io.Writer
	width int

	circ     float64
	fraction float64
	label    string
	level    progress.Level
	drawn    bool
}

// newStatusLine draws a bar for a ring of the given radius; offsets are
// converted back to a filled fraction of the circumference.
func newStatusLine(w io.Writer, width int, radius float64) *statusLine {
	if radius <= 0 {
		radius = progress.DefaultRadius
	}
	return &statusLine{w: w, width: width, circ: progress.Circumference(radius), label: "0%"}
}

func (s *statusLine) SetArcOffset(offset float64) {
	s.fraction = 1 - offset/s.circ
}

func (s *statusLine) SetLabelText(text string) {
	s.label = text
}

// SetLevelClass is the last write of every frame, so it also redraws.
func (s *statusLine) SetLevelClass(level progress.Level) {
	s.level = level
	s.draw()
}

func (s *statusLine) barWidth() int {
	// "[" + bar + "] " + "100% complete"
	w := s.width - 17
	if w > 50 {
		w = 50
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (s *statusLine) render() string {
	bw := s.barWidth()
	filled := int(s.fraction*float64(bw) + 0.5)
	if filled > bw {
		filled = bw
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", bw-filled)
	return fmt.Sprintf("[%s] %4s %-8s", bar, s.label, s.level)
}

func (s *statusLine) draw() {
	fmt.Fprint(s.w, "\r"+s.render())
	s.drawn = true
}

// Finish moves the cursor past the status line.
func (s *statusLine) Finish() {
	if s.drawn {
		fmt.Fprintln(s.w)
	}
}
