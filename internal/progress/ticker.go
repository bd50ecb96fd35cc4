package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultFrameRate is the refresh rate used by TickerHost when none is given.
const DefaultFrameRate = 60

// FrameReceiver is the callback side of a Scheduler. *Indicator implements it.
type FrameReceiver interface {
	Frame(gen uint64, now time.Time) bool
}

// TickerHost drives frames for indicators outside of an event-loop UI. A
// single goroutine owns the ticker and delivers at most one frame per slot
// per tick.
type TickerHost struct {
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	slots    []*Slot
	inflight int

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Slot is the Scheduler handed to one indicator. Requests made before Bind
// are held until a receiver is bound.
type Slot struct {
	host    *TickerHost
	recv    FrameReceiver
	gen     uint64
	pending bool
}

// NewTickerHost starts a host refreshing fps times per second.
func NewTickerHost(fps int, logger *slog.Logger) *TickerHost {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &TickerHost{
		interval: time.Second / time.Duration(fps),
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go h.loop()
	return h
}

// Slot allocates a scheduler for one indicator. Release it when the indicator
// goes away so the host stops tracking it.
func (h *TickerHost) Slot() *Slot {
	s := &Slot{host: h}
	h.mu.Lock()
	h.slots = append(h.slots, s)
	h.mu.Unlock()
	return s
}

// Release removes the slot from its host. Requests made after Release are
// never delivered.
func (s *Slot) Release() {
	h := s.host
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, other := range h.slots {
		if other == s {
			h.slots = append(h.slots[:i], h.slots[i+1:]...)
			break
		}
	}
	s.recv = nil
	s.pending = false
}

// Bind attaches the receiver that answers this slot's frame requests.
func (s *Slot) Bind(recv FrameReceiver) {
	s.host.mu.Lock()
	s.recv = recv
	s.host.mu.Unlock()
}

// RequestFrame implements Scheduler. A newer request replaces an older one.
func (s *Slot) RequestFrame(gen uint64) {
	s.host.mu.Lock()
	s.gen = gen
	s.pending = true
	s.host.mu.Unlock()
}

type dueFrame struct {
	recv FrameReceiver
	gen  uint64
}

func (h *TickerHost) loop() {
	defer close(h.done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case now := <-ticker.C:
			due := h.collect()
			for _, f := range due {
				f.recv.Frame(f.gen, now)
			}
			h.mu.Lock()
			h.inflight -= len(due)
			h.mu.Unlock()
		}
	}
}

// collect takes every pending request with a bound receiver.
func (h *TickerHost) collect() []dueFrame {
	h.mu.Lock()
	defer h.mu.Unlock()

	var due []dueFrame
	for _, s := range h.slots {
		if !s.pending || s.recv == nil {
			continue
		}
		s.pending = false
		due = append(due, dueFrame{recv: s.recv, gen: s.gen})
	}
	h.inflight += len(due)
	return due
}

// Pending reports how many frames are waiting or being delivered.
func (h *TickerHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.inflight
	for _, s := range h.slots {
		if s.pending && s.recv != nil {
			n++
		}
	}
	return n
}

// WaitIdle blocks until no bound slot has a pending frame or ctx ends.
func (h *TickerHost) WaitIdle(ctx context.Context) error {
	poll := time.NewTicker(h.interval)
	defer poll.Stop()

	for {
		if h.Pending() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.done:
			return nil
		case <-poll.C:
		}
	}
}

// Close stops the frame goroutine and waits for it to exit.
func (h *TickerHost) Close() {
	h.once.Do(func() {
		close(h.stop)
		<-h.done
		h.logger.Debug("ticker host stopped")
	})
}
