package ebitenbackend

import (
	"time"

	"github.com/phanxgames/sticker"
)

// Host is a sticker.TickSource fed by the ebiten game loop: callbacks armed
// during one Update fire on the next, with the wall-clock time elapsed
// since the previous Update.
type Host struct {
	ticks *sticker.ManualTicks
	last  time.Time
	now   func() time.Time
}

// NewHost returns a host whose clock starts now.
func NewHost() *Host {
	return newHost(time.Now)
}

func newHost(now func() time.Time) *Host {
	start := now()
	return &Host{ticks: sticker.NewManualTicks(start), last: start, now: now}
}

// RequestTick arms fn for the next Update.
func (h *Host) RequestTick(fn func(now time.Time)) {
	h.ticks.RequestTick(fn)
}

// Now returns the host clock. Players driven by the host use it as their
// clock so frame deltas match the ticks.
func (h *Host) Now() time.Time {
	return h.ticks.Now()
}

// Update advances the clock to the current wall time and fires the armed
// callbacks. It returns the number fired.
func (h *Host) Update() int {
	t := h.now()
	d := t.Sub(h.last)
	h.last = t
	if d < 0 {
		d = 0
	}
	return h.ticks.Step(d)
}
