package sticker

import (
	"math"
	"sync"
	"time"
)

// TickSource arms exactly one future callback. The host calls fn once, on
// its next frame, with the current wall-clock time.
type TickSource interface {
	RequestTick(fn func(now time.Time))
}

// TickFunc adapts a function to TickSource.
type TickFunc func(fn func(now time.Time))

// RequestTick calls f(fn).
func (f TickFunc) RequestTick(fn func(now time.Time)) { f(fn) }

// ManualTicks is a TickSource stepped by hand, for tests and fixed-step
// simulation loops. It also serves as the scheduler's clock.
type ManualTicks struct {
	mu      sync.Mutex
	now     time.Time
	pending []func(time.Time)
}

// NewManualTicks returns a manual source whose clock starts at start.
func NewManualTicks(start time.Time) *ManualTicks {
	return &ManualTicks{now: start}
}

// RequestTick queues fn for the next Step.
func (m *ManualTicks) RequestTick(fn func(now time.Time)) {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

// Now returns the manual clock.
func (m *ManualTicks) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward without firing callbacks.
func (m *ManualTicks) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Step advances the clock by d and fires every callback queued before the
// call. Callbacks queued while firing wait for the next Step. It returns
// the number of callbacks fired.
func (m *ManualTicks) Step(d time.Duration) int {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now
	fire := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, fn := range fire {
		fn(now)
	}
	return len(fire)
}

// Pending returns the number of armed callbacks.
func (m *ManualTicks) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// PlayState is the scheduler's playback state.
type PlayState uint8

const (
	Stopped PlayState = iota // cursor at the start frame, no ticks armed
	Playing                  // ticks armed, cursor advancing
	Paused                   // cursor retained, no ticks armed
)

func (s PlayState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// FrameFunc renders one frame. dt is the wall-clock time since the previous
// tick, zero for renders caused by Stop, Seek or a new range.
type FrameFunc func(frame float64, dt time.Duration)

// Scheduler owns the continuous time cursor. While playing it re-arms its
// TickSource after every tick; each tick advances the cursor from the
// wall-clock delta, wraps it over the frame range, and renders once.
//
// Play, Pause, Stop and the other controls may be called from any
// goroutine. The render callback runs without the lock held, so it may call
// back into the scheduler.
type Scheduler struct {
	mu     sync.Mutex
	ticks  TickSource
	clock  func() time.Time
	render FrameFunc

	state  PlayState
	cursor float64
	start  float64
	end    float64
	rate   float64
	speed  float64
	loop   bool
	last   time.Time
	armed  bool

	onLoop     func()
	onComplete func()
}

// NewScheduler creates a stopped scheduler with an empty frame range. A nil
// clock means time.Now.
func NewScheduler(ticks TickSource, clock func() time.Time, render FrameFunc) *Scheduler {
	if ticks == nil {
		panic("sticker: nil tick source")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		ticks:  ticks,
		clock:  clock,
		render: render,
		speed:  1,
		loop:   true,
	}
}

// SetRange stops playback, installs a new frame range and rate, and renders
// the start frame.
func (s *Scheduler) SetRange(start, end, frameRate float64) {
	s.mu.Lock()
	s.start, s.end, s.rate = start, end, frameRate
	s.state = Stopped
	s.cursor = start
	s.mu.Unlock()
	s.emit(start, 0)
}

// Play starts or resumes playback. The wall-clock anchor is reset so time
// spent paused or stopped is not played back. A cursor left on the last frame
// by completed play-once playback rewinds first; in reverse it rewinds to
// the end.
func (s *Scheduler) Play() {
	s.mu.Lock()
	if s.state == Playing {
		s.mu.Unlock()
		return
	}
	if !s.loop && s.end > s.start {
		switch {
		case s.speed >= 0 && s.cursor >= s.end:
			s.cursor = s.start
		case s.speed < 0 && s.cursor <= s.start:
			s.cursor = s.end
		}
	}
	s.state = Playing
	s.last = s.clock()
	arm := s.armLocked()
	s.mu.Unlock()
	if arm {
		s.ticks.RequestTick(s.tick)
	}
}

// Pause stops advancing the cursor and keeps it where it is. An already
// armed tick is ignored when it fires.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	if s.state == Playing {
		s.state = Paused
	}
	s.mu.Unlock()
}

// Stop resets the cursor to the start frame and renders it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.state = Stopped
	s.cursor = s.start
	frame := s.cursor
	s.mu.Unlock()
	s.emit(frame, 0)
}

// Seek moves the cursor to frame (wrapped or clamped into the range) and
// renders it. Playback state is unchanged; a playing scheduler continues
// from the new position.
func (s *Scheduler) Seek(frame float64) {
	s.mu.Lock()
	s.cursor = s.place(frame)
	if s.state == Playing {
		s.last = s.clock()
	}
	frame = s.cursor
	s.mu.Unlock()
	s.emit(frame, 0)
}

// SetSpeed sets the playback rate multiplier. Negative speeds play backwards.
func (s *Scheduler) SetSpeed(speed float64) {
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
}

// SetLoop selects looping (the default) or play-once. A play-once scheduler
// stops advancing at the end of the range and pauses there.
func (s *Scheduler) SetLoop(loop bool) {
	s.mu.Lock()
	s.loop = loop
	s.mu.Unlock()
}

// OnLoop registers fn to run each time the cursor wraps.
func (s *Scheduler) OnLoop(fn func()) {
	s.mu.Lock()
	s.onLoop = fn
	s.mu.Unlock()
}

// OnComplete registers fn to run when play-once playback reaches the end.
func (s *Scheduler) OnComplete(fn func()) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// State returns the playback state.
func (s *Scheduler) State() PlayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frame returns the cursor.
func (s *Scheduler) Frame() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// armLocked reports whether a tick must be requested, and records it.
func (s *Scheduler) armLocked() bool {
	if s.armed {
		return false
	}
	s.armed = true
	return true
}

// tick is the armed callback.
func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	s.armed = false
	if s.state != Playing {
		s.mu.Unlock()
		return
	}

	dt := now.Sub(s.last)
	if dt < 0 {
		dt = 0
	}
	s.last = now

	next := s.cursor + dt.Seconds()*s.rate*s.speed
	var looped, completed bool
	s.cursor, looped, completed = s.advance(next)
	if completed {
		s.state = Paused
	}
	frame := s.cursor
	arm := s.state == Playing && s.armLocked()
	onLoop, onComplete := s.onLoop, s.onComplete
	s.mu.Unlock()

	s.emit(frame, dt)
	if looped && onLoop != nil {
		onLoop()
	}
	if completed && onComplete != nil {
		onComplete()
	}
	if arm {
		s.ticks.RequestTick(s.tick)
	}
}

// advance applies the loop or play-once rule to a raw cursor position.
func (s *Scheduler) advance(next float64) (cursor float64, looped, completed bool) {
	total := s.end - s.start
	if total <= 0 {
		return s.start, false, false
	}
	if next >= s.start && next < s.end {
		return next, false, false
	}
	if s.loop {
		return s.wrap(next), true, false
	}
	if next >= s.end {
		return s.end, false, true
	}
	return s.start, false, true
}

// place maps an arbitrary frame into the range for Seek.
func (s *Scheduler) place(frame float64) float64 {
	if s.end-s.start <= 0 {
		return s.start
	}
	if frame >= s.start && frame < s.end {
		return frame
	}
	if s.loop {
		return s.wrap(frame)
	}
	return math.Max(s.start, math.Min(frame, s.end))
}

// wrap folds frame into [start, end).
func (s *Scheduler) wrap(frame float64) float64 {
	total := s.end - s.start
	off := math.Mod(frame-s.start, total)
	if off < 0 {
		off += total
	}
	return s.start + off
}

func (s *Scheduler) emit(frame float64, dt time.Duration) {
	if s.render != nil {
		s.render(frame, dt)
	}
}
