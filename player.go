package sticker

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// Player is the playback facade: it loads documents, owns the scene graph,
// stage and scheduler, and exposes play/pause/stop.
//
// A Player is driven by its TickSource; all rendering happens inside tick
// callbacks or inside the control call that caused it (Load, Stop, Seek).
type Player struct {
	backend Backend
	ticks   TickSource
	clock   func() time.Time
	log     *zap.Logger
	strict  bool
	debug   bool

	viewport Rect
	sched    *Scheduler
	stage    *Stage
	last     *Frame
	tweens   []*TweenGroup
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithClock sets the wall clock used to anchor playback.
func WithClock(clock func() time.Time) Option {
	return func(p *Player) { p.clock = clock }
}

// WithStrictValidation makes Load reject documents that fail Validate.
// Without it, problems are logged and the document plays best effort.
func WithStrictValidation(strict bool) Option {
	return func(p *Player) { p.strict = strict }
}

// WithViewport fits the document canvas into r on the backend.
func WithViewport(r Rect) Option {
	return func(p *Player) { p.viewport = r }
}

// NewPlayer creates a stopped player with no document.
func NewPlayer(backend Backend, ticks TickSource, opts ...Option) *Player {
	if backend == nil {
		panic("sticker: nil backend")
	}
	p := &Player{
		backend: backend,
		ticks:   ticks,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sched = NewScheduler(ticks, p.clock, p.render)
	return p
}

// Load replaces the current document. The previous stage is disposed, a new
// scene graph is built, and the start frame is rendered. The player is left
// stopped.
func (p *Player) Load(doc *Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	if err := Validate(doc); err != nil {
		if p.strict {
			return err
		}
		for _, e := range unwrapJoined(err) {
			p.log.Warn("document problem", zap.String("document", doc.Name), zap.Error(e))
		}
	}

	g := BuildSceneGraph(doc)
	for _, e := range g.Issues() {
		p.log.Warn("scene graph issue", zap.String("document", doc.Name), zap.Error(e))
	}

	if p.stage != nil {
		p.stage.Dispose()
	}
	p.stage = NewStage(g, p.backend)
	p.stage.SetViewport(p.viewport)
	p.last = nil

	p.log.Info("document loaded",
		zap.String("document", doc.Name),
		zap.Int("layers", len(doc.Layers)),
		zap.Float64("frame_rate", doc.FrameRate),
		zap.Float64("in", doc.InPoint),
		zap.Float64("out", doc.OutPoint),
	)
	p.sched.SetRange(doc.InPoint, doc.OutPoint, doc.FrameRate)
	return nil
}

// Play starts or resumes playback. It does nothing without a document.
func (p *Player) Play() {
	if p.stage == nil {
		return
	}
	p.sched.Play()
}

// Pause freezes playback at the current frame.
func (p *Player) Pause() { p.sched.Pause() }

// Stop rewinds to the start frame and renders it.
func (p *Player) Stop() {
	if p.stage == nil {
		return
	}
	p.sched.Stop()
}

// Seek jumps to frame and renders it.
func (p *Player) Seek(frame float64) {
	if p.stage == nil {
		return
	}
	p.sched.Seek(frame)
}

// SetSpeed sets the playback rate multiplier.
func (p *Player) SetSpeed(speed float64) { p.sched.SetSpeed(speed) }

// SetLoop selects looping or play-once playback.
func (p *Player) SetLoop(loop bool) { p.sched.SetLoop(loop) }

// OnLoop registers a callback for each wrap of the frame cursor.
func (p *Player) OnLoop(fn func()) { p.sched.OnLoop(fn) }

// OnComplete registers a callback for the end of play-once playback.
func (p *Player) OnComplete(fn func()) { p.sched.OnComplete(fn) }

// State returns the playback state.
func (p *Player) State() PlayState { return p.sched.State() }

// Frame returns the current frame cursor.
func (p *Player) Frame() float64 { return p.sched.Frame() }

// LastFrame returns the most recently rendered frame, or nil.
func (p *Player) LastFrame() *Frame { return p.last }

// Stage returns the current stage, or nil before the first Load.
func (p *Player) Stage() *Stage { return p.stage }

// AddTween attaches a presentation tween; it advances with every tick and
// is dropped once done.
func (p *Player) AddTween(g *TweenGroup) {
	p.tweens = append(p.tweens, g)
}

// SetDebugMode enables per-frame timing logs at debug level.
func (p *Player) SetDebugMode(enabled bool) {
	p.debug = enabled
}

// render is the scheduler's frame callback.
func (p *Player) render(frame float64, dt time.Duration) {
	if p.stage == nil {
		return
	}
	p.advanceTweens(dt)

	var t0 time.Time
	if p.debug {
		t0 = time.Now()
	}
	f := EvaluateFrame(p.stage.graph, frame)
	var evalTime time.Duration
	if p.debug {
		evalTime = time.Since(t0)
		t0 = time.Now()
	}
	p.stage.Emit(f)
	p.last = f

	for _, err := range f.Errors {
		p.log.Warn("layer evaluation failed, keeping last frame", zap.Float64("frame", frame), zap.Error(err))
	}
	if p.debug {
		p.log.Debug("frame",
			zap.Float64("frame", frame),
			zap.Duration("dt", dt),
			zap.Duration("evaluate", evalTime),
			zap.Duration("emit", time.Since(t0)),
			zap.Int("layers", len(f.Layers)),
		)
	}
}

func (p *Player) advanceTweens(dt time.Duration) {
	if len(p.tweens) == 0 {
		return
	}
	live := p.tweens[:0]
	for _, g := range p.tweens {
		g.Update(float32(dt.Seconds()))
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(p.tweens[len(live):])
	p.tweens = live
}

// unwrapJoined splits an errors.Join result into its parts.
func unwrapJoined(err error) []error {
	var j interface{ Unwrap() []error }
	if errors.As(err, &j) {
		return j.Unwrap()
	}
	return []error{err}
}
