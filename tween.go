package sticker

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 presentation fields of a Stage at once. It
// runs on top of the keyframed animation: the document's own frames are
// untouched, only where and how the whole sticker is shown changes.
//
// Hand a group to Player.AddTween to advance it with playback, or call
// Update yourself. If the stage is disposed the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64
	target *Stage
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// stage's Presentation. Nothing is written once the stage is disposed.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition slides the sticker to the given presentation offset.
func TweenPosition(s *Stage, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := &s.Presentation
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(float32(p.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(p.Y), float32(toY), duration, fn)
	g.fields[0] = &p.X
	g.fields[1] = &p.Y
	return g
}

// TweenScale zooms the sticker about its canvas center.
func TweenScale(s *Stage, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := &s.Presentation
	g := &TweenGroup{count: 1, target: s}
	g.tweens[0] = gween.New(float32(p.Scale), float32(to), duration, fn)
	g.fields[0] = &p.Scale
	return g
}

// TweenAlpha fades the whole sticker.
func TweenAlpha(s *Stage, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := &s.Presentation
	g := &TweenGroup{count: 1, target: s}
	g.tweens[0] = gween.New(float32(p.Alpha), float32(to), duration, fn)
	g.fields[0] = &p.Alpha
	return g
}

// TweenPop scales and fades the sticker in from nothing, the usual entrance
// for a freshly sent sticker.
func TweenPop(s *Stage, duration float32) *TweenGroup {
	p := &s.Presentation
	p.Scale, p.Alpha = 0, 0
	g := &TweenGroup{count: 2, target: s}
	g.tweens[0] = gween.New(0, 1, duration, ease.OutBack)
	g.tweens[1] = gween.New(0, 1, duration/2, ease.Linear)
	g.fields[0] = &p.Scale
	g.fields[1] = &p.Alpha
	return g
}
