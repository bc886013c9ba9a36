package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/ebitenbackend"
)

const (
	minSpeed = 0.125
	maxSpeed = 8
)

// controls maps key presses to player commands.
type controls struct {
	game  *ebitenbackend.Game
	log   *zap.Logger
	keys  []ebiten.Key
	speed float64
	loop  bool
}

func newControls(g *ebitenbackend.Game, speed float64, loop bool, log *zap.Logger) *controls {
	return &controls{game: g, log: log, speed: speed, loop: loop}
}

// update is the game's per-tick hook.
func (c *controls) update() error {
	c.keys = inpututil.AppendJustPressedKeys(c.keys[:0])
	for _, k := range c.keys {
		if err := c.handle(k); err != nil {
			return err
		}
	}
	return nil
}

// handle applies one key press. Escape ends the game loop.
func (c *controls) handle(k ebiten.Key) error {
	p := c.game.Player
	switch k {
	case ebiten.KeySpace:
		if p.State() == sticker.Playing {
			p.Pause()
		} else {
			p.Play()
		}
	case ebiten.KeyS:
		p.Stop()
	case ebiten.KeyArrowLeft:
		p.Seek(p.Frame() - 1)
	case ebiten.KeyArrowRight:
		p.Seek(p.Frame() + 1)
	case ebiten.KeyArrowUp:
		c.setSpeed(c.speed * 2)
	case ebiten.KeyArrowDown:
		c.setSpeed(c.speed / 2)
	case ebiten.KeyR:
		c.setSpeed(-c.speed)
	case ebiten.KeyL:
		c.loop = !c.loop
		p.SetLoop(c.loop)
		c.log.Info("loop", zap.Bool("enabled", c.loop))
	case ebiten.KeyF:
		if s := p.Stage(); s != nil {
			p.AddTween(sticker.TweenAlpha(s, 0, 0.5, ease.InOutQuad))
		}
	case ebiten.KeyG:
		if s := p.Stage(); s != nil {
			p.AddTween(sticker.TweenPop(s, 0.6))
		}
	case ebiten.KeyP:
		c.game.Screenshot("frame")
	case ebiten.KeyEscape:
		return ebiten.Termination
	}
	return nil
}

// setSpeed clamps the magnitude of v and keeps its sign.
func (c *controls) setSpeed(v float64) {
	mag := min(max(abs(v), minSpeed), maxSpeed)
	if v < 0 {
		mag = -mag
	}
	c.speed = mag
	c.game.Player.SetSpeed(mag)
	c.log.Info("speed", zap.Float64("speed", mag))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
