package ebitenbackend

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/internal/snapshot"
)

// RunConfig configures the window and the game built around a player.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	ShowFPS    bool
	Background sticker.Color

	// ScreenshotDir receives PNGs queued with Game.Screenshot. Defaults to
	// "screenshots".
	ScreenshotDir string

	Logger *zap.Logger
}

// Game is an ebiten.Game that plays one sticker.
type Game struct {
	Player  *sticker.Player
	Backend *Backend
	Host    *Host

	// OnUpdate, if set, runs after the player ticks in every Update. A
	// non-nil error stops the game loop.
	OnUpdate func() error

	title           string
	width, height   int
	showFPS         bool
	screenshotDir   string
	screenshotQueue []string
	log             *zap.Logger
}

// NewGame creates the backend, host and player for cfg. The player fits the
// document into the window. opts are passed to sticker.NewPlayer after the
// game's own options.
func NewGame(cfg RunConfig, opts ...sticker.Option) *Game {
	if cfg.Width <= 0 {
		cfg.Width = 512
	}
	if cfg.Height <= 0 {
		cfg.Height = 512
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	b := New()
	b.Background = cfg.Background
	h := NewHost()
	base := []sticker.Option{
		sticker.WithClock(h.Now),
		sticker.WithLogger(log),
		sticker.WithViewport(sticker.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)}),
	}
	return &Game{
		Player:        sticker.NewPlayer(b, h, append(base, opts...)...),
		Backend:       b,
		title:         cfg.Title,
		Host:          h,
		width:         cfg.Width,
		height:        cfg.Height,
		showFPS:       cfg.ShowFPS,
		screenshotDir: cfg.ScreenshotDir,
		log:           log,
	}
}

// Update fires the player's pending tick.
func (g *Game) Update() error {
	g.Host.Update()
	if g.OnUpdate != nil {
		return g.OnUpdate()
	}
	return nil
}

// Draw renders the sticker, the FPS overlay and any queued screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	g.Backend.Draw(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	g.flushScreenshots(screen)
}

// Layout keeps the logical screen at the configured size.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Screenshot queues a labeled screenshot of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	img := Capture(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.screenshotQueue {
		path := filepath.Join(g.screenshotDir, stamp+"_"+snapshot.SanitizeLabel(label)+".png")
		if err := snapshot.WritePNG(path, img); err != nil {
			g.log.Error("screenshot failed", zap.String("path", path), zap.Error(err))
			continue
		}
		g.log.Info("screenshot saved", zap.String("path", path))
	}
	g.screenshotQueue = g.screenshotQueue[:0]
}

// Capture reads back img as a straight-alpha image.
func Capture(img *ebiten.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	img.ReadPixels(pixels)
	return snapshot.Unpremultiply(pixels, w, h)
}

// Run opens a window for g and blocks until it closes.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebitenbackend: %w", err)
	}
	return nil
}
