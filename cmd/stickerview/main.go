// Command stickerview plays a Lottie or .tgs sticker in a window.
//
// Keys: space play/pause, S stop, left/right step one frame, up/down change
// speed, R reverse, L toggle looping, F fade out, G pop in, P screenshot,
// Esc quit.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/ebitenbackend"
	"github.com/phanxgames/sticker/internal/config"
	"github.com/phanxgames/sticker/internal/logger"
	"github.com/phanxgames/sticker/lottie"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] sticker.(json|tgs)\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *writeConfig != "" {
		if err := cfg.SaveTo(*writeConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("view")

	g, err := newViewer(flag.Arg(0), cfg, log)
	if err != nil {
		log.Error("cannot open sticker", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	if err := ebitenbackend.Run(g); err != nil {
		log.Error("game loop stopped", zap.Error(err))
	}
}

// newViewer loads path and builds a ready-to-run game for it.
func newViewer(path string, cfg *config.Config, log *zap.Logger) (*ebitenbackend.Game, error) {
	doc, err := lottie.Open(path)
	if err != nil {
		return nil, err
	}
	bg, err := cfg.Window.BackgroundColor()
	if err != nil {
		return nil, err
	}

	title := cfg.Window.Title
	if doc.Name != "" {
		title += " - " + doc.Name
	}
	g := ebitenbackend.NewGame(ebitenbackend.RunConfig{
		Title:      title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		ShowFPS:    cfg.Window.ShowFPS,
		Background: bg,
		Logger:     log.Named("player"),
	}, sticker.WithStrictValidation(cfg.Player.Strict))

	p := g.Player
	p.SetDebugMode(cfg.Player.Debug)
	if err := p.Load(doc); err != nil {
		return nil, err
	}
	p.SetSpeed(cfg.Player.Speed)
	p.SetLoop(cfg.Player.Loop)
	p.OnLoop(func() { log.Debug("loop") })
	p.OnComplete(func() { log.Info("playback complete") })
	if cfg.Player.Autoplay {
		p.AddTween(sticker.TweenPop(p.Stage(), 0.4))
		p.Play()
	}

	ctl := newControls(g, cfg.Player.Speed, cfg.Player.Loop, log)
	g.OnUpdate = ctl.update
	return g, nil
}
