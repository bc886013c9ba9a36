// Command stickerexport renders the frames of a Lottie or .tgs sticker to PNG
// files.
//
// Usage:
//
//	stickerexport [flags] sticker.tgs
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/internal/config"
	"github.com/phanxgames/sticker/internal/logger"
	"github.com/phanxgames/sticker/lottie"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] sticker.(json|tgs)\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("export")

	if err := run(flag.Arg(0), cfg, log); err != nil {
		log.Error("export failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(path string, cfg *config.Config, log *zap.Logger) error {
	doc, err := lottie.Open(path)
	if err != nil {
		return err
	}
	if err := sticker.Validate(doc); err != nil {
		if cfg.Player.Strict {
			return err
		}
		log.Warn("document problems, exporting best effort", zap.Error(err))
	}
	bg, err := cfg.Window.BackgroundColor()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	n, err := exportFrames(ctx, doc, cfg.Export, bg, log)
	if err != nil {
		return err
	}
	log.Info("export finished",
		zap.String("name", doc.Name),
		zap.Int("frames", n),
		zap.String("dir", cfg.Export.OutDir),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
