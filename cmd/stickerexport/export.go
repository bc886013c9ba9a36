package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phanxgames/sticker"
	"github.com/phanxgames/sticker/internal/config"
	"github.com/phanxgames/sticker/internal/snapshot"
	"github.com/phanxgames/sticker/rasterbackend"
)

// exportFrames renders every Step-th frame of doc in [InPoint, OutPoint) to
// PNGs under cfg.OutDir. All workers share one scene graph; each owns its
// own backend and stage. It returns the number of files written.
func exportFrames(ctx context.Context, doc *sticker.Document, cfg config.ExportConfig, bg sticker.Color, log *zap.Logger) (int, error) {
	if doc.FrameRate <= 0 || doc.OutPoint <= doc.InPoint {
		return 0, fmt.Errorf("export %s: %w", doc.Name, sticker.ErrFrameRange)
	}
	if cfg.Step < 1 {
		cfg.Step = 1
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	w := int(math.Ceil(doc.Width * cfg.Scale))
	h := int(math.Ceil(doc.Height * cfg.Scale))
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("export %s: canvas %vx%v is empty", doc.Name, doc.Width, doc.Height)
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	graph := sticker.BuildSceneGraph(doc)
	for _, issue := range graph.Issues() {
		log.Warn("scene graph issue", zap.Error(issue))
	}

	var written atomic.Int64
	eg, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	eg.Go(func() error {
		defer close(jobs)
		for f := int(math.Ceil(doc.InPoint)); float64(f) < doc.OutPoint; f += cfg.Step {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- f:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		eg.Go(func() error {
			b := rasterbackend.New(w, h)
			b.Background = bg
			stage := sticker.NewStage(graph, b)
			defer stage.Dispose()
			stage.SetViewport(b.Viewport())

			for f := range jobs {
				frame := stage.Render(float64(f))
				for _, err := range frame.Errors {
					log.Warn("layer evaluation failed", zap.Int("frame", f), zap.Error(err))
				}
				path := filepath.Join(cfg.OutDir, snapshot.FrameName(doc.Name, f))
				if err := b.WritePNG(path); err != nil {
					return fmt.Errorf("frame %d: %w", f, err)
				}
				written.Add(1)
				log.Debug("frame written", zap.Int("frame", f), zap.String("path", path))
			}
			return nil
		})
	}

	err := eg.Wait()
	return int(written.Load()), err
}
