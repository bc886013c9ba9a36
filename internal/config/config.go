// Package config loads settings for the sticker tools.
package config

import (
	"errors"
	"fmt"

	"github.com/phanxgames/sticker"
)

// Config holds all tool settings.
type Config struct {
	Player  PlayerConfig  `yaml:"player"`
	Window  WindowConfig  `yaml:"window"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	Speed    float64 `yaml:"speed"` // negative plays in reverse
	Loop     bool    `yaml:"loop"`
	Autoplay bool    `yaml:"autoplay"`
	Strict   bool    `yaml:"strict"` // reject documents that fail validation
	Debug    bool    `yaml:"debug"`  // per-frame timings at debug level
}

// WindowConfig holds viewer window settings.
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // hex color; empty is transparent
	ShowFPS    bool   `yaml:"show_fps"`
}

// ExportConfig holds frame export settings.
type ExportConfig struct {
	OutDir  string  `yaml:"out_dir"`
	Workers int     `yaml:"workers"` // 0 means one per CPU
	Scale   float64 `yaml:"scale"`   // output size relative to the canvas
	Step    int     `yaml:"step"`    // frames between exported images
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Player: PlayerConfig{
			Speed:    1,
			Loop:     true,
			Autoplay: true,
		},
		Window: WindowConfig{
			Width:  512,
			Height: 512,
			Title:  "sticker",
		},
		Export: ExportConfig{
			OutDir: "frames",
			Scale:  1,
			Step:   1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// BackgroundColor parses Window.Background. An empty string is transparent.
func (w WindowConfig) BackgroundColor() (sticker.Color, error) {
	if w.Background == "" {
		return sticker.Color{}, nil
	}
	return sticker.ParseHexColor(w.Background)
}

// Validate reports settings the tools cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Player.Speed == 0 {
		errs = append(errs, errors.New("player.speed must not be 0"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if _, err := c.Window.BackgroundColor(); err != nil {
		errs = append(errs, fmt.Errorf("window.background: %w", err))
	}
	if c.Export.Workers < 0 {
		errs = append(errs, fmt.Errorf("export.workers %d must not be negative", c.Export.Workers))
	}
	if c.Export.Scale <= 0 {
		errs = append(errs, fmt.Errorf("export.scale %v must be positive", c.Export.Scale))
	}
	if c.Export.Step < 1 {
		errs = append(errs, fmt.Errorf("export.step %d must be at least 1", c.Export.Step))
	}
	return errors.Join(errs...)
}
