package config

import "flag"

// Flags are the command-line overrides shared by the sticker tools. Only
// flags given on the command line override the file.
type Flags struct {
	fs *flag.FlagSet

	config  *string
	debug   *bool
	level   *string
	logFile *string
	speed   *float64
	loop    *bool
	strict  *bool
	width   *int
	height  *int
	bg      *string
	fps     *bool
	outDir  *string
	workers *int
	scale   *float64
	step    *int
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:      fs,
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging and frame timings"),
		level:   fs.String("log-level", "", "Log level (debug, info, warn, error)"),
		logFile: fs.String("log-file", "", "Also write logs to this rotated file"),
		speed:   fs.Float64("speed", 0, "Playback speed; negative plays in reverse"),
		loop:    fs.Bool("loop", true, "Loop playback"),
		strict:  fs.Bool("strict", false, "Reject documents that fail validation"),
		width:   fs.Int("width", 0, "Window width"),
		height:  fs.Int("height", 0, "Window height"),
		bg:      fs.String("background", "", "Background color as #rrggbb"),
		fps:     fs.Bool("fps", false, "Show the FPS overlay"),
		outDir:  fs.String("out", "", "Export output directory"),
		workers: fs.Int("workers", -1, "Export workers; 0 means one per CPU"),
		scale:   fs.Float64("scale", 0, "Export size relative to the canvas"),
		step:    fs.Int("step", 0, "Frames between exported images"),
	}
}

// ConfigPath returns the explicit config path given with -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// apply copies every flag set on the command line into cfg.
func (f *Flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
				cfg.Player.Debug = true
				cfg.Window.ShowFPS = true
			}
		case "log-level":
			cfg.Logging.Level = *f.level
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "speed":
			cfg.Player.Speed = *f.speed
		case "loop":
			cfg.Player.Loop = *f.loop
		case "strict":
			cfg.Player.Strict = *f.strict
		case "width":
			cfg.Window.Width = *f.width
		case "height":
			cfg.Window.Height = *f.height
		case "background":
			cfg.Window.Background = *f.bg
		case "fps":
			cfg.Window.ShowFPS = *f.fps
		case "out":
			cfg.Export.OutDir = *f.outDir
		case "workers":
			cfg.Export.Workers = *f.workers
		case "scale":
			cfg.Export.Scale = *f.scale
		case "step":
			cfg.Export.Step = *f.step
		}
	})
}
