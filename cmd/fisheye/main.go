package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/frame"
	"fisheye-equirect/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	source := flag.String("source", "", "Fisheye image (png, jpg, gif, bmp, tiff, webp, tga)")
	fov := flag.Float64("fov", 0, "Lens field of view in degrees (default: 180)")
	center := flag.String("center", "", "Optical center as x,y in normalized image space (default: 0.5,0.5)")
	width := flag.Int("width", 0, "Initial view width in pixels (default: 1024)")
	height := flag.Int("height", 0, "Initial view height in pixels (default: width/2)")
	workers := flag.Int("workers", 0, "Render goroutines per frame (default: NumCPU)")
	background := flag.String("background", "", "Color outside the lens circle, #rrggbb (default: #000000)")
	output := flag.String("output", "", "Snapshot directory for headless builds (default: renders)")
	format := flag.String("format", "", "Snapshot format for headless builds: webp or png")
	gpu := flag.Bool("gpu", false, "Run the remap as a Kage shader instead of on the CPU")
	watch := flag.Bool("watch", false, "Reload the source image when it changes on disk")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{
		Source:     *source,
		OutputDir:  *output,
		FOVDegrees: *fov,
		Width:      *width,
		Height:     *height,
		Workers:    *workers,
		Background: *background,
		Format:     *format,
		GPU:        *gpu,
		Watch:      *watch,
	}
	if flags.Source == "" && flag.NArg() > 0 {
		flags.Source = flag.Arg(0)
	}
	if *center != "" {
		pt, err := config.ParsePoint(*center)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		flags.Center = &pt
	}

	// CLI flags override config file
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// A source that cannot be read ends the session: nothing can render.
	cache := texture.NewCache()
	src, err := cache.Resolve(cfg.Source)
	if err != nil {
		logger.Error("cannot load source image", "source", cfg.Source, "err", err)
		os.Exit(1)
	}
	logger.Info("source loaded", "source", cfg.Source, "width", src.Rect.Dx(), "height", src.Rect.Dy())

	opts := frame.Options{
		Params:          cfg.Params(),
		Workers:         cfg.Workers,
		Background:      cfg.BackgroundColor(),
		Logger:          logger,
		PointerTracking: true,
	}

	if err := run(cfg, src, cache, opts); err != nil {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
