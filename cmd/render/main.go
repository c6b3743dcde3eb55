package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fisheye-equirect/internal/batch"
	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/mathutil"
	"fisheye-equirect/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	source := flag.String("source", "", "Fisheye image (png, jpg, gif, bmp, tiff, webp, tga)")
	fov := flag.Float64("fov", 0, "Lens field of view in degrees (default: 180)")
	center := flag.String("center", "", "Optical center as x,y (default: 0.5,0.5)")
	width := flag.Int("width", 0, "Output width in pixels (default: 1024)")
	height := flag.Int("height", 0, "Output height in pixels (default: width/2)")
	supersample := flag.Int("supersample", 0, "Render at N× size and downsample (default: 1)")
	frames := flag.Int("frames", 0, "Number of views in a yaw sweep (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	format := flag.String("format", "", "Frame format: webp or png (default: webp)")
	background := flag.String("background", "", "Color outside the lens circle (default: #000000)")
	animate := flag.Bool("animate", false, "Also write the sweep as an animated sweep.webp")
	frameMs := flag.Uint("frame-ms", 40, "Animation frame duration in milliseconds")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
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
		Source:      *source,
		OutputDir:   *outputDir,
		FOVDegrees:  *fov,
		Width:       *width,
		Height:      *height,
		Supersample: *supersample,
		Workers:     *workers,
		Background:  *background,
		Frames:      *frames,
		Format:      *format,
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

	src, err := texture.Load(cfg.Source)
	if err != nil {
		logger.Error("cannot load source image", "source", cfg.Source, "err", err)
		os.Exit(1)
	}

	batchCfg := batch.Config{
		Source:      src,
		Params:      cfg.Params(),
		OutputDir:   cfg.OutputDir,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Frames:      cfg.Frames,
		Format:      cfg.Format,
		Background:  cfg.BackgroundColor(),
		Workers:     cfg.Workers,
		Progress:    os.Stdout,
	}
	jobs := batch.Jobs(batchCfg)

	// Print summary
	fmt.Printf("Fisheye → equirectangular (%s)\n", cfg.Source)
	fmt.Printf("Source: %dx%d, FOV: %.1f°, center: (%.3f, %.3f)\n",
		src.Rect.Dx(), src.Rect.Dy(), mathutil.Rad2Deg(batchCfg.Params.FOV), batchCfg.Params.Center.X, batchCfg.Params.Center.Y)
	fmt.Printf("Frames: %d at %dx%d (x%d), Workers: %d\n", len(jobs), cfg.Width, cfg.Height, cfg.Supersample, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	results := batch.Run(batchCfg, jobs)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := min(20, len(errors))
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Index, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, batchCfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if *animate && len(jobs) > 1 {
		aniPath := filepath.Join(cfg.OutputDir, "sweep.webp")
		if err := batch.WriteAnimation(aniPath, batchCfg, jobs, *frameMs); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: animation failed: %v\n", err)
		} else {
			fmt.Printf("Animation: %s\n", aniPath)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
