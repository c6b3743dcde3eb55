//go:build headless

package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"fisheye-equirect/internal/batch"
	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/frame"
	"fisheye-equirect/internal/texture"
)

// run renders a single frame through the frame driver and writes it to
// cfg.OutputDir, for machines without a display.
func run(cfg config.Config, src *image.NRGBA, _ *texture.Cache, opts frame.Options) error {
	if cfg.Watch || cfg.GPU {
		opts.Logger.Warn("headless build ignores -watch and -gpu")
	}

	pres := &frame.ImagePresenter{}
	opts.Presenter = pres
	r := frame.NewRenderer(src, opts)
	defer r.Close()

	if err := r.Initialize(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if err := r.RenderFrame(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return err
	}
	outPath := filepath.Join(cfg.OutputDir, "snapshot."+cfg.Format)
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := batch.Encode(f, pres.Image(), cfg.Format); err != nil {
		return err
	}
	fmt.Printf("Snapshot: %s\n", outPath)
	return f.Close()
}
