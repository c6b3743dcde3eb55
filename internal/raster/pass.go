package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"fisheye-equirect/internal/projection"
)

var (
	// ErrNoSource is returned when a pass runs without a loaded source image.
	ErrNoSource = errors.New("raster: source image not loaded")
	// ErrNoSurface is returned when the output surface has no pixels.
	ErrNoSurface = errors.New("raster: output surface not allocated")
)

// Black is the default color for pixels outside the fisheye circle.
var Black = color.NRGBA{0, 0, 0, 255}

// Pass renders the fisheye source into an equirectangular FrameBuffer.
// A Pass holds no per-frame state and may be reused across frames.
type Pass struct {
	Workers    int         // goroutines per frame; <= 0 means 1
	Background color.NRGBA // written where the kernel reports no coverage
}

// Render fills every pixel of fb from src using a snapshot of p. It returns
// once all rows are written. Each pixel is written by exactly one worker, so
// the output does not depend on the worker count.
func (ps *Pass) Render(fb *FrameBuffer, src *image.NRGBA, p projection.Params) error {
	if src == nil || src.Rect.Empty() {
		return ErrNoSource
	}
	if fb.Empty() {
		return ErrNoSurface
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("raster: render: %w", err)
	}

	k := p.Kernel()
	workers := ps.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > fb.Height {
		workers = fb.Height
	}

	if workers == 1 {
		for y := 0; y < fb.Height; y++ {
			ps.renderRow(fb, src, k, y)
		}
		return nil
	}

	// Worker pool over rows
	rowChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowChan {
				ps.renderRow(fb, src, k, y)
			}
		}()
	}

	for y := 0; y < fb.Height; y++ {
		rowChan <- y
	}
	close(rowChan)

	wg.Wait()
	return nil
}

func (ps *Pass) renderRow(fb *FrameBuffer, src *image.NRGBA, k projection.Kernel, y int) {
	for x := 0; x < fb.Width; x++ {
		u, v := projection.NDC(x, y, fb.Width, fb.Height)
		res := k.Project(u, v)
		if !res.Covered {
			fb.Set(x, y, ps.Background)
			continue
		}
		// Kernel t grows upward, image rows grow downward.
		fb.Set(x, y, SampleBilinear(src, res.S, 1-res.T))
	}
}
