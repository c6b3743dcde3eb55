package batch

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"fisheye-equirect/internal/postprocess"
	"fisheye-equirect/internal/projection"
	"fisheye-equirect/internal/raster"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Source      *image.NRGBA
	Params      projection.Params
	OutputDir   string
	Width       int
	Height      int
	Supersample int
	Frames      int
	Format      string // "webp" or "png"
	Background  color.NRGBA
	Workers     int

	// Progress receives periodic progress lines; nil disables reporting.
	Progress io.Writer
}

// Job is one view of the sweep.
type Job struct {
	Index int
	Yaw   float64
}

// Result holds the outcome of rendering one job.
type Result struct {
	Index   int
	Yaw     float64
	File    string // relative to OutputDir
	Success bool
	Error   string
}

// Jobs spreads cfg.Frames views evenly over yaw ∈ [-π, π). A single frame
// keeps the configured yaw.
func Jobs(cfg Config) []Job {
	n := cfg.Frames
	if n <= 1 {
		return []Job{{Index: 0, Yaw: cfg.Params.Yaw}}
	}
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Index: i, Yaw: -math.Pi + 2*math.Pi*float64(i)/float64(n)}
	}
	return jobs
}

// Run renders all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// RenderView renders one view at yaw and returns it at cfg.Width×cfg.Height.
func RenderView(cfg Config, yaw float64) (*image.NRGBA, error) {
	ss := cfg.Supersample
	if ss < 1 {
		ss = 1
	}
	params := cfg.Params
	params.Yaw = yaw

	fb := raster.NewFrameBuffer(cfg.Width*ss, cfg.Height*ss)
	// Frames already run in parallel; one goroutine per frame.
	pass := raster.Pass{Workers: 1, Background: cfg.Background}
	if err := pass.Render(fb, cfg.Source, params); err != nil {
		return nil, err
	}

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	return img, nil
}

func processJob(cfg Config, job Job) Result {
	res := Result{Index: job.Index, Yaw: job.Yaw}

	img, err := RenderView(cfg, job.Yaw)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = fmt.Sprintf("frame_%04d.%s", job.Index, cfg.Format)
	outPath := filepath.Join(cfg.OutputDir, res.File)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := Encode(f, img, cfg.Format); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// Encode writes img as WebP (lossless) or PNG.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp", "":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("PNG encode: %w", err)
		}
	default:
		return fmt.Errorf("batch: unknown format %q", format)
	}
	return nil
}
