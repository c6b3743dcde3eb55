package batch

import (
	"fmt"
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"
)

// WriteAnimation renders jobs in order and writes them as one looping
// animated WebP with frameMs milliseconds per frame.
func WriteAnimation(path string, cfg Config, jobs []Job, frameMs uint) error {
	ani := &nativewebp.Animation{
		Images:    make([]image.Image, 0, len(jobs)),
		Durations: make([]uint, 0, len(jobs)),
		Disposals: make([]uint, 0, len(jobs)),
	}
	for _, job := range jobs {
		img, err := RenderView(cfg, job.Yaw)
		if err != nil {
			return fmt.Errorf("batch: animation frame %d: %w", job.Index, err)
		}
		ani.Images = append(ani.Images, img)
		ani.Durations = append(ani.Durations, frameMs)
		ani.Disposals = append(ani.Disposals, 0)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: animation: %w", err)
	}
	defer f.Close()

	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		return fmt.Errorf("batch: animation encode: %w", err)
	}
	return f.Close()
}
