package frame

import (
	"image"
	"sync"

	"fisheye-equirect/internal/raster"
)

// ImagePresenter keeps a copy of the last presented frame.
type ImagePresenter struct {
	mu    sync.RWMutex
	img   *image.NRGBA
	count int
}

// Present copies fb into the presenter's image, reallocating on size change.
func (p *ImagePresenter) Present(fb *raster.FrameBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.img == nil || p.img.Rect.Dx() != fb.Width || p.img.Rect.Dy() != fb.Height {
		p.img = image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	}
	copy(p.img.Pix, fb.Color)
	p.count++
	return nil
}

// Image returns a copy of the last presented frame, or nil.
func (p *ImagePresenter) Image() *image.NRGBA {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.img == nil {
		return nil
	}
	out := image.NewNRGBA(p.img.Rect)
	copy(out.Pix, p.img.Pix)
	return out
}

// Count returns how many frames have been presented.
func (p *ImagePresenter) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.count
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(fb *raster.FrameBuffer) error

func (f PresenterFunc) Present(fb *raster.FrameBuffer) error {
	return f(fb)
}
