// Package frame drives the render pass once per displayed frame and owns
// the output surface, the source image and the live projection parameters.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	"fisheye-equirect/internal/projection"
	"fisheye-equirect/internal/raster"
)

var (
	// ErrInvalidSize is returned for zero or negative surface dimensions.
	ErrInvalidSize = errors.New("frame: invalid surface size")
	// ErrNotInitialized is returned by RenderFrame before Initialize.
	ErrNotInitialized = errors.New("frame: not initialized")
	// ErrClosed is returned after Close by Initialize, OnResize, SetParams,
	// SetSource, RenderFrame and DrawFrame. Pointer events are dropped.
	ErrClosed = errors.New("frame: renderer closed")
)

// Driver is the boundary between the platform view and the render core.
// Windowing code calls these from its event loop.
type Driver interface {
	Initialize(width, height int) error
	OnResize(width, height int) error
	OnPointerMove(x, y float64)
	RenderFrame() error
}

// Presenter hands a finished surface to the display. The surface is only
// valid for the duration of the call.
type Presenter interface {
	Present(fb *raster.FrameBuffer) error
}

// Options configures a Renderer.
type Options struct {
	Params     projection.Params
	Workers    int
	Background color.NRGBA
	Presenter  Presenter
	Logger     *slog.Logger

	// PointerTracking folds pointer moves into the view offset.
	PointerTracking bool
}

// Renderer is the CPU Driver. Event methods only record the new state; it is
// applied at the start of the next RenderFrame, so a frame never sees
// parameters change mid-pass.
type Renderer struct {
	renderMu sync.Mutex // serializes RenderFrame

	mu          sync.Mutex
	params      projection.Params
	tracking    bool
	viewW       int
	viewH       int
	pendingW    int
	pendingH    int
	pendingSrc  *image.NRGBA
	initialized bool
	closed      bool

	// owned by RenderFrame under renderMu
	src *image.NRGBA
	fb  *raster.FrameBuffer

	frames atomic.Uint64

	pass      raster.Pass
	presenter Presenter
	log       *slog.Logger
}

var _ Driver = (*Renderer)(nil)

// NewRenderer creates a Renderer for src. A nil src is allowed here but makes
// Initialize fail until SetSource provides one.
func NewRenderer(src *image.NRGBA, opts Options) *Renderer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		params:     opts.Params,
		tracking:   opts.PointerTracking,
		pendingSrc: src,
		pass: raster.Pass{
			Workers:    opts.Workers,
			Background: opts.Background,
		},
		presenter: opts.Presenter,
		log:       log,
	}
}

// Initialize allocates the output surface. It fails when no source image
// has been provided.
func (r *Renderer) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	r.renderMu.Lock()
	defer r.renderMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.pendingSrc == nil && r.src == nil {
		return fmt.Errorf("frame: initialize: %w", raster.ErrNoSource)
	}
	if err := r.params.Validate(); err != nil {
		return fmt.Errorf("frame: initialize: %w", err)
	}

	r.fb = raster.NewFrameBuffer(width, height)
	r.viewW, r.viewH = width, height
	r.pendingW, r.pendingH = 0, 0
	r.initialized = true
	r.log.Info("surface initialized", "width", width, "height", height)
	return nil
}

// OnResize records a new surface size for the next frame. Non-positive sizes
// are rejected and the current size is kept.
func (r *Renderer) OnResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if width == r.viewW && height == r.viewH {
		r.pendingW, r.pendingH = 0, 0
		return nil
	}
	r.pendingW, r.pendingH = width, height
	return nil
}

// OnPointerMove takes a position in view-local pixels and, when pointer
// tracking is on, turns it into the view offset for the next frame.
func (r *Renderer) OnPointerMove(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.tracking {
		return
	}
	w, h := r.viewW, r.viewH
	if r.pendingW > 0 {
		w, h = r.pendingW, r.pendingH
	}
	if w <= 0 || h <= 0 {
		return
	}
	r.params.Yaw, r.params.Pitch = projection.PointerOffset(x/float64(w), y/float64(h))
}

// SetPointerTracking turns pointer-driven view offsets on or off. Turning it
// off resets the offset.
func (r *Renderer) SetPointerTracking(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.tracking = on
	if !on {
		r.params.Yaw, r.params.Pitch = 0, 0
	}
}

// SetParams replaces the live parameters for the next frame.
func (r *Renderer) SetParams(p projection.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.params = p
	return nil
}

// SetSource swaps in a new source image from the next frame on.
func (r *Renderer) SetSource(img *image.NRGBA) error {
	if img == nil || img.Rect.Empty() {
		return raster.ErrNoSource
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.pendingSrc = img
	return nil
}

// Params returns a copy of the live parameters.
func (r *Renderer) Params() projection.Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// Size returns the surface size the next frame will render at.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingW > 0 {
		return r.pendingW, r.pendingH
	}
	return r.viewW, r.viewH
}

// Frames returns the number of frames rendered so far.
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}

// Snapshot is the state one frame is drawn from.
type Snapshot struct {
	Frame  uint64
	Params projection.Params
	Source *image.NRGBA
	Width  int
	Height int
}

// begin applies buffered events and returns the frame snapshot.
// Callers hold renderMu.
func (r *Renderer) begin() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, ErrClosed
	}
	if !r.initialized {
		return Snapshot{}, ErrNotInitialized
	}
	if r.pendingW > 0 {
		r.log.Debug("surface resized", "from_w", r.viewW, "from_h", r.viewH, "width", r.pendingW, "height", r.pendingH)
		r.fb = nil
		r.viewW, r.viewH = r.pendingW, r.pendingH
		r.pendingW, r.pendingH = 0, 0
	}
	if r.pendingSrc != nil {
		r.src = r.pendingSrc
		r.pendingSrc = nil
	}
	return Snapshot{
		Frame:  r.frames.Load(),
		Params: r.params,
		Source: r.src,
		Width:  r.viewW,
		Height: r.viewH,
	}, nil
}

// RenderFrame applies buffered events, renders one frame from a parameter
// snapshot and presents it. It returns after the presenter is done.
func (r *Renderer) RenderFrame() error {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	snap, err := r.begin()
	if err != nil {
		return err
	}
	if r.fb == nil {
		r.fb = raster.NewFrameBuffer(snap.Width, snap.Height)
	}

	if err := r.pass.Render(r.fb, snap.Source, snap.Params); err != nil {
		return fmt.Errorf("frame: render %d: %w", snap.Frame, err)
	}
	r.frames.Add(1)

	if r.presenter != nil {
		if err := r.presenter.Present(r.fb); err != nil {
			return fmt.Errorf("frame: present %d: %w", snap.Frame, err)
		}
	}
	return nil
}

// DrawFrame applies buffered events like RenderFrame but hands the snapshot
// to draw instead of running the CPU pass. GPU backends use it so resizes,
// source swaps and the frame count follow the same rules on both paths.
// The CPU surface is not allocated on this path.
func (r *Renderer) DrawFrame(draw func(Snapshot) error) error {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	snap, err := r.begin()
	if err != nil {
		return err
	}
	if err := draw(snap); err != nil {
		return fmt.Errorf("frame: draw %d: %w", snap.Frame, err)
	}
	r.frames.Add(1)
	return nil
}

// Close releases the surface and source. Further calls fail with ErrClosed.
func (r *Renderer) Close() error {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.fb = nil
	r.src = nil
	r.pendingSrc = nil
	r.log.Info("renderer closed", "frames", r.frames.Load())
	return nil
}
