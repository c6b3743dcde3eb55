//go:build !headless

package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/frame"
	"fisheye-equirect/internal/raster"
	"fisheye-equirect/internal/shader"
	"fisheye-equirect/internal/texture"
)

// viewer is the ebiten.Game that feeds window events into the frame driver
// and shows its output.
type viewer struct {
	cfg      config.Config
	renderer *frame.Renderer
	updates  <-chan *image.NRGBA
	log      *slog.Logger

	// CPU path
	frame   *ebiten.Image
	scratch []uint8 // premultiplied copy of the surface

	// GPU path
	gpu       bool
	shader    *ebiten.Shader
	srcImage  *image.NRGBA // source currently uploaded to srcTex
	srcTex    *ebiten.Image
	lastX     int
	lastY     int
	layoutW   int
	layoutH   int
	tracking  bool
	renderErr error
}

func run(cfg config.Config, src *image.NRGBA, cache *texture.Cache, opts frame.Options) error {
	v := &viewer{
		cfg:      cfg,
		log:      opts.Logger,
		gpu:      cfg.GPU,
		tracking: opts.PointerTracking,
		lastX:    -1,
		lastY:    -1,
	}
	if !v.gpu {
		opts.Presenter = v
	}
	v.renderer = frame.NewRenderer(src, opts)
	defer v.renderer.Close()

	if err := v.renderer.Initialize(cfg.Width, cfg.Height); err != nil {
		return err
	}
	v.layoutW, v.layoutH = cfg.Width, cfg.Height

	if v.gpu {
		sh, err := ebiten.NewShader(shader.Source())
		if err != nil {
			return fmt.Errorf("compile shader: %w", err)
		}
		v.shader = sh
		defer sh.Deallocate()
	}

	if cfg.Watch {
		w, err := texture.Watch(cfg.Source, cache, v.log)
		if err != nil {
			return err
		}
		defer w.Close()
		v.updates = w.Updates()
	}

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Fisheye to Equirectangular")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	if err == nil {
		err = v.renderErr
	}
	return err
}

func (v *viewer) Update() error {
	if v.renderErr != nil {
		return v.renderErr
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.tracking = !v.tracking
		v.renderer.SetPointerTracking(v.tracking)
		v.log.Info("pointer tracking", "on", v.tracking)
	}

	select {
	case img, ok := <-v.updates:
		if ok {
			if err := v.renderer.SetSource(img); err != nil {
				v.log.Warn("reloaded source rejected", "err", err)
			}
		}
	default:
	}

	x, y := ebiten.CursorPosition()
	if x != v.lastX || y != v.lastY {
		v.lastX, v.lastY = x, y
		v.renderer.OnPointerMove(float64(x), float64(y))
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.gpu {
		err := v.renderer.DrawFrame(func(snap frame.Snapshot) error {
			v.drawShader(screen, snap)
			return nil
		})
		if err != nil {
			v.renderErr = err
		}
		return
	}
	if err := v.renderer.RenderFrame(); err != nil {
		v.renderErr = err
		return
	}
	if v.frame != nil {
		screen.DrawImage(v.frame, nil)
	}
}

// Present implements frame.Presenter for the CPU path.
func (v *viewer) Present(fb *raster.FrameBuffer) error {
	if v.frame != nil {
		b := v.frame.Bounds()
		if b.Dx() != fb.Width || b.Dy() != fb.Height {
			v.frame.Deallocate()
			v.frame = nil
		}
	}
	if v.frame == nil {
		v.frame = ebiten.NewImage(fb.Width, fb.Height)
	}
	// ebiten takes premultiplied alpha; the surface is straight alpha.
	v.scratch = fb.Premultiplied(v.scratch)
	v.frame.WritePixels(v.scratch)
	return nil
}

func (v *viewer) drawShader(screen *ebiten.Image, snap frame.Snapshot) {
	if snap.Source != v.srcImage {
		if v.srcTex != nil {
			v.srcTex.Deallocate()
		}
		v.srcTex = ebiten.NewImageFromImage(snap.Source)
		v.srcImage = snap.Source
	}

	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	sw := float32(v.srcImage.Rect.Dx())
	sh := float32(v.srcImage.Rect.Dy())
	fw, fh := float32(w), float32(h)
	vertices := []ebiten.Vertex{
		{DstX: 0, DstY: 0, SrcX: 0, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: fw, DstY: 0, SrcX: sw, SrcY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: 0, DstY: fh, SrcX: 0, SrcY: sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: fw, DstY: fh, SrcX: sw, SrcY: sh, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2, 1, 2, 3}

	op := &ebiten.DrawTrianglesShaderOptions{
		Uniforms: shader.Uniforms(snap.Params, v.cfg.BackgroundColor()),
	}
	op.Images[0] = v.srcTex
	screen.DrawTrianglesShader(vertices, indices, v.shader, op)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.layoutW || outsideHeight != v.layoutH {
		if err := v.renderer.OnResize(outsideWidth, outsideHeight); err != nil {
			// Minimized windows report 0x0; keep drawing at the last valid size.
			v.log.Debug("resize ignored", "width", outsideWidth, "height", outsideHeight, "err", err)
			return v.layoutW, v.layoutH
		}
		v.layoutW, v.layoutH = outsideWidth, outsideHeight
	}
	return v.layoutW, v.layoutH
}
