//go:build !headless

package main

import (
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/frame"
	"fisheye-equirect/internal/projection"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	r := frame.NewRenderer(src, frame.Options{Params: projection.DefaultParams(), Logger: log})
	require.NoError(t, r.Initialize(64, 32))
	return &viewer{cfg: config.Config{}, renderer: r, log: log, layoutW: 64, layoutH: 32}
}

func TestLayoutForwardsResize(t *testing.T) {
	v := newTestViewer(t)

	w, h := v.Layout(100, 40)
	assert.Equal(t, 100, w)
	assert.Equal(t, 40, h)
	rw, rh := v.renderer.Size()
	assert.Equal(t, 100, rw)
	assert.Equal(t, 40, rh)
}

func TestLayoutKeepsLastSizeWhenMinimized(t *testing.T) {
	v := newTestViewer(t)

	w, h := v.Layout(0, 0)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
	rw, rh := v.renderer.Size()
	assert.Equal(t, 64, rw)
	assert.Equal(t, 32, rh)
}
