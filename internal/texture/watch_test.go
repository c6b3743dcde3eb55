package texture

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fisheye.png")
	writePNG(t, path, testImage(4, 4, color.NRGBA{255, 0, 0, 255}))

	cache := NewCache()
	_, err := cache.Resolve(path)
	require.NoError(t, err)

	w, err := Watch(path, cache, nil)
	require.NoError(t, err)
	defer w.Close()

	// Write the replacement next to the source and rename it into place.
	tmp := filepath.Join(dir, "next.png")
	writePNG(t, tmp, testImage(4, 4, color.NRGBA{0, 0, 255, 255}))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case img := <-w.Updates():
		require.NotNil(t, img)
		assert.Equal(t, color.NRGBA{0, 0, 255, 255}, img.NRGBAAt(1, 1))
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}

	cached, err := cache.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, cached.NRGBAAt(0, 0))
}

func TestWatcherCloseEndsUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fisheye.png")
	writePNG(t, path, testImage(2, 2, color.NRGBA{9, 9, 9, 255}))

	w, err := Watch(path, NewCache(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Updates():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("updates channel not closed")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "no", "such", "file.png"), NewCache(), nil)
	assert.Error(t, err)
}
