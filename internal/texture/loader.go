package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnreadable is wrapped by every Load failure: the file is missing, not a
// supported image, corrupt, or has no pixels.
var ErrUnreadable = errors.New("texture: unreadable image")

type decodeFunc func(io.Reader) (image.Image, error)

// decoders are picked by extension. TGA has no magic number, so sniffing
// with image.Decode cannot be trusted once it is registered.
var decoders = map[string]decodeFunc{
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Load reads an image file and returns it as NRGBA with its origin at (0, 0).
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w: %w", path, ErrUnreadable, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("texture: %w: unknown extension %q", ErrUnreadable, ext)
	}

	img, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w: %w", path, ErrUnreadable, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("texture: %s: %w: zero-sized image", path, ErrUnreadable)
	}

	return ToNRGBA(img), nil
}

// Supported reports whether Load knows how to decode path.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ToNRGBA converts any image to NRGBA with bounds starting at (0, 0).
// NRGBA inputs already at the origin are returned as-is.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
