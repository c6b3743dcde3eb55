package projection

import (
	"errors"
	"fmt"
	"math"

	"fisheye-equirect/internal/mathutil"
)

// ErrInvalidParams is wrapped by every Params.Validate failure.
var ErrInvalidParams = errors.New("projection: invalid parameters")

// Point is a 2D point in normalized image space.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Params is the per-frame projection state. It is passed by value; a render
// pass works on its own copy.
type Params struct {
	FOV    float64 // lens field of view, radians
	Center Point   // optical center in normalized fisheye space

	// Interaction offset applied to the viewing direction, radians.
	Yaw   float64
	Pitch float64
}

// DefaultParams returns a 180° lens centered in the image, looking straight ahead.
func DefaultParams() Params {
	return Params{
		FOV:    math.Pi,
		Center: Point{0.5, 0.5},
	}
}

// Validate reports whether p can be fed to the kernel.
func (p Params) Validate() error {
	if !finite(p.FOV) || p.FOV <= 0 || p.FOV > 2*math.Pi {
		return fmt.Errorf("%w: fov %v outside (0, 2π]", ErrInvalidParams, p.FOV)
	}
	if p.FOV/2 == 0 {
		return fmt.Errorf("%w: fov %v too small to divide", ErrInvalidParams, p.FOV)
	}
	if !finite(p.Center.X) || !finite(p.Center.Y) {
		return fmt.Errorf("%w: center (%v, %v) not finite", ErrInvalidParams, p.Center.X, p.Center.Y)
	}
	if !finite(p.Yaw) || !finite(p.Pitch) {
		return fmt.Errorf("%w: view offset (%v, %v) not finite", ErrInvalidParams, p.Yaw, p.Pitch)
	}
	return nil
}

// PointerOffset maps a pointer position normalized to [0,1]² (origin top-left)
// to a view offset. The horizontal axis spans a full turn of yaw, the
// vertical axis spans pitch from straight up (top edge) to straight down.
// The view center (0.5, 0.5) is the zero offset.
func PointerOffset(px, py float64) (yaw, pitch float64) {
	px = clamp01(px)
	py = clamp01(py)
	yaw = (px - 0.5) * 2 * math.Pi
	pitch = (0.5 - py) * math.Pi
	return yaw, pitch
}

// NDC returns the normalized device coordinate of the center of pixel (x, y)
// in a w×h surface. Row 0 is the top edge (v near +1).
func NDC(x, y, w, h int) (u, v float64) {
	u = 2*(float64(x)+0.5)/float64(w) - 1
	v = 1 - 2*(float64(y)+0.5)/float64(h)
	return u, v
}

// Rotation returns the view rotation for p's offset.
func (p Params) Rotation() mathutil.Mat3 {
	return mathutil.ViewRotation(p.Yaw, p.Pitch)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clamp01(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
