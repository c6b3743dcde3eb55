package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"fisheye-equirect/internal/mathutil"
	"fisheye-equirect/internal/projection"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the source path, lens model and render settings.
type Config struct {
	// Paths
	Source    string `json:"source" toml:"source"`
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Lens
	FOVDegrees float64 `json:"fov_degrees" toml:"fov_degrees"`
	// Center is nil when neither the file nor the flags name one, so an
	// explicit (0, 0) is kept.
	Center *projection.Point `json:"center" toml:"center"`

	// Render settings
	Width       int    `json:"width" toml:"width"`
	Height      int    `json:"height" toml:"height"`
	Supersample int    `json:"supersample" toml:"supersample"`
	Workers     int    `json:"workers" toml:"workers"`
	Background  string `json:"background" toml:"background"` // "#rrggbb" or "#rrggbbaa"

	// Viewer
	GPU   bool `json:"gpu" toml:"gpu"`
	Watch bool `json:"watch" toml:"watch"`

	// Export
	Frames int    `json:"frames" toml:"frames"`
	Format string `json:"format" toml:"format"` // "webp" or "png"
}

// Load reads a JSON or TOML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Source != "" {
		c.Source = flags.Source
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.FOVDegrees > 0 {
		c.FOVDegrees = flags.FOVDegrees
	}
	if flags.Center != nil {
		pt := *flags.Center
		c.Center = &pt
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	c.GPU = c.GPU || flags.GPU
	c.Watch = c.Watch || flags.Watch

	// Defaults
	if c.FOVDegrees <= 0 {
		c.FOVDegrees = 180
	}
	if c.Center == nil {
		c.Center = &projection.Point{X: 0.5, Y: 0.5}
	}
	if c.Width <= 0 {
		c.Width = 1024
	}
	if c.Height <= 0 {
		c.Height = c.Width / 2
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	c.Format = strings.ToLower(c.Format)
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("%w: no source image", ErrInvalid)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if c.Format != "webp" && c.Format != "png" {
		return fmt.Errorf("%w: format %q", ErrInvalid, c.Format)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Params returns the initial projection parameters described by c.
// An unresolved config uses the default center.
func (c *Config) Params() projection.Params {
	p := projection.DefaultParams()
	p.FOV = mathutil.Deg2Rad(c.FOVDegrees)
	if c.Center != nil {
		p.Center = *c.Center
	}
	return p
}

// BackgroundColor returns the parsed background, or opaque black when the
// string does not parse.
func (c *Config) BackgroundColor() color.NRGBA {
	col, err := ParseColor(c.Background)
	if err != nil {
		return color.NRGBA{0, 0, 0, 255}
	}
	return col
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Source      string
	OutputDir   string
	FOVDegrees  float64
	Center      *projection.Point
	Width       int
	Height      int
	Supersample int
	Workers     int
	Background  string
	Frames      int
	Format      string
	GPU         bool
	Watch       bool
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("config: color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (projection.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return projection.Point{}, fmt.Errorf("config: point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return projection.Point{}, fmt.Errorf("config: point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return projection.Point{}, fmt.Errorf("config: point %q: %w", s, err)
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return projection.Point{}, fmt.Errorf("config: point %q: NaN", s)
	}
	return projection.Point{X: x, Y: y}, nil
}
