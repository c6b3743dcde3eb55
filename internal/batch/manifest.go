package batch

import (
	"encoding/json"
	"os"

	"fisheye-equirect/internal/mathutil"
)

// Manifest describes a batch run's output directory.
type Manifest struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	FOVDegrees float64         `json:"fov_degrees"`
	CenterX    float64         `json:"center_x"`
	CenterY    float64         `json:"center_y"`
	Frames     []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Index      int     `json:"index"`
	YawDegrees float64 `json:"yaw_degrees"`
	Image      string  `json:"image"`
}

// WriteManifest writes manifest.json listing the successful results.
func WriteManifest(path string, cfg Config, results []Result) error {
	m := Manifest{
		Width:      cfg.Width,
		Height:     cfg.Height,
		FOVDegrees: mathutil.Rad2Deg(cfg.Params.FOV),
		CenterX:    cfg.Params.Center.X,
		CenterY:    cfg.Params.Center.Y,
		Frames:     []ManifestEntry{},
	}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index:      r.Index,
			YawDegrees: mathutil.Rad2Deg(r.Yaw),
			Image:      r.File,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
