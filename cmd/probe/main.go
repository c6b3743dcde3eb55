package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"fisheye-equirect/internal/config"
	"fisheye-equirect/internal/mathutil"
	"fisheye-equirect/internal/projection"
	"fisheye-equirect/internal/raster"
	"fisheye-equirect/internal/texture"
)

func main() {
	fov := flag.Float64("fov", 180, "Lens field of view in degrees")
	center := flag.String("center", "0.5,0.5", "Optical center as x,y")
	yaw := flag.Float64("yaw", 0, "View yaw in degrees")
	pitch := flag.Float64("pitch", 0, "View pitch in degrees")
	size := flag.String("size", "", "Surface size WxH; arguments are then pixel x,y instead of NDC u,v")
	source := flag.String("source", "", "Optional fisheye image to sample")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: probe [flags] u,v [u,v ...]")
		os.Exit(2)
	}

	c, err := config.ParsePoint(*center)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	p := projection.Params{
		FOV:    mathutil.Deg2Rad(*fov),
		Center: c,
		Yaw:    mathutil.Deg2Rad(*yaw),
		Pitch:  mathutil.Deg2Rad(*pitch),
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	var w, h int
	if *size != "" {
		ws, hs, ok := strings.Cut(strings.ToLower(*size), "x")
		w, _ = strconv.Atoi(ws)
		h, _ = strconv.Atoi(hs)
		if !ok || w <= 0 || h <= 0 {
			fmt.Fprintf(os.Stderr, "Error: bad -size %q\n", *size)
			os.Exit(2)
		}
	}

	var tex *image.NRGBA
	if *source != "" {
		tex, err = texture.Load(*source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	k := p.Kernel()
	for _, arg := range flag.Args() {
		pt, err := config.ParsePoint(arg)
		if err != nil {
			fmt.Printf("%-16s error: %v\n", arg, err)
			continue
		}
		u, v := pt.X, pt.Y
		if w > 0 {
			u, v = projection.NDC(int(pt.X), int(pt.Y), w, h)
		}

		res := k.Project(u, v)
		if !res.Covered {
			fmt.Printf("%-16s u=%+.5f v=%+.5f  no coverage\n", arg, u, v)
			continue
		}
		line := fmt.Sprintf("%-16s u=%+.5f v=%+.5f  s=%.5f t=%.5f r=%.5f", arg, u, v, res.S, res.T, res.R)
		if tex != nil {
			col := raster.SampleBilinear(tex, res.S, 1-res.T)
			line += fmt.Sprintf("  rgba=(%d,%d,%d,%d)", col.R, col.G, col.B, col.A)
		}
		fmt.Println(line)
	}
}
