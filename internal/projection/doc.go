// Package projection maps equirectangular output coordinates to sampling
// coordinates in an equidistant fisheye image.
//
// Output coordinates are normalized device coordinates (u, v) ∈ [-1, 1]²,
// where u spans longitude [-π, π] and v spans latitude [-π/2, π/2]. Fisheye
// coordinates (s, t) are normalized to the image square with t growing
// upward, the usual texture convention.
package projection
