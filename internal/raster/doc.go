// Package raster holds the CPU render path: the output FrameBuffer, the
// bilinear Sampler and the Pass that runs the projection kernel per pixel.
package raster
