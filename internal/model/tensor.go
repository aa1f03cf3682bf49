package model

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/denoiselab/denoise-api/internal/imaging"
)

// packCHW lays the interleaved RGB buffer out as the planar [1, 3, H, W]
// tensor the model expects: the full red plane, then green, then blue.
func packCHW(buf *imaging.Buffer, dst []float32) {
	planeSize := buf.Width * buf.Height
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			i := y*buf.Width + x
			dst[i] = buf.At(x, y, 0)
			dst[planeSize+i] = buf.At(x, y, 1)
			dst[2*planeSize+i] = buf.At(x, y, 2)
		}
	}
}

// unpackCHW rebuilds an interleaved buffer from the planar model output,
// clamping samples back into [0,1].
func unpackCHW(src []float32, width, height int) *imaging.Buffer {
	buf := imaging.NewBuffer(width, height, 3)
	planeSize := width * height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			buf.Set(x, y, 0, imaging.Clamp01(src[i]))
			buf.Set(x, y, 1, imaging.Clamp01(src[planeSize+i]))
			buf.Set(x, y, 2, imaging.Clamp01(src[2*planeSize+i]))
		}
	}
	return buf
}

// resizeBuffer rescales the buffer with Lanczos3 resampling.
func resizeBuffer(buf *imaging.Buffer, width, height int) *imaging.Buffer {
	var img image.Image = imaging.ToNRGBA(buf)
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	return imaging.FromImage(resized)
}
