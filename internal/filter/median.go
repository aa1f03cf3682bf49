package filter

import (
	"slices"

	"github.com/denoiselab/denoise-api/internal/imaging"
)

// medianFilter replaces each sample with the median of its k x k window,
// computed independently per channel. Windows reaching past the border use
// the same replicate policy as the mean filter, so k*k is always odd and
// the median is a single sample from the window.
func medianFilter(src *imaging.Buffer, k int) *imaging.Buffer {
	r := k / 2
	dst := imaging.NewBuffer(src.Width, src.Height, src.Channels)
	window := make([]float32, 0, k*k)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				window = window[:0]
				for dy := -r; dy <= r; dy++ {
					sy := clampIndex(y+dy, src.Height)
					for dx := -r; dx <= r; dx++ {
						window = append(window, src.At(clampIndex(x+dx, src.Width), sy, c))
					}
				}
				slices.Sort(window)
				dst.Set(x, y, c, window[len(window)/2])
			}
		}
	}
	return dst
}
