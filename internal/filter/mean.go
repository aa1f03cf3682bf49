package filter

import "github.com/denoiselab/denoise-api/internal/imaging"

// meanFilter averages a k x k window around each pixel, per channel. The
// box is separable, so it runs as a horizontal pass followed by a vertical
// pass with replicated borders.
func meanFilter(src *imaging.Buffer, k int) *imaging.Buffer {
	r := k / 2
	inv := 1.0 / float32(k)

	tmp := imaging.NewBuffer(src.Width, src.Height, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				var sum float32
				for dx := -r; dx <= r; dx++ {
					sum += src.At(clampIndex(x+dx, src.Width), y, c)
				}
				tmp.Set(x, y, c, sum*inv)
			}
		}
	}

	dst := imaging.NewBuffer(src.Width, src.Height, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < src.Channels; c++ {
				var sum float32
				for dy := -r; dy <= r; dy++ {
					sum += tmp.At(x, clampIndex(y+dy, src.Height), c)
				}
				dst.Set(x, y, c, sum*inv)
			}
		}
	}
	return dst
}
