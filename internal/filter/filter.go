// Package filter implements the classical denoising filters: mean, median
// and wavelet thresholding. Every filter is a pure function of the input
// buffer and the strength scalar, preserves the buffer's dimensions and
// channel count, and is safe to call concurrently on independent buffers.
package filter

import (
	"fmt"

	"github.com/denoiselab/denoise-api/internal/imaging"
)

// Kind selects one of the classical filters.
type Kind string

const (
	Mean    Kind = "mean"
	Median  Kind = "median"
	Wavelet Kind = "wavelet"
)

// KernelSize maps strength in [0,1] to an odd kernel size in [3,11].
// The mapping is monotonic: strength 0 gives the minimal 3x3 window,
// strength 1 the maximal 11x11.
func KernelSize(strength float64) int {
	k := 3 + int(strength*8+0.5)
	if k%2 == 0 {
		k++
	}
	if k > 11 {
		k = 11
	}
	return k
}

// Apply runs the selected filter. Strength is assumed to be validated to
// [0,1] by the caller.
func Apply(buf *imaging.Buffer, kind Kind, strength float64) (*imaging.Buffer, error) {
	switch kind {
	case Mean:
		return meanFilter(buf, KernelSize(strength)), nil
	case Median:
		return medianFilter(buf, KernelSize(strength)), nil
	case Wavelet:
		return waveletDenoise(buf, thresholdFor(strength)), nil
	default:
		return nil, fmt.Errorf("unknown filter kind %q", kind)
	}
}

// clampIndex implements the replicate boundary policy shared by the mean
// and median filters: samples past the border repeat the edge pixel.
func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i >= max {
		return max - 1
	}
	return i
}
