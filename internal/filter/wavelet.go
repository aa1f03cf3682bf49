package filter

import "github.com/denoiselab/denoise-api/internal/imaging"

// Wavelet denoising: each channel is decomposed with a 2-level Haar
// transform, the detail subbands are soft-thresholded, and the plane is
// reconstructed. The threshold scales linearly with strength; the 0.2
// offset keeps strength 0 from degenerating to a pure identity.
//
// Odd dimensions are padded to even by replicating the last row/column at
// each level and cropped back on reconstruction, so output dimensions
// always match the input.
const (
	waveletLevels = 2
	baseThreshold = 20.0 / 255.0
)

func thresholdFor(strength float64) float32 {
	return float32(baseThreshold * (0.2 + strength))
}

func waveletDenoise(src *imaging.Buffer, threshold float32) *imaging.Buffer {
	dst := imaging.NewBuffer(src.Width, src.Height, src.Channels)
	for c := 0; c < src.Channels; c++ {
		plane := src.Plane(c)
		dst.SetPlane(c, denoisePlane(plane, src.Width, src.Height, threshold))
	}
	return dst
}

// level holds one decomposition step: the pre-pad plane dimensions and the
// three detail subbands of size lw x lh.
type level struct {
	w, h   int
	lw, lh int
	cH     []float32
	cV     []float32
	cD     []float32
}

func denoisePlane(plane []float32, w, h int, threshold float32) []float32 {
	approx, aw, ah, levels := decompose(plane, w, h)
	for _, l := range levels {
		softThreshold(l.cH, threshold)
		softThreshold(l.cV, threshold)
		softThreshold(l.cD, threshold)
	}
	return reconstruct(approx, aw, ah, levels)
}

// decompose runs up to waveletLevels analysis steps, recursing on the
// approximation subband. Each step follows the row-then-column separable
// pattern, expressed directly on 2x2 blocks of the padded plane.
func decompose(plane []float32, w, h int) ([]float32, int, int, []level) {
	cur, cw, ch := plane, w, h
	var levels []level

	for i := 0; i < waveletLevels; i++ {
		if cw < 2 || ch < 2 {
			break
		}
		pw, ph := cw+(cw&1), ch+(ch&1)
		p := padReplicate(cur, cw, ch, pw, ph)

		lw, lh := pw/2, ph/2
		cA := make([]float32, lw*lh)
		l := level{w: cw, h: ch, lw: lw, lh: lh,
			cH: make([]float32, lw*lh),
			cV: make([]float32, lw*lh),
			cD: make([]float32, lw*lh),
		}
		for y := 0; y < lh; y++ {
			for x := 0; x < lw; x++ {
				a := p[2*y*pw+2*x]
				b := p[2*y*pw+2*x+1]
				c := p[(2*y+1)*pw+2*x]
				d := p[(2*y+1)*pw+2*x+1]
				i := y*lw + x
				cA[i] = (a + b + c + d) / 2
				l.cH[i] = (a - b + c - d) / 2
				l.cV[i] = (a + b - c - d) / 2
				l.cD[i] = (a - b - c + d) / 2
			}
		}
		levels = append(levels, l)
		cur, cw, ch = cA, lw, lh
	}
	return cur, cw, ch, levels
}

// reconstruct inverts decompose, coarsest level first, cropping each
// synthesized plane back to its pre-pad dimensions.
func reconstruct(approx []float32, aw, ah int, levels []level) []float32 {
	cur := approx
	for i := len(levels) - 1; i >= 0; i-- {
		l := levels[i]
		pw, ph := l.w+(l.w&1), l.h+(l.h&1)
		p := make([]float32, pw*ph)
		for y := 0; y < l.lh; y++ {
			for x := 0; x < l.lw; x++ {
				j := y*l.lw + x
				cA, cH, cV, cD := cur[j], l.cH[j], l.cV[j], l.cD[j]
				p[2*y*pw+2*x] = (cA + cH + cV + cD) / 2
				p[2*y*pw+2*x+1] = (cA - cH + cV - cD) / 2
				p[(2*y+1)*pw+2*x] = (cA + cH - cV - cD) / 2
				p[(2*y+1)*pw+2*x+1] = (cA - cH - cV + cD) / 2
			}
		}
		cur = crop(p, pw, l.w, l.h)
	}
	return cur
}

func softThreshold(coeffs []float32, t float32) {
	for i, v := range coeffs {
		switch {
		case v > t:
			coeffs[i] = v - t
		case v < -t:
			coeffs[i] = v + t
		default:
			coeffs[i] = 0
		}
	}
}

func padReplicate(plane []float32, w, h, pw, ph int) []float32 {
	if pw == w && ph == h {
		return plane
	}
	p := make([]float32, pw*ph)
	for y := 0; y < ph; y++ {
		sy := clampIndex(y, h)
		for x := 0; x < pw; x++ {
			p[y*pw+x] = plane[sy*w+clampIndex(x, w)]
		}
	}
	return p
}

func crop(plane []float32, pw, w, h int) []float32 {
	out := make([]float32, w*h)
	for y := 0; y < h; y++ {
		copy(out[y*w:(y+1)*w], plane[y*pw:y*pw+w])
	}
	return out
}
