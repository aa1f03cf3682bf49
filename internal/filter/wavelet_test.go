package filter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPlane(w, h int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	plane := make([]float32, w*h)
	for i := range plane {
		plane[i] = rng.Float32()
	}
	return plane
}

// Analysis followed by synthesis with untouched coefficients must
// reproduce the plane, including at dimensions that need padding.
func TestHaarPerfectReconstruction(t *testing.T) {
	dims := []struct{ w, h int }{{16, 16}, {17, 13}, {5, 32}, {2, 2}, {3, 3}}
	for _, d := range dims {
		plane := randomPlane(d.w, d.h, int64(d.w*100+d.h))
		approx, aw, ah, levels := decompose(plane, d.w, d.h)
		out := reconstruct(approx, aw, ah, levels)

		require.Len(t, out, d.w*d.h, "%dx%d", d.w, d.h)
		for i := range plane {
			assert.InDelta(t, plane[i], out[i], 1e-5, "%dx%d sample %d", d.w, d.h, i)
		}
	}
}

func TestDecomposeLevelCount(t *testing.T) {
	_, _, _, levels := decompose(randomPlane(32, 32, 1), 32, 32)
	require.Len(t, levels, waveletLevels)

	// Too small to split even once.
	_, _, _, levels = decompose(randomPlane(1, 1, 1), 1, 1)
	require.Empty(t, levels)
}

func TestSoftThreshold(t *testing.T) {
	coeffs := []float32{-0.5, -0.1, 0, 0.05, 0.1, 0.4}
	softThreshold(coeffs, 0.1)
	want := []float32{-0.4, 0, 0, 0, 0, 0.3}
	for i := range want {
		assert.InDelta(t, want[i], coeffs[i], 1e-6, "coefficient %d", i)
	}
}

func TestThresholdForMonotonic(t *testing.T) {
	assert.Greater(t, thresholdFor(0), float32(0), "strength 0 keeps a minimal threshold")
	prev := float32(-1)
	for _, s := range []float64{0, 0.2, 0.4, 0.6, 0.8, 1} {
		tv := thresholdFor(s)
		assert.Greater(t, tv, prev)
		prev = tv
	}
}

func TestPadReplicate(t *testing.T) {
	// 3x3 plane padded to 4x4 repeats the last row and column.
	plane := []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}
	p := padReplicate(plane, 3, 3, 4, 4)
	want := []float32{
		1, 2, 3, 3,
		4, 5, 6, 6,
		7, 8, 9, 9,
		7, 8, 9, 9,
	}
	require.Equal(t, want, p)
}
