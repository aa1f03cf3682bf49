// Package denoise validates denoising requests and drives them through
// decode, filtering or inference, and encode.
package denoise

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/denoiselab/denoise-api/internal/filter"
	"github.com/denoiselab/denoise-api/internal/imaging"
)

// Method identifies a denoising algorithm.
type Method string

const (
	MethodCDAE    Method = "cdae"
	MethodMean    Method = "mean"
	MethodMedian  Method = "median"
	MethodWavelet Method = "wavelet"
)

// ParseMethod normalizes and validates a client-supplied method string.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(s)); m {
	case MethodCDAE, MethodMean, MethodMedian, MethodWavelet:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
	}
}

// Request is one denoising job, built at the service boundary and
// immutable afterwards.
type Request struct {
	Data     []byte
	Method   Method
	Strength float64
}

// Result is the encoded output of one job. Results are never cached;
// identical requests recompute.
type Result struct {
	Data        []byte
	ContentType string
}

// Inferencer runs the learned denoiser on a decoded buffer.
type Inferencer interface {
	Infer(ctx context.Context, buf *imaging.Buffer) (*imaging.Buffer, error)
}

// Pipeline dispatches requests to the classical filters or the CDAE.
type Pipeline struct {
	cdae Inferencer
}

func NewPipeline(cdae Inferencer) *Pipeline {
	return &Pipeline{cdae: cdae}
}

// Process validates the request, then runs decode, the selected method and
// encode. Validation failures return before any decode is attempted. If
// the context expires first, the result is ErrTimeout and the worker
// goroutine's buffers are abandoned for collection.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	if _, err := ParseMethod(string(req.Method)); err != nil {
		return nil, err
	}
	if math.IsNaN(req.Strength) || req.Strength < 0 || req.Strength > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidStrength, req.Strength)
	}

	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := p.run(ctx, req)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case o := <-done:
		return o.res, o.err
	}
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	buf, err := imaging.Decode(req.Data)
	if err != nil {
		return nil, &StageError{Stage: StageDecode, Err: err}
	}

	var out *imaging.Buffer
	switch req.Method {
	case MethodCDAE:
		denoised, err := p.cdae.Infer(ctx, buf)
		if err != nil {
			return nil, &StageError{Stage: StageInference, Err: err}
		}
		out = blend(buf, denoised, req.Strength)
	default:
		out, err = filter.Apply(buf, filter.Kind(req.Method), req.Strength)
		if err != nil {
			return nil, &StageError{Stage: StageFilter, Err: err}
		}
	}

	data, err := imaging.EncodePNG(out)
	if err != nil {
		return nil, &StageError{Stage: StageEncode, Err: err}
	}
	return &Result{Data: data, ContentType: "image/png"}, nil
}

// blend gives the cdae method its strength semantics: a per-sample mix of
// (1-strength)*original + strength*denoised. Strength 0 reproduces the
// input, strength 1 is the raw model output.
func blend(orig, denoised *imaging.Buffer, strength float64) *imaging.Buffer {
	s := float32(strength)
	out := imaging.NewBuffer(orig.Width, orig.Height, orig.Channels)
	for i := range out.Pix {
		out.Pix[i] = (1-s)*orig.Pix[i] + s*denoised.Pix[i]
	}
	return out
}
