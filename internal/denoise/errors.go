package denoise

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMethod rejects a method outside cdae/mean/median/wavelet.
	ErrInvalidMethod = errors.New("unknown denoising method")

	// ErrInvalidStrength rejects strength outside [0,1]. Out-of-range
	// values are rejected, not clamped: the client slider already stays
	// in range, so anything else is a malformed request.
	ErrInvalidStrength = errors.New("strength must be a number within [0, 1]")

	// ErrUploadTooLarge rejects uploads over the configured byte limit
	// before any processing starts.
	ErrUploadTooLarge = errors.New("uploaded file exceeds the size limit")

	// ErrTimeout replaces any partial result when processing outlives the
	// request deadline.
	ErrTimeout = errors.New("processing timed out")
)

// Pipeline stage names carried by StageError.
const (
	StageDecode    = "decode"
	StageFilter    = "filter"
	StageInference = "inference"
	StageEncode    = "encode"
)

// StageError wraps a processing failure with the pipeline stage it
// occurred in. The underlying error keeps its identity through Unwrap, so
// errors.Is/As still see sentinels like ErrModelUnavailable or a
// *imaging.DecodeError.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
