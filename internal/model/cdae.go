// Package model runs inference with the pretrained convolutional denoising
// autoencoder (CDAE) through ONNX Runtime.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/denoiselab/denoise-api/internal/imaging"
)

// ErrModelUnavailable marks every failure to load or locate the CDAE
// weights. Inference fails fast with it instead of passing the input
// through, so callers can surface a clear message.
var ErrModelUnavailable = errors.New("denoising model unavailable")

// Handle is the process-wide CDAE session. It is initialized lazily,
// exactly once, on the first inference; after that it is read-only except
// for the mutex serializing access to the session's bound tensors.
type Handle struct {
	modelPath    string
	metadataPath string

	once    sync.Once
	loadErr error

	// mu guards inputTensor/outputTensor, which are bound to the session
	// and reused across calls.
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	meta         Metadata
}

func NewHandle(modelPath, metadataPath string) *Handle {
	return &Handle{modelPath: modelPath, metadataPath: metadataPath}
}

// Warm attempts the one-time load so a missing model is reported at
// startup rather than on the first cdae request.
func (h *Handle) Warm() error {
	return h.load()
}

func (h *Handle) load() error {
	h.once.Do(func() {
		h.loadErr = h.initialize()
	})
	return h.loadErr
}

func (h *Handle) initialize() error {
	// Checked before touching the runtime so an absent model never drags
	// in the ONNX shared library.
	if _, err := os.Stat(h.modelPath); err != nil {
		return fmt.Errorf("%w: weights not found at %s", ErrModelUnavailable, h.modelPath)
	}

	metaFile, err := os.ReadFile(h.metadataPath)
	if err != nil {
		return fmt.Errorf("%w: read metadata: %v", ErrModelUnavailable, err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaFile, &meta); err != nil {
		return fmt.Errorf("%w: parse metadata: %v", ErrModelUnavailable, err)
	}
	if meta.ImageSize <= 0 || len(meta.InputShape) != 4 || len(meta.OutputShape) != 4 {
		return fmt.Errorf("%w: metadata must declare image_size and 4-dim tensor shapes", ErrModelUnavailable)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("%w: initialize ONNX environment: %v", ErrModelUnavailable, err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return fmt.Errorf("%w: create input tensor: %v", ErrModelUnavailable, err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return fmt.Errorf("%w: create output tensor: %v", ErrModelUnavailable, err)
	}

	session, err := ort.NewAdvancedSession(h.modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return fmt.Errorf("%w: create ONNX session: %v", ErrModelUnavailable, err)
	}

	h.meta = meta
	h.inputTensor = inputTensor
	h.outputTensor = outputTensor
	h.session = session
	return nil
}

// Infer denoises the buffer with the loaded model. Buffers already at the
// model's native resolution are fed through untouched; anything else is
// resized to the native shape and the output resized back to the original
// dimensions, so output shape always equals input shape.
func (h *Handle) Infer(ctx context.Context, buf *imaging.Buffer) (*imaging.Buffer, error) {
	if err := h.load(); err != nil {
		return nil, err
	}

	native := h.meta.ImageSize
	input := buf
	rescaled := buf.Width != native || buf.Height != native
	if rescaled {
		input = resizeBuffer(buf, native, native)
	}

	out, err := h.run(ctx, input)
	if err != nil {
		return nil, err
	}

	if rescaled {
		out = resizeBuffer(out, buf.Width, buf.Height)
	}
	return out, nil
}

func (h *Handle) run(ctx context.Context, in *imaging.Buffer) (*imaging.Buffer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	packCHW(in, h.inputTensor.GetData())
	if err := h.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return unpackCHW(h.outputTensor.GetData(), in.Width, in.Height), nil
}

// Close releases the session and tensors if the handle ever loaded.
func (h *Handle) Close() {
	if h.loadErr != nil || h.session == nil {
		return
	}
	h.inputTensor.Destroy()
	h.outputTensor.Destroy()
	h.session.Destroy()
	ort.DestroyEnvironment()
}
