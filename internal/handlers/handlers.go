// Package handlers exposes the denoising pipeline over HTTP.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/denoiselab/denoise-api/internal/denoise"
	"github.com/denoiselab/denoise-api/internal/imaging"
	"github.com/denoiselab/denoise-api/internal/model"
)

// Processor runs one validated denoising request.
type Processor interface {
	Process(ctx context.Context, req denoise.Request) (*denoise.Result, error)
}

type Handler struct {
	pipeline       Processor
	maxUploadBytes int64
	timeout        time.Duration
}

func New(pipeline Processor, maxUploadBytes int64, timeout time.Duration) *Handler {
	return &Handler{
		pipeline:       pipeline,
		maxUploadBytes: maxUploadBytes,
		timeout:        timeout,
	}
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/denoise", h.Denoise)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Denoise accepts a multipart upload with fields file, method and
// strength, and responds with the denoised PNG or a JSON error body. Size
// and content-type are checked before the pipeline so oversized or
// non-image uploads are rejected cheaply.
func (h *Handler) Denoise(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided; use 'file' as the form field name"})
		return
	}

	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("%v (%d bytes, limit %d)", denoise.ErrUploadTooLarge, file.Size, h.maxUploadBytes),
		})
		return
	}

	method, err := denoise.ParseMethod(c.DefaultPostForm("method", "cdae"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strengthField := c.DefaultPostForm("strength", "0.5")
	strength, err := strconv.ParseFloat(strengthField, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%v: %q is not a number", denoise.ErrInvalidStrength, strengthField),
		})
		return
	}

	f, err := file.Open()
	if err != nil {
		log.Err(err).Str("file", file.Filename).Msg("open form file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Err(err).Str("file", file.Filename).Msg("read form file")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("upload does not look like an image (detected %s)", ct),
		})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.pipeline.Process(ctx, denoise.Request{
		Data:     data,
		Method:   method,
		Strength: strength,
	})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Err(err).Str("method", string(method)).Msg("denoise request failed")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func statusFor(err error) int {
	var decodeErr *imaging.DecodeError
	switch {
	case errors.Is(err, denoise.ErrInvalidMethod),
		errors.Is(err, denoise.ErrInvalidStrength),
		errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.Is(err, denoise.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, denoise.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
