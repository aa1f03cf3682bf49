package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/denoiselab/denoise-api/internal/config"
	"github.com/denoiselab/denoise-api/internal/denoise"
	"github.com/denoiselab/denoise-api/internal/handlers"
	"github.com/denoiselab/denoise-api/internal/model"
)

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	cdae := model.NewHandle(cfg.ModelPath, cfg.MetadataPath)
	defer cdae.Close()

	// The handle loads lazily under sync.Once; warming here just reports
	// a missing model at startup instead of on the first cdae request.
	if err := cdae.Warm(); err != nil {
		log.Warn().Err(err).Msg("CDAE not loaded; cdae requests will fail until weights are provided")
	} else {
		log.Info().Str("model", cfg.ModelPath).Msg("CDAE model loaded")
	}

	pipeline := denoise.NewPipeline(cdae)
	handler := handlers.New(pipeline, cfg.MaxUploadBytes, cfg.RequestTimeout)

	e := gin.Default()
	e.Use(corsMiddleware())
	handler.Register(e)

	log.Info().
		Str("port", cfg.Port).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("server starting")

	if err := e.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("run server")
	}
}
