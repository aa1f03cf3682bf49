// Package config collects the service's environment-driven settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort           = "8080"
	defaultModelPath      = "models/cdae.onnx"
	defaultMetadataPath   = "models/cdae_metadata.json"
	defaultMaxUploadBytes = 10 << 20
	defaultRequestTimeout = 30 * time.Second
)

type Config struct {
	Port           string
	ModelPath      string
	MetadataPath   string
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           defaultPort,
		ModelPath:      defaultModelPath,
		MetadataPath:   defaultMetadataPath,
		MaxUploadBytes: defaultMaxUploadBytes,
		RequestTimeout: defaultRequestTimeout,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("METADATA_PATH"); v != "" {
		cfg.MetadataPath = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q", v)
		}
		cfg.RequestTimeout = d
	}
	return cfg, nil
}
