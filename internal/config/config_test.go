package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "MODEL_PATH", "METADATA_PATH", "MAX_UPLOAD_BYTES", "REQUEST_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "models/cdae.onnx", cfg.ModelPath)
	assert.Equal(t, "models/cdae_metadata.json", cfg.MetadataPath)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MODEL_PATH", "/opt/models/denoiser.onnx")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/opt/models/denoiser.onnx", cfg.ModelPath)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric upload limit", key: "MAX_UPLOAD_BYTES", value: "ten megabytes"},
		{name: "negative upload limit", key: "MAX_UPLOAD_BYTES", value: "-1"},
		{name: "malformed timeout", key: "REQUEST_TIMEOUT", value: "soon"},
		{name: "zero timeout", key: "REQUEST_TIMEOUT", value: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
