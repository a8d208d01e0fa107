package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("OCR_API_BASE_URL", "https://models.example.com/v1")
	t.Setenv("OCR_API_KEY", "sk-test")
	t.Setenv("OCR_MODEL", "vision-large")
	t.Setenv("OCR_TIMEOUT", "30s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://models.example.com/v1", cfg.OCR.BaseURL)
	assert.Equal(t, "vision-large", cfg.OCR.Model)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 4096, cfg.OCR.MaxTokens)

	// The structuring model inherits the vision endpoint when unset.
	assert.Equal(t, cfg.OCR.BaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 2048, cfg.LLM.MaxTokens)

	assert.Equal(t, 300, cfg.Extract.DPI)
	assert.Equal(t, 100, cfg.Extract.MinNativeChars)
	assert.Equal(t, 8000, cfg.Extract.MaxStructChars)
	assert.Equal(t, 3, cfg.Extract.OCRMaxAttempts)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("OCR_API_BASE_URL", "")
	t.Setenv("OCR_API_KEY", "")
	t.Setenv("OCR_MODEL", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "paperproof.json")
	body := `{"ocr": {"base_url": "https://file.example.com/v1", "api_key": "sk-file", "model": "vision-file"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com/v1", cfg.OCR.BaseURL)
	assert.Equal(t, "vision-file", cfg.OCR.Model)
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/paperproof.json")
	assert.Error(t, err)
}

func TestValidateRequiresEndpoint(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := TransientError("call failed", cause)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TRANSIENT_CALL", appErr.Code)
	assert.ErrorIs(t, err, ErrTransientCall)
	assert.ErrorIs(t, err, cause)
}
