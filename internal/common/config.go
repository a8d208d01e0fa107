package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	OCR     ModelConfig
	LLM     ModelConfig
	Extract ExtractConfig
}

// ModelConfig holds the endpoint settings for one chat-completions model.
// Two instances exist: one for the vision (OCR) model and one for the
// structuring model. The structuring block falls back to the vision block
// field by field when unset.
type ModelConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// ExtractConfig holds extraction and matching tunables.
type ExtractConfig struct {
	// Rendering
	DPI      int
	MaxPages int

	// Native text below this many characters triggers the OCR fallback.
	MinNativeChars int

	// Recognized text is truncated to this many characters before the
	// structuring call.
	MaxStructChars int

	// Distances from a date keyword to an "available online" phrase that
	// decide whether the date belongs to the citation line instead.
	CiteNearChars  int
	CiteMidChars   int
	CiteFarChars   int
	OCRMaxAttempts int
}

// LoadConfig loads configuration from an optional config file and the
// environment. Environment variables win over the file; defaults fill the
// rest. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("paperproof")
	v.SetConfigType("json")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing implicit config file is fine; an explicit one must load.
		if path != "" {
			return nil, WrapError(err, "read config file")
		}
	}

	cfg := &Config{
		OCR: ModelConfig{
			BaseURL:     firstNonEmpty(getEnv("OCR_API_BASE_URL", ""), v.GetString("ocr.base_url")),
			APIKey:      firstNonEmpty(getEnv("OCR_API_KEY", ""), v.GetString("ocr.api_key")),
			Model:       firstNonEmpty(getEnv("OCR_MODEL", ""), v.GetString("ocr.model")),
			Temperature: getEnvAsFloat32("OCR_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("OCR_MAX_TOKENS", 4096),
			Timeout:     getEnvAsDuration("OCR_TIMEOUT", 90*time.Second),
		},
		LLM: ModelConfig{
			BaseURL:     firstNonEmpty(getEnv("LLM_API_BASE_URL", ""), v.GetString("llm.base_url")),
			APIKey:      firstNonEmpty(getEnv("LLM_API_KEY", ""), v.GetString("llm.api_key")),
			Model:       firstNonEmpty(getEnv("LLM_MODEL", ""), v.GetString("llm.model")),
			Temperature: getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 2048),
			Timeout:     getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
		Extract: ExtractConfig{
			DPI:            getEnvAsInt("RENDER_DPI", 300),
			MaxPages:       getEnvAsInt("RENDER_MAX_PAGES", 5),
			MinNativeChars: getEnvAsInt("MIN_NATIVE_CHARS", 100),
			MaxStructChars: getEnvAsInt("MAX_STRUCT_CHARS", 8000),
			CiteNearChars:  50,
			CiteMidChars:   80,
			CiteFarChars:   100,
			OCRMaxAttempts: getEnvAsInt("OCR_MAX_ATTEMPTS", 3),
		},
	}

	// The structuring model shares the vision endpoint unless overridden.
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = cfg.OCR.BaseURL
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = cfg.OCR.APIKey
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = cfg.OCR.Model
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the OCR pipeline can run at all. Native-only
// verification works without any of these, so callers gate on whether the
// fallback chain is needed.
func (c *Config) Validate() error {
	if c.OCR.BaseURL == "" {
		return ConfigError("OCR_API_BASE_URL is required")
	}
	if c.OCR.APIKey == "" {
		return ConfigError("OCR_API_KEY is required")
	}
	if c.OCR.Model == "" {
		return ConfigError("OCR_MODEL is required")
	}
	return nil
}
