package config

import (
	"math"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the assistant endpoint.
type Config struct {
	Port      int
	Version   string
	Model     ModelConfig
	Telemetry TelemetryConfig
}

// ModelConfig describes the OpenAI-compatible chat-completions endpoint and
// the sampling bounds for every model call. Numeric settings fall back to
// their default when absent or invalid and are clamped to their range.
type ModelConfig struct {
	Provider          string
	BaseURL           string
	APIKey            string
	Model             string
	Temperature       float64
	TopP              float64
	MaxTokens         int
	MaxToolIterations int
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("ASSISTANT_PORT", 8787),
		Version: envStr("ASSISTANT_VERSION", "1.0.0"),
		Model: ModelConfig{
			Provider:          "ollama-local",
			BaseURL:           envStr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
			APIKey:            envStr("OLLAMA_API_KEY", "ollama"),
			Model:             envStr("OLLAMA_MODEL", "qwen2.5:7b"),
			Temperature:       envFloat("OLLAMA_TEMPERATURE", 0.2, 0, 1),
			TopP:              envFloat("OLLAMA_TOP_P", 0.9, 0, 1),
			MaxTokens:         envIntRange("OLLAMA_MAX_TOKENS", 500, 100, 2048),
			MaxToolIterations: envIntRange("ASSISTANT_MAX_TOOL_ITERATIONS", 4, 1, 8),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "assistant-endpoint"),
		},
	}
}

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func envIntRange(key string, fallback, min, max int) int {
	v := envInt(key, fallback)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func envFloat(key string, fallback, min, max float64) float64 {
	v := fallback
	if raw := os.Getenv(key); raw != "" {
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable sampling
		// parameter, so only finite values override the default.
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			v = f
		}
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
