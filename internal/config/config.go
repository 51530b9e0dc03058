package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	AnthropicAPIKey string
	Model           string

	LogLevel  string
	LogFormat string

	ResendAPIKey string
	ResendFrom   string

	OTLPEndpoint string
	ServiceName  string

	ImageFetchTimeout time.Duration
	ChromePath        string
}

// Load reads a .env file when one exists, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr: getEnv("HOMEASSESS_ADDR", ":8080"),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		Model:           getEnv("HOMEASSESS_MODEL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		ResendFrom:   getEnv("RESEND_FROM", "HOMEase AI <reports@homease.ai>"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("OTEL_SERVICE_NAME", "homeassess"),

		ImageFetchTimeout: getEnvDuration("IMAGE_FETCH_TIMEOUT", 20*time.Second),
		ChromePath:        getEnv("CHROME_PATH", ""),
	}
}

func (c *Config) GatewayConfigured() bool { return c.AnthropicAPIKey != "" }
func (c *Config) EmailConfigured() bool   { return c.ResendAPIKey != "" }

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
