package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort  string
	LogLevel string

	StoragePath   string
	PublicBaseURL string

	CompletionBaseURL        string
	CompletionAPIKey         string
	CompletionModelID        string
	CompletionTimeoutSeconds int

	GoogleClientID string

	NATSURL     string
	NATSSubject string

	ContextFetchTimeoutSeconds int
	MaxUploadBytes             int

	APIRateLimitRPS       float64
	APIRateLimitBurst     int
	APIMaxInFlight        int
	APIQueueTimeoutMillis int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		StoragePath:   mustEnv("STORAGE_PATH", "./data/storage"),
		PublicBaseURL: mustEnv("PUBLIC_BASE_URL", ""),

		CompletionBaseURL:        mustEnv("COMPLETION_BASE_URL", "https://api.openai.com"),
		CompletionAPIKey:         mustEnv("COMPLETION_API_KEY", ""),
		CompletionModelID:        mustEnv("COMPLETION_MODEL_ID", "gpt-3.5-turbo"),
		CompletionTimeoutSeconds: mustEnvInt("COMPLETION_TIMEOUT_SECONDS", 60),

		GoogleClientID: mustEnv("GOOGLE_CLIENT_ID", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents.events"),

		ContextFetchTimeoutSeconds: mustEnvInt("CONTEXT_FETCH_TIMEOUT_SECONDS", 10),
		MaxUploadBytes:             mustEnvInt("MAX_UPLOAD_BYTES", 32<<20),

		APIRateLimitRPS:       mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:     mustEnvInt("API_RATE_LIMIT_BURST", 0),
		APIMaxInFlight:        mustEnvInt("API_MAX_IN_FLIGHT", 0),
		APIQueueTimeoutMillis: mustEnvInt("API_QUEUE_TIMEOUT_MILLIS", 200),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
