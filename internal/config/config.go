package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string

	QueryTimeout time.Duration

	// How often the background scan for overdue plants runs.
	ReminderInterval time.Duration

	// Photo storage. An empty bucket disables photo endpoints.
	AWSRegion    string
	AWSBucket    string
	S3Endpoint   string
	S3PathStyle  bool
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  getEnvRequired("DATABASE_URL"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		QueryTimeout: getEnvDuration("QUERY_TIMEOUT", 5*time.Second),

		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", time.Hour),

		AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
		AWSBucket:   getEnv("AWS_BUCKET", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3PathStyle: getEnvBool("S3_PATH_STYLE", false),
	}
}

func getEnvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("required environment variable " + key + " is not set")
	}
	return v
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "error", err)
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "error", err)
			return fallback
		}
		return d
	}
	return fallback
}
