package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_MAX_COMMENTS      = 100
	DEFAULT_SCORING_WORKERS   = 4
	DEFAULT_COMMENT_CACHE_TTL = time.Hour
	DEFAULT_AWS_REGION        = "us-west-2"
	DEFAULT_VIEWERS_TABLE     = "Viewers"

	SCORER_VADER  = "vader"
	SCORER_REMOTE = "remote"
)

// Config is everything the CLI needs, read once from the environment at startup.
type Config struct {
	Env      string
	LogLevel slog.Level

	YouTubeAPIKey      string
	YouTubeAccessToken string
	MaxComments        int

	Scorer             string
	PolarityServiceURL string
	ScoringWorkers     int

	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyTLS       bool
	CommentCacheTTL time.Duration

	AWSEndpoint  string
	AWSRegion    string
	ViewersTable string
}

func Load(env string) Config {
	return Config{
		Env:      env,
		LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),

		YouTubeAPIKey:      os.Getenv("YOUTUBE_API_KEY"),
		YouTubeAccessToken: os.Getenv("YOUTUBE_ACCESS_TOKEN"),
		MaxComments:        intFromEnv("MAX_COMMENTS", DEFAULT_MAX_COMMENTS),

		Scorer:             stringFromEnv("SCORER", SCORER_VADER),
		PolarityServiceURL: os.Getenv("POLARITY_SERVICE_URL"),
		ScoringWorkers:     intFromEnv("SCORING_WORKERS", DEFAULT_SCORING_WORKERS),

		ValkeyAddress:   os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:  os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:       os.Getenv("VALKEY_TLS") == "true",
		CommentCacheTTL: durationFromEnv("COMMENT_CACHE_TTL", DEFAULT_COMMENT_CACHE_TTL),

		AWSEndpoint:  os.Getenv("AWS_ENDPOINT"),
		AWSRegion:    stringFromEnv("AWS_REGION", DEFAULT_AWS_REGION),
		ViewersTable: stringFromEnv("VIEWERS_TABLE", DEFAULT_VIEWERS_TABLE),
	}
}

func stringFromEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", fallback))
		return fallback
	}
	return v
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", fallback))
		return fallback
	}
	return v
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
