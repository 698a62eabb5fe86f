package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"chundiet-web/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	CORSAllowOrigin  []string
	BackendURL       string
	BackendTimeout   time.Duration
	DefaultUserID    int
	NotificationTTL  time.Duration
	SwipeThreshold   float64
	GestureRateLimit float64
	WriteRateLimit   float64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8080")),
		BackendURL:       strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000/api"), "/"),
		BackendTimeout:   getDuration("BACKEND_TIMEOUT", 30*time.Second),
		DefaultUserID:    getInt("DEFAULT_USER_ID", 1),
		NotificationTTL:  getDuration("NOTIFICATION_TTL", 5*time.Second),
		SwipeThreshold:   getFloat("SWIPE_THRESHOLD", 50),
		GestureRateLimit: getFloat("GESTURE_RATE_LIMIT", 20),
		WriteRateLimit:   getFloat("WRITE_RATE_LIMIT", 5),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		telemetry.Warn("config: invalid integer, using default", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		telemetry.Warn("config: invalid number, using default", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return v
}

// getDuration accepts Go durations ("5s") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	telemetry.Warn("config: invalid duration, using default", map[string]any{"key": key, "value": raw, "default": def.String()})
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
