package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries every runtime setting the server reads from the
// environment. Defaults are suitable for local development.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// RedisAddr is the address of the Redis used for recent-screening
	// history. Empty disables Redis and falls back to in-memory history.
	RedisAddr string

	// HistoryLimit caps the per-user recent-screenings list.
	HistoryLimit int

	JWTSecret string

	// ChatRPS throttles the public chat endpoint, in requests per second.
	ChatRPS int

	AnthropicAPIKey string
	AnthropicModel  string

	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "earlysigns_user"),
		DBPassword: getEnv("DB_PASSWORD", "earlysigns_password"),
		DBName:     getEnv("DB_NAME", "earlysigns"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 10),

		JWTSecret: getEnv("JWT_SECRET", "earlysigns-staging-signing-key-2026"),

		ChatRPS: getEnvInt("CHAT_RPS", 5),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-opus-4-5-20251101"),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
