package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// OpenRouter / LLM settings
	OpenRouterAPIKey   string
	OpenRouterBase     string
	OpenRouterModel    string
	OpenRouterAppTitle string
	OpenRouterReferer  string

	// EnableAIMatch selects the generative matching engine. When false (or
	// when no API key is configured) the deterministic local engine is used.
	EnableAIMatch bool

	// MatchCacheTTLMinutes controls how long a computed match result is
	// reused for the same (student, project) pair.
	MatchCacheTTLMinutes int

	// Logging
	LogJSON bool
	Debug   bool
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "research-match"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBase:     getEnv("OPENROUTER_BASE_URL", ""),
		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "deepseek/deepseek-chat-v3.1"),
		OpenRouterAppTitle: getEnv("OPENROUTER_APP_TITLE", "research-match"),
		OpenRouterReferer:  getEnv("OPENROUTER_REFERER", ""),

		EnableAIMatch:        getEnvBool("ENABLE_AI_MATCH", true),
		MatchCacheTTLMinutes: getEnvInt("MATCH_CACHE_TTL_MINUTES", 60),

		LogJSON: getEnvBool("LOG_JSON", false),
		Debug:   getEnvBool("DEBUG", false),
	}
	return cfg
}

// HasOpenRouterAPIKey reports whether the generative path can be configured at all.
func (c Config) HasOpenRouterAPIKey() bool { return c.OpenRouterAPIKey != "" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
