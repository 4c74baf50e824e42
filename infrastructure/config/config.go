package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration. It is read once at startup
// and treated as immutable afterwards.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// External store configuration
	SupabaseURL        string
	SupabaseServiceKey string

	// CORS
	CORSOrigins []string

	// OpenRouter configuration. An empty API key disables every
	// model-backed feature; the deterministic fallbacks take over.
	OpenRouterAPIKey         string
	OpenRouterModel          string
	OpenRouterEmbeddingModel string
	OpenRouterAppURL         string
	OpenRouterAppName        string
	OpenRouterJSONMode       bool

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),

		CORSOrigins: splitAndTrim(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		OpenRouterAPIKey:         getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:          getEnv("OPENROUTER_MODEL", "openai/gpt-oss-20b:free"),
		OpenRouterEmbeddingModel: getEnv("OPENROUTER_EMBEDDING_MODEL", "openai/text-embedding-3-small"),
		OpenRouterAppURL:         getEnv("OPENROUTER_APP_URL", ""),
		OpenRouterAppName:        getEnv("OPENROUTER_APP_NAME", "Aurelia"),
		OpenRouterJSONMode:       getEnvBool("OPENROUTER_JSON_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// splitAndTrim splits a comma-separated value into trimmed entries
func splitAndTrim(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
