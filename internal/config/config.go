package config

import (
	"os"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabasePath  string
	Port          string
	AdminUsername string
	AdminPassword string
	GenAIAPIKey   string
	GenAIModel    string
	GenAIBaseURL  string
	CorsOrigins   []string
}

func Load() Config {
	return Config{
		DatabasePath:  envOr("DATABASE_PATH", "quizhub.db"),
		Port:          envOr("PORT", "8080"),
		AdminUsername: envOr("ADMIN_USERNAME", "admin@gmail.com"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin123"),
		GenAIAPIKey:   envOr("GENAI_API_KEY", ""),
		GenAIModel:    envOr("GENAI_MODEL", "gemini-1.5-flash"),
		GenAIBaseURL:  envOr("GENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		CorsOrigins:   parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
