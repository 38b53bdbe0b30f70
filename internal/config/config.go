package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Backend selects the storage implementation. Chosen once at startup.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendOffline  Backend = "offline"
)

type Config struct {
	// Server
	Port string

	// Storage
	Backend     Backend
	DatabaseURL string
	DataDir     string

	// Auth
	JWTSecret string

	// Admin seeding
	AdminToken     string
	AnthropicModel string
	MockGenerator  bool

	// Default cap on quiz-history listings
	HistoryLimit int
}

// Load reads configuration from the environment, with .env support.
// Presence of DATABASE_URL (or TRADEBENCH_BACKEND=postgres) selects the
// postgres backend; otherwise the service runs fully offline against a
// local SQLite file under DataDir.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DataDir:        getEnvOrDefault("DATA_DIR", "./data"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "tradebench-dev-signing-key"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AnthropicModel: os.Getenv("ANTHROPIC_MODEL"),
		MockGenerator:  os.Getenv("MOCK_GENERATOR") == "true",
		HistoryLimit:   getEnvAsIntOrDefault("HISTORY_LIMIT", 10),
	}

	switch os.Getenv("TRADEBENCH_BACKEND") {
	case "postgres":
		cfg.Backend = BackendPostgres
	case "offline":
		cfg.Backend = BackendOffline
	default:
		if cfg.DatabaseURL != "" {
			cfg.Backend = BackendPostgres
		} else {
			cfg.Backend = BackendOffline
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
