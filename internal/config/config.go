package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Print    PrintConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port       string
	CORSOrigin string
	BaseURL    string
}

// DatabaseConfig holds the primary (read/write) DSN and an optional
// read-only DSN used by the AI assistant's SQL tool.
type DatabaseConfig struct {
	DSN         string
	ReadOnlyDSN string
}

// AuthConfig holds the JWT signing secret.
type AuthConfig struct {
	JWTSecret string
}

// AIConfig holds settings for the Gemini-backed chat assistant.
// The assistant is disabled when no API key is configured.
type AIConfig struct {
	GeminiKey   string
	GeminiModel string
}

// PrintConfig holds G-code storage and printer dispatch settings.
type PrintConfig struct {
	UploadDir      string
	BambuBridgeURL string
	SweepSchedule  string
}

// Load reads environment variables (optionally from a .env file) and
// materializes a Config instance.
func Load() (*Config, error) {
	// Missing .env files are acceptable when configuration comes from the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:       getenvWithDefault("APP_PORT", "8080"),
			CORSOrigin: getenvWithDefault("CORS_ORIGIN", "http://localhost:5173"),
			BaseURL:    getenvWithDefault("APP_BASE_URL", "http://localhost:5173/"),
		},
		Database: DatabaseConfig{
			DSN:         os.Getenv("DB_DSN"),
			ReadOnlyDSN: os.Getenv("DB_DSN_READONLY"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		AI: AIConfig{
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel: getenvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Print: PrintConfig{
			UploadDir:      getenvWithDefault("GCODE_UPLOAD_DIR", "uploads/gcodes"),
			BambuBridgeURL: os.Getenv("BAMBU_BRIDGE_URL"),
			SweepSchedule:  getenvWithDefault("PRINT_SWEEP_SCHEDULE", "@every 15m"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Database.DSN == "" {
		return errors.New("DB_DSN must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
