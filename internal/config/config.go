package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength guards against trivially guessable signing keys.
const MinJWTSecretLength = 16

type Config struct {
	// HTTP Server
	Port       string
	CORSOrigin string

	// Database
	DBPath string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "8080"),
		CORSOrigin: getEnv("CORS_ORIGIN", ""),
		DBPath:     getEnv("DB_PATH", "./data/housesplit.db"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTTTL:     getEnvDuration("JWT_TTL", 24*time.Hour),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	if len(c.JWTSecret) < MinJWTSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid JWT TTL %s: must be positive", c.JWTTTL))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed:\n  - " + strings.Join(problems, "\n  - "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
