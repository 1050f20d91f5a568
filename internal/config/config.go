package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	EnvAPIKey         = "GOLD_API_KEY"
	EnvAPIURL         = "GOLD_API_URL"
	EnvLogLevel       = "LOG_LEVEL"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
)

// ErrMissingAPIKey is returned when GOLD_API_KEY is not set
var ErrMissingAPIKey = errors.New("environment variable " + EnvAPIKey + " not found")

// Config holds all application configuration
type Config struct {
	GoldAPIKey     string        `env:"GOLD_API_KEY"`
	GoldAPIURL     string        `env:"GOLD_API_URL" envDefault:"https://www.goldapi.io/api"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10"` // seconds
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	LoadDotEnv()

	var cfg Config

	cfg.GoldAPIKey = os.Getenv(EnvAPIKey)
	cfg.GoldAPIURL = getEnvWithDefault(EnvAPIURL, "https://www.goldapi.io/api")
	cfg.RequestTimeout = time.Duration(getEnvIntWithDefault(EnvRequestTimeout, 10)) * time.Second

	if cfg.GoldAPIKey == "" {
		return &cfg, ErrMissingAPIKey
	}

	return &cfg, nil
}

// LogLevel returns LOG_LEVEL, defaulting to info
func LogLevel() string {
	return getEnvWithDefault(EnvLogLevel, "info")
}

// LoadDotEnv loads a .env file from the working directory if there is one.
// Variables already present in the environment win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
