// Package config loads the application configuration and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/divtax/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// ConfigureLogging builds a logger from LOG_LEVEL and LOG_FORMAT. It is used
// before the configuration is loaded.
func ConfigureLogging() logging.Logger {
	level := strings.ToLower(GetEnv("LOG_LEVEL", "info"))
	format := strings.ToLower(GetEnv("LOG_FORMAT", "text"))
	return logging.NewLogrusAdapter(level, format)
}

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, once per process. Existing variables are not overridden.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		loadEnvFile(logger)
	})
}

func loadEnvFile(logger logging.Logger) {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.WithError(err).Warn("Error loading .env file")
		return
	}
	logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
