package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds process-level settings read from the environment.
type Settings struct {
	LogLevel string
	Pretty   bool
	Port     int
	DataDir  string
	Currency string
}

// LoadSettings reads WSIM_* environment variables, loading a .env file first
// if one exists. Variables already set in the environment win over the file.
func LoadSettings() Settings {
	_ = godotenv.Load()

	settings := Settings{
		LogLevel: getEnv("WSIM_LOG_LEVEL", "info"),
		Pretty:   getEnvAsBool("WSIM_LOG_PRETTY", false),
		Port:     getEnvAsInt("WSIM_PORT", 8080),
		DataDir:  getEnv("WSIM_DATA_DIR", ""),
		Currency: strings.ToUpper(getEnv("WSIM_CURRENCY", DefaultCurrency)),
	}
	// Unknown codes fall back to the default display currency.
	if ValidateCurrency(settings.Currency) != nil {
		settings.Currency = DefaultCurrency
	}
	return settings
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
