package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment and an optional .env file.
// Command line flags take precedence over them.
type Config struct {
	Ledger        string // UKCGT_LEDGER
	Actions       string // UKCGT_ACTIONS
	EODHDKey      string // EODHD_API_KEY
	Strict        bool   // UKCGT_STRICT
	IncludeFXFees bool   // UKCGT_INCLUDE_FX_FEES
	LogLevel      string // UKCGT_LOG_LEVEL
}

// LoadConfig reads configuration from environment variables and .env file.
func LoadConfig() Config {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return Config{
		Ledger:        getEnv("UKCGT_LEDGER", "ledger.jsonl"),
		Actions:       getEnv("UKCGT_ACTIONS", "actions.jsonl"),
		EODHDKey:      getEnv("EODHD_API_KEY", ""),
		Strict:        getEnvBool("UKCGT_STRICT", false),
		IncludeFXFees: getEnvBool("UKCGT_INCLUDE_FX_FEES", false),
		LogLevel:      getEnv("UKCGT_LOG_LEVEL", "warn"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}
