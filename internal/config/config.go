package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	DataDir          string
	DatabaseDSN      string
	SalesLogPath     string
	ReturnsLogPath   string
	ExpiryWindowDays int
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = filepath.Join(dataDir, "medicines.db")
	}

	window := 30
	if raw := os.Getenv("EXPIRY_WINDOW_DAYS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Printf("invalid EXPIRY_WINDOW_DAYS value %q, defaulting to 30", raw)
		} else {
			window = parsed
		}
	}

	return Config{
		DataDir:          dataDir,
		DatabaseDSN:      dsn,
		SalesLogPath:     filepath.Join(dataDir, "sales.log"),
		ReturnsLogPath:   filepath.Join(dataDir, "returns.log"),
		ExpiryWindowDays: window,
	}
}
