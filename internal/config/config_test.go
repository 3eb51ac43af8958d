package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("EXPIRY_WINDOW_DAYS", "")

	cfg := Load()
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, filepath.Join(".", "medicines.db"), cfg.DatabaseDSN)
	assert.Equal(t, filepath.Join(".", "sales.log"), cfg.SalesLogPath)
	assert.Equal(t, filepath.Join(".", "returns.log"), cfg.ReturnsLogPath)
	assert.Equal(t, 30, cfg.ExpiryWindowDays)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/goodhealth")
	t.Setenv("DATABASE_DSN", "/tmp/other.db")
	t.Setenv("EXPIRY_WINDOW_DAYS", "7")

	cfg := Load()
	assert.Equal(t, "/var/lib/goodhealth", cfg.DataDir)
	assert.Equal(t, "/tmp/other.db", cfg.DatabaseDSN)
	assert.Equal(t, filepath.Join("/var/lib/goodhealth", "sales.log"), cfg.SalesLogPath)
	assert.Equal(t, 7, cfg.ExpiryWindowDays)
}

func TestLoadInvalidWindowFallsBack(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("EXPIRY_WINDOW_DAYS", "not-a-number")

	assert.Equal(t, 30, Load().ExpiryWindowDays)

	t.Setenv("EXPIRY_WINDOW_DAYS", "-2")
	assert.Equal(t, 30, Load().ExpiryWindowDays)
}
