package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"goodhealth/m/internal/cli"
	"goodhealth/m/internal/config"
	"goodhealth/m/internal/database"
	"goodhealth/m/internal/inventory"
	"goodhealth/m/internal/ledger"
	"goodhealth/m/internal/migrations"
	"goodhealth/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("unable to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("unable to open inventory database", zap.String("dsn", cfg.DatabaseDSN), zap.Error(err))
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal("unable to prepare inventory schema", zap.Error(err))
	}

	svc := inventory.New(
		store.New(db),
		ledger.New(cfg.SalesLogPath),
		ledger.New(cfg.ReturnsLogPath),
		logger,
	)

	logger.Info("inventory ready",
		zap.String("database", cfg.DatabaseDSN),
		zap.String("sales_log", cfg.SalesLogPath),
		zap.String("returns_log", cfg.ReturnsLogPath))

	menu := cli.New(svc, os.Stdin, os.Stdout, cfg.ExpiryWindowDays)
	menu.Run(context.Background())
}
