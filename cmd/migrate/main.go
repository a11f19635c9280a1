package main

import (
	"context"
	"time"

	"chaotic_backend/internal/config"
	"chaotic_backend/internal/db"
	"chaotic_backend/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	logger.Info("migration complete")
}
