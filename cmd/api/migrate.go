package main

import (
	"log/slog"

	"github.com/DaviDemarqui/workwise-v1/internal/config"
	"github.com/DaviDemarqui/workwise-v1/internal/database"
)

func migrateRun(cfg *config.Config, log *slog.Logger) error {
	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	log.Info("migrations applied", slog.Uint64("version", uint64(version)))
	return nil
}
