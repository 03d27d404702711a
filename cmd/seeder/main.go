package main

import (
	"context"
	"time"

	repo "allgroub-ledger/internal/adapter/repository/mysql"
	"allgroub-ledger/internal/config"
	"allgroub-ledger/internal/infrastructure/db"
	"allgroub-ledger/internal/infrastructure/logging"
	"allgroub-ledger/internal/usecase/seed"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	loc, _ := cfg.Location()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mysql")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("failed to migrate schema")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	out, err := seed.NewUsecase(repo.NewGormUoW(gdb), log, loc).Run(ctx, cfg.SeedOfficeID)
	if err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	if out.Skipped {
		log.WithField("office_id", out.OfficeID).Info("office already has borrowers, skipping")
	}
}
