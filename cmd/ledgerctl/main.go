package main

import (
	"context"
	"log"
	"os"

	"github.com/sangkips/printledger/internal/application/service"
	"github.com/sangkips/printledger/internal/cli"
	"github.com/sangkips/printledger/internal/config"
	"github.com/sangkips/printledger/internal/infrastructure/database"
	infraRepo "github.com/sangkips/printledger/internal/infrastructure/repository"
	"github.com/sangkips/printledger/internal/infrastructure/sheets"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	loc, err := cfg.Display.Location()
	if err != nil {
		log.Fatalf("Invalid display timezone: %v", err)
	}

	prefs := service.NewPreferenceService(infraRepo.NewClientPreferenceRepository(db))
	ctrl := service.NewFormController(
		sheets.NewClient(cfg.Sheets.ScriptURL, cfg.Sheets.RequestTimeout),
		prefs.ForClient(cli.ProfileClientID(cfg.CLI.Profile)),
		service.NewDateFormatter(cfg.Display.DateLayout, loc),
	)

	app := cli.NewApp(ctrl, os.Stdout, os.Stderr)
	if err := cli.SetupCommands(app).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
