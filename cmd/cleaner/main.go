package main

import (
	"log/slog"
	"os"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/dataset"
	"github.com/spacesedan/reviewflow/internal/logging"
	"github.com/spacesedan/reviewflow/internal/plotting"
	"github.com/spacesedan/reviewflow/internal/processing"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("[Cleaner] Data cleaning failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Cleaner] Data cleaning + EDA complete")
}

func run(cfg config.Config) error {
	table, err := dataset.ReadFile(cfg.RawDataset)
	if err != nil {
		return err
	}
	slog.Info("[Cleaner] Dataset loaded",
		slog.String("path", cfg.RawDataset),
		slog.Int("records", table.Len()))

	profile, err := processing.CleanTable(table)
	if err != nil {
		return err
	}

	if err := plotting.WriteAll(cfg.OutputDir, profile.Lengths, profile.LogLengths, profile.First, profile.Second); err != nil {
		return err
	}

	if err := table.WriteFile(cfg.CleanedDataset); err != nil {
		return err
	}
	slog.Info("[Cleaner] Cleaned dataset written",
		slog.String("path", cfg.CleanedDataset))
	return nil
}
