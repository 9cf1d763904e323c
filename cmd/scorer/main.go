package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/logging"
	"github.com/spacesedan/reviewflow/internal/scoring"
	"github.com/spacesedan/reviewflow/internal/severity"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("[Scorer] Severity scoring failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("[Scorer] Severity scoring complete")
}

func run(ctx context.Context, cfg config.Config) error {
	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	scorer, err := severity.NewScorer(deps.classifier, cfg.ChunkSize)
	if err != nil {
		return err
	}

	driver := scoring.NewDriver(scorer, scoring.Options{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
	}, deps.sinks...)

	slog.Info("[Scorer] Scoring dataset",
		slog.String("input", cfg.CleanedDataset),
		slog.String("model", scorer.ModelName()),
		slog.Int("chunk_size", cfg.ChunkSize),
		slog.Int("workers", cfg.Workers))

	return driver.Run(ctx, cfg.CleanedDataset, cfg.ScoredDataset)
}
