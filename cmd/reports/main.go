package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/config"
	"github.com/Clark-Hu/movielens-reports/internal/domain"
	"github.com/Clark-Hu/movielens-reports/internal/export"
	"github.com/Clark-Hu/movielens-reports/internal/report"
	"github.com/Clark-Hu/movielens-reports/internal/source"
)

const (
	sequentialDir = "output_singlethread"
	parallelDir   = "output_multithread"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding u.item, u.user and u.data")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory the report folders are written to")
	flag.StringVar(&cfg.DataSource, "source", cfg.DataSource, "dataset source: files or postgres")
	flag.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "ratings per parallel chunk")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel chunk workers")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cfg.Logger().WithField("app", "reports")

	ds, st, err := source.Load(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}
	if st != nil {
		st.Close()
	}

	runner, err := report.NewRunner(report.Options{
		ChunkSize: cfg.ChunkSize,
		Workers:   cfg.Workers,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("init runner: %v", err)
	}

	if err := run(ctx, runner, ds, report.StrategySequential, filepath.Join(cfg.OutputDir, sequentialDir), "Without Threads", logger); err != nil {
		logger.Fatalf("sequential report: %v", err)
	}
	if err := run(ctx, runner, ds, report.StrategyParallel, filepath.Join(cfg.OutputDir, parallelDir), "With Threads", logger); err != nil {
		logger.Fatalf("parallel report: %v", err)
	}
}

func run(ctx context.Context, runner *report.Runner, ds domain.Dataset, strategy report.Strategy, dir, label string, logger logrus.FieldLogger) error {
	res, err := runner.Run(ctx, ds, strategy)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(dir, res.Report); err != nil {
		return err
	}
	logger.WithField("run_id", res.ID).Infof("%s: completed in %.3f seconds, reports in %s", label, res.Elapsed.Seconds(), dir)
	return nil
}
