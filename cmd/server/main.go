package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/config"
	httpserver "github.com/Clark-Hu/movielens-reports/internal/http"
	"github.com/Clark-Hu/movielens-reports/internal/report"
	"github.com/Clark-Hu/movielens-reports/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logger := cfg.Logger().WithField("app", "reports-api")

	ds, st, err := source.Load(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}
	if st != nil {
		defer st.Close()
	}

	runner, err := report.NewRunner(report.Options{
		ChunkSize: cfg.ChunkSize,
		Workers:   cfg.Workers,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatalf("init runner: %v", err)
	}

	server := httpserver.New(cfg, st, ds, runner, logger)
	logger.Infof("listening on :%s (%s source, %d ratings)", cfg.Port, cfg.DataSource, len(ds.Ratings))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Errorf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("graceful shutdown error: %v", err)
	}
}
