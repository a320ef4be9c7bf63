package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/config"
	"github.com/Clark-Hu/movielens-reports/internal/movielens"
	"github.com/Clark-Hu/movielens-reports/internal/repository"
	"github.com/Clark-Hu/movielens-reports/internal/source"
	"github.com/Clark-Hu/movielens-reports/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding u.item, u.user and u.data")
	flag.StringVar(&cfg.DBURL, "db", cfg.DBURL, "Postgres connection URL")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	logger := cfg.Logger().WithField("app", "loaddb")
	if cfg.DBURL == "" {
		logger.Fatal("DB_URL or -db is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := movielens.LoadDataset(cfg.DataDir, logger)
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}

	dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DBConnTimeoutSecs)*time.Second)
	defer cancel()
	st, err := store.New(dbCtx, cfg.DBURL, source.StoreOptions(cfg, logger))
	if err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	repo := repository.New(st, logger)
	start := time.Now()
	if err := repo.Import(ctx, ds); err != nil {
		logger.Fatalf("import dataset: %v", err)
	}

	stored, err := repo.Movies.Count(ctx)
	if err != nil {
		logger.Fatalf("count movies: %v", err)
	}
	if stored != int64(len(ds.Movies)) {
		logger.Fatalf("import stored %d movies, read %d", stored, len(ds.Movies))
	}
	logger.Infof("imported %d movies, %d users, %d ratings in %s", stored, len(ds.Users), len(ds.Ratings), time.Since(start).Round(time.Millisecond))
}
