// Package source resolves the configured data source into an in-memory dataset.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/config"
	"github.com/Clark-Hu/movielens-reports/internal/domain"
	"github.com/Clark-Hu/movielens-reports/internal/movielens"
	"github.com/Clark-Hu/movielens-reports/internal/repository"
	"github.com/Clark-Hu/movielens-reports/internal/store"
)

// StoreOptions maps the DB_* settings onto connection-pool options.
func StoreOptions(cfg config.Config, logger logrus.FieldLogger) store.Options {
	return store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}
}

// Load returns the dataset named by cfg.DataSource. For the postgres source the
// open store is returned too and the caller owns closing it; for files it is nil.
func Load(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (domain.Dataset, *store.Store, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	switch cfg.DataSource {
	case config.SourceFiles:
		ds, err := movielens.LoadDataset(cfg.DataDir, logger)
		if err != nil {
			return domain.Dataset{}, nil, err
		}
		return ds, nil, nil

	case config.SourcePostgres:
		dbCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.DBConnTimeoutSecs)*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, StoreOptions(cfg, logger))
		if err != nil {
			return domain.Dataset{}, nil, fmt.Errorf("connect database: %w", err)
		}
		ds, err := repository.New(st, logger).Load(ctx)
		if err != nil {
			st.Close()
			return domain.Dataset{}, nil, err
		}
		return ds, st, nil

	default:
		return domain.Dataset{}, nil, fmt.Errorf("source: unsupported data source %q", cfg.DataSource)
	}
}
