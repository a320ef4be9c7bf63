package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
	"github.com/Clark-Hu/movielens-reports/internal/store"
)

// Repository aggregates the dataset repositories.
type Repository struct {
	Movies  *MoviesRepository
	Users   *UsersRepository
	Ratings *RatingsRepository

	pool   *pgxpool.Pool
	logger logrus.FieldLogger
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store, logger logrus.FieldLogger) *Repository {
	return NewWithPool(st.Pool(), logger)
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool, logger logrus.FieldLogger) *Repository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Repository{
		Movies:  &MoviesRepository{pool: pool},
		Users:   &UsersRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
		pool:    pool,
		logger:  logger,
	}
}

// Load reads the full dataset. Ratings come back in insertion order so chunked
// runs over a loaded dataset are reproducible.
func (r *Repository) Load(ctx context.Context) (domain.Dataset, error) {
	movies, err := r.Movies.ListAll(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load movies: %w", err)
	}
	users, err := r.Users.ListAll(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load users: %w", err)
	}
	ratings, err := r.Ratings.ListAll(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load ratings: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"movies":  len(movies),
		"users":   len(users),
		"ratings": len(ratings),
	}).Info("repository: dataset loaded")

	return domain.Dataset{Movies: movies, Users: users, Ratings: ratings}, nil
}

// Import replaces the stored dataset with ds in a single transaction.
func (r *Repository) Import(ctx context.Context, ds domain.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE ratings, users, movies RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate dataset: %w", err)
	}

	var counts [3]int64
	if counts[0], err = r.Movies.copyFrom(ctx, tx, ds.Movies); err != nil {
		return fmt.Errorf("copy movies: %w", err)
	}
	if counts[1], err = r.Users.copyFrom(ctx, tx, ds.Users); err != nil {
		return fmt.Errorf("copy users: %w", err)
	}
	if counts[2], err = r.Ratings.copyFrom(ctx, tx, ds.Ratings); err != nil {
		return fmt.Errorf("copy ratings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"movies":  counts[0],
		"users":   counts[1],
		"ratings": counts[2],
	}).Info("repository: dataset imported")
	return nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
