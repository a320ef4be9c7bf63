package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

// MoviesRepository reads and bulk-loads the movies table.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

// ListAll returns every movie ordered by id.
func (r *MoviesRepository) ListAll(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, title, genres FROM movies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMovie)
}

// Count returns the number of stored movies.
func (r *MoviesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

func (r *MoviesRepository) copyFrom(ctx context.Context, tx pgx.Tx, movies []domain.Movie) (int64, error) {
	return tx.CopyFrom(ctx,
		pgx.Identifier{"movies"},
		[]string{"id", "title", "genres"},
		pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
			genres := movies[i].Genres
			if genres == nil {
				genres = []string{}
			}
			return []any{movies[i].ID, movies[i].Title, genres}, nil
		}),
	)
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var m domain.Movie
	if err := row.Scan(&m.ID, &m.Title, &m.Genres); err != nil {
		return domain.Movie{}, err
	}
	if len(m.Genres) == 0 {
		m.Genres = nil
	}
	return m, nil
}
