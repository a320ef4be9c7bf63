package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

// RatingsRepository reads and bulk-loads the ratings table.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// ListAll returns every rating in insertion order.
func (r *RatingsRepository) ListAll(ctx context.Context) ([]domain.Rating, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, movie_id, score FROM ratings ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (domain.Rating, error) {
		var rt domain.Rating
		err := row.Scan(&rt.UserID, &rt.MovieID, &rt.Score)
		return rt, err
	})
}

func (r *RatingsRepository) copyFrom(ctx context.Context, tx pgx.Tx, ratings []domain.Rating) (int64, error) {
	return tx.CopyFrom(ctx,
		pgx.Identifier{"ratings"},
		[]string{"user_id", "movie_id", "score"},
		pgx.CopyFromSlice(len(ratings), func(i int) ([]any, error) {
			rt := ratings[i]
			return []any{rt.UserID, rt.MovieID, rt.Score}, nil
		}),
	)
}
