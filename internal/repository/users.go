package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

// UsersRepository reads and bulk-loads the users table.
type UsersRepository struct {
	pool *pgxpool.Pool
}

// ListAll returns every user ordered by id.
func (r *UsersRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, age, gender, occupation, zip FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Age, &u.Gender, &u.Occupation, &u.Zip)
		return u, err
	})
}

func (r *UsersRepository) copyFrom(ctx context.Context, tx pgx.Tx, users []domain.User) (int64, error) {
	return tx.CopyFrom(ctx,
		pgx.Identifier{"users"},
		[]string{"id", "age", "gender", "occupation", "zip"},
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			u := users[i]
			return []any{u.ID, u.Age, u.Gender, u.Occupation, u.Zip}, nil
		}),
	)
}
