package report

import "github.com/Clark-Hu/movielens-reports/internal/domain"

// JoinedRow is a rating together with the user and movie it references.
type JoinedRow struct {
	Rating domain.Rating
	User   domain.User
	Movie  domain.Movie
}

// Catalog indexes users and movies by id. It is never mutated after NewCatalog
// returns, so a single catalog may be shared by any number of goroutines.
type Catalog struct {
	users  map[int]domain.User
	movies map[int]domain.Movie
}

// NewCatalog indexes the given collections. When an id repeats the first record
// wins; loaders reject duplicates up front via domain.Dataset.Validate.
func NewCatalog(users []domain.User, movies []domain.Movie) *Catalog {
	c := &Catalog{
		users:  make(map[int]domain.User, len(users)),
		movies: make(map[int]domain.Movie, len(movies)),
	}
	for _, u := range users {
		if _, ok := c.users[u.ID]; !ok {
			c.users[u.ID] = u
		}
	}
	for _, m := range movies {
		if _, ok := c.movies[m.ID]; !ok {
			c.movies[m.ID] = m
		}
	}
	return c
}

// Join performs an inner join of ratings against the catalog. Ratings whose user
// or movie cannot be resolved are dropped.
func (c *Catalog) Join(ratings []domain.Rating) []JoinedRow {
	rows := make([]JoinedRow, 0, len(ratings))
	for _, r := range ratings {
		u, ok := c.users[r.UserID]
		if !ok {
			continue
		}
		m, ok := c.movies[r.MovieID]
		if !ok {
			continue
		}
		rows = append(rows, JoinedRow{Rating: r, User: u, Movie: m})
	}
	return rows
}

// Join builds a throwaway catalog and joins ratings against it.
func Join(ratings []domain.Rating, users []domain.User, movies []domain.Movie) []JoinedRow {
	return NewCatalog(users, movies).Join(ratings)
}
