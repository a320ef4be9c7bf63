package report

import "github.com/Clark-Hu/movielens-reports/internal/domain"

// RunSequential computes the report in a single pass over the full joined
// relation. Other strategies are checked against its output.
func RunSequential(ratings []domain.Rating, users []domain.User, movies []domain.Movie) Report {
	return Aggregate(Join(ratings, users, movies))
}
