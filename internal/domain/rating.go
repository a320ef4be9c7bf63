package domain

// Rating represents a single user's score for a movie. Ratings carry no identity
// and may repeat.
type Rating struct {
	UserID  int
	MovieID int
	Score   float64
}
