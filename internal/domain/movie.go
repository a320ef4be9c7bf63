package domain

// Movie represents a catalog entry loaded from the movies dataset.
type Movie struct {
	ID     int
	Title  string
	Genres []string
}

// HasGenre reports whether the movie is tagged with exactly the given genre name.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
