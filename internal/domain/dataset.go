package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateID indicates a users or movies collection reuses an identifier.
var ErrDuplicateID = errors.New("domain: duplicate id")

// Dataset bundles the three source collections. It is built once by a loader and
// treated as read-only afterwards.
type Dataset struct {
	Movies  []Movie
	Users   []User
	Ratings []Rating
}

// Validate enforces id uniqueness for users and movies. Ratings are not checked
// against either collection; unresolved references are dropped by the join.
func (d Dataset) Validate() error {
	seenMovies := make(map[int]struct{}, len(d.Movies))
	for _, m := range d.Movies {
		if _, ok := seenMovies[m.ID]; ok {
			return fmt.Errorf("movie %d: %w", m.ID, ErrDuplicateID)
		}
		seenMovies[m.ID] = struct{}{}
	}
	seenUsers := make(map[int]struct{}, len(d.Users))
	for _, u := range d.Users {
		if _, ok := seenUsers[u.ID]; ok {
			return fmt.Errorf("user %d: %w", u.ID, ErrDuplicateID)
		}
		seenUsers[u.ID] = struct{}{}
	}
	return nil
}
