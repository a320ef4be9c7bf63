// Package movielens reads the MovieLens 100k files (u.item, u.user, u.data) into
// domain records. Blank, short or unparseable lines are skipped rather than
// failing the load.
package movielens

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

const (
	MoviesFile  = "u.item"
	UsersFile   = "u.user"
	RatingsFile = "u.data"
)

// genreColumn is the first genre flag column in u.item.
const genreColumn = 5

var genreNames = []string{
	"unknown", "Action", "Adventure", "Animation", "Children's", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Film-Noir", "Horror", "Musical", "Mystery",
	"Romance", "Sci-Fi", "Thriller", "War", "Western",
}

func genreName(index int) string {
	if index < len(genreNames) {
		return genreNames[index]
	}
	return "unknown"
}

// maxLineSize bounds a single record line.
const maxLineSize = 1 << 20

// forEachRecord splits every line of r on sep and calls fn with the fields.
// Quotes carry no meaning in these files, so a field is whatever lies
// between two separators.
func forEachRecord(r io.Reader, sep string, fn func(rec []string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(strings.Split(line, sep))
	}
	return sc.Err()
}

// ParseMovies reads u.item records: id|title|release|video release|url|19 genre flags.
func ParseMovies(r io.Reader) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := forEachRecord(r, "|", func(rec []string) {
		if len(rec) < genreColumn+1 {
			return
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return
		}
		var genres []string
		for i, flag := range rec[genreColumn:] {
			if strings.TrimSpace(flag) == "1" {
				genres = append(genres, genreName(i))
			}
		}
		movies = append(movies, domain.Movie{
			ID:     id,
			Title:  strings.TrimSpace(rec[1]),
			Genres: genres,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read movies: %w", err)
	}
	return movies, nil
}

// ParseUsers reads u.user records: id|age|gender|occupation|zip.
func ParseUsers(r io.Reader) ([]domain.User, error) {
	var users []domain.User
	err := forEachRecord(r, "|", func(rec []string) {
		if len(rec) < 4 {
			return
		}
		id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return
		}
		age, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return
		}
		u := domain.User{
			ID:         id,
			Age:        age,
			Gender:     rec[2],
			Occupation: rec[3],
		}
		if len(rec) > 4 {
			u.Zip = rec[4]
		}
		users = append(users, u)
	})
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

// ParseRatings reads tab separated u.data records: user, movie, score, timestamp.
func ParseRatings(r io.Reader) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := forEachRecord(r, "\t", func(rec []string) {
		if len(rec) < 3 {
			return
		}
		userID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return
		}
		movieID, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return
		}
		ratings = append(ratings, domain.Rating{UserID: userID, MovieID: movieID, Score: score})
	})
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	return ratings, nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

// LoadMovies parses the u.item file at path.
func LoadMovies(path string) ([]domain.Movie, error) {
	return parseFile(path, ParseMovies)
}

// LoadUsers parses the u.user file at path.
func LoadUsers(path string) ([]domain.User, error) {
	return parseFile(path, ParseUsers)
}

// LoadRatings parses the u.data file at path.
func LoadRatings(path string) ([]domain.Rating, error) {
	return parseFile(path, ParseRatings)
}

// LoadDataset loads the three MovieLens files from dir and rejects duplicate
// user or movie ids.
func LoadDataset(dir string, logger logrus.FieldLogger) (domain.Dataset, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	movies, err := LoadMovies(filepath.Join(dir, MoviesFile))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load movies: %w", err)
	}
	logger.Infof("movielens: loaded %d movies", len(movies))

	users, err := LoadUsers(filepath.Join(dir, UsersFile))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load users: %w", err)
	}
	logger.Infof("movielens: loaded %d users", len(users))

	ratings, err := LoadRatings(filepath.Join(dir, RatingsFile))
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load ratings: %w", err)
	}
	logger.Infof("movielens: loaded %d ratings", len(ratings))

	ds := domain.Dataset{Movies: movies, Users: users, Ratings: ratings}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, err
	}
	return ds, nil
}
