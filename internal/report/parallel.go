package report

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

// DefaultChunkSize is the number of ratings handed to each parallel task.
const DefaultChunkSize = 10000

var (
	// ErrInvalidChunkSize is returned when the parallel strategy is asked for chunks smaller than one rating.
	ErrInvalidChunkSize = errors.New("report: chunk size must be positive")
	// ErrChunkFailed wraps a fault raised inside a chunk task.
	ErrChunkFailed = errors.New("report: chunk task failed")
)

// aggregateChunk computes a chunk-local report. Tests replace it to inject faults.
var aggregateChunk = func(catalog *Catalog, chunk []domain.Rating) Report {
	return Aggregate(catalog.Join(chunk))
}

// RunParallel splits ratings into contiguous chunks, aggregates each chunk on its
// own goroutine against the full user and movie collections, and merges the
// chunk reports with Merge. Any chunk failure fails the whole run.
func RunParallel(ctx context.Context, ratings []domain.Rating, users []domain.User, movies []domain.Movie, chunkSize int) (Report, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	return runParallel(ctx, NewCatalog(users, movies), ratings, chunkSize, runtime.NumCPU())
}

func runParallel(ctx context.Context, catalog *Catalog, ratings []domain.Rating, chunkSize, workers int) (Report, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	chunks := Partition(ratings, chunkSize)
	partials := make([]Report, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("chunk %d: %w: %v", i, ErrChunkFailed, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			partials[i] = aggregateChunk(catalog, chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(partials), nil
}

// Partition slices ratings into consecutive chunks of size elements; the last
// chunk may be shorter. Chunks share the backing array but cannot grow into
// each other.
func Partition(ratings []domain.Rating, size int) [][]domain.Rating {
	if size <= 0 || len(ratings) == 0 {
		return nil
	}
	chunks := make([][]domain.Rating, 0, (len(ratings)+size-1)/size)
	for start := 0; start < len(ratings); start += size {
		end := start + size
		if end > len(ratings) {
			end = len(ratings)
		}
		chunks = append(chunks, ratings[start:end:end])
	}
	return chunks
}

// Merge combines chunk reports. For every segment the chunk top lists are pooled,
// grouped by title and re-ranked on the plain mean of the chunk averages.
//
// The mean is unweighted: a title averaged 5.0 over two ratings in
// one chunk and 2.0 over one rating in another merges to 3.5, not 4.0. Titles
// that miss every chunk-local top list are lost even if they would rank
// globally.
func Merge(partials []Report) Report {
	out := NewReport()
	for _, s := range Segments() {
		groups := make(map[string]*meanAcc)
		for _, partial := range partials {
			for _, e := range partial[s] {
				acc, ok := groups[e.Title]
				if !ok {
					acc = &meanAcc{}
					groups[e.Title] = acc
				}
				acc.sum += e.Average
				acc.count++
			}
		}
		out[s] = rank(groups)
	}
	return out
}
