package report

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movielens-reports/internal/domain"
)

// ErrUnknownStrategy is returned for strategy names other than sequential or parallel.
var ErrUnknownStrategy = errors.New("report: unknown strategy")

// Strategy selects how a report is computed.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// ParseStrategy validates a strategy name. An empty name selects the parallel strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "":
		return StrategyParallel, nil
	case StrategySequential, StrategyParallel:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Options controls how the runner schedules parallel work.
type Options struct {
	ChunkSize int
	Workers   int
	Logger    logrus.FieldLogger
}

// Runner computes reports over a dataset with a fixed configuration.
type Runner struct {
	opts   Options
	logger logrus.FieldLogger
}

// Result is a computed report together with how it was produced.
type Result struct {
	ID        uuid.UUID
	Strategy  Strategy
	ChunkSize int
	Elapsed   time.Duration
	Report    Report
}

// NewRunner validates opts, filling in the default chunk size and one worker per CPU.
func NewRunner(opts Options) (*Runner, error) {
	if opts.ChunkSize == 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.ChunkSize < 0 {
		return nil, ErrInvalidChunkSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{opts: opts, logger: logger}, nil
}

// ChunkSize returns the configured partition size.
func (r *Runner) ChunkSize() int {
	return r.opts.ChunkSize
}

// Run computes a report over the dataset with the given strategy.
func (r *Runner) Run(ctx context.Context, ds domain.Dataset, strategy Strategy) (Result, error) {
	return r.RunWithChunkSize(ctx, ds, strategy, r.opts.ChunkSize)
}

// RunWithChunkSize is Run with a per-call chunk size override for the parallel strategy.
func (r *Runner) RunWithChunkSize(ctx context.Context, ds domain.Dataset, strategy Strategy, chunkSize int) (Result, error) {
	res := Result{ID: uuid.New(), Strategy: strategy}
	log := r.logger.WithFields(logrus.Fields{
		"run_id":   res.ID.String(),
		"strategy": string(strategy),
	})

	start := time.Now()
	switch strategy {
	case StrategySequential:
		res.Report = RunSequential(ds.Ratings, ds.Users, ds.Movies)
	case StrategyParallel:
		if chunkSize <= 0 {
			return Result{}, ErrInvalidChunkSize
		}
		res.ChunkSize = chunkSize
		log.WithFields(logrus.Fields{
			"chunk_size": chunkSize,
			"chunks":     (len(ds.Ratings) + chunkSize - 1) / chunkSize,
			"workers":    r.opts.Workers,
		}).Debug("report: dispatching chunks")
		report, err := runParallel(ctx, NewCatalog(ds.Users, ds.Movies), ds.Ratings, chunkSize, r.opts.Workers)
		if err != nil {
			log.WithError(err).Error("report: parallel run failed")
			return Result{}, err
		}
		res.Report = report
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	res.Elapsed = time.Since(start)

	log.WithField("elapsed", res.Elapsed).Info("report: run completed")
	return res, nil
}
