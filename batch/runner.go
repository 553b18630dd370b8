package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/remedymatch"
	"github.com/poiesic/remedymatch/lookup"
)

// Matcher resolves one medicine name. *remedymatch.Matcher implements it.
type Matcher interface {
	Match(ctx context.Context, medicineName string) (*remedymatch.Report, error)
}

// Outcome is the result for one input name. Exactly one of Report and Err
// is set.
type Outcome struct {
	Medicine string
	Report   *remedymatch.Report
	Err      error
}

// Summary counts outcomes by kind.
type Summary struct {
	Total     int
	Succeeded int
	NotFound  int
	Failed    int
}

// Summarize counts outcomes. Lookups that found no label are counted
// separately from other failures.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Err == nil:
			s.Succeeded++
		case errors.Is(o.Err, lookup.ErrNotFound):
			s.NotFound++
		default:
			s.Failed++
		}
	}
	return s
}

// Runner matches medicine names on a worker pool.
type Runner struct {
	matcher        Matcher
	pool           *ants.Pool
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the worker pool size.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if r.pool != nil {
			r.pool.Release()
		}
		r.pool = pool
		return nil
	}
}

// WithProgress reports progress to w every interval completed names.
// Default is no progress output.
func WithProgress(w io.Writer, interval int) Option {
	return func(r *Runner) error {
		r.progress = w
		r.reportInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a runner. Call Release when done with it.
func NewRunner(matcher Matcher, opts ...Option) (*Runner, error) {
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU(), 1))
	if err != nil {
		return nil, err
	}

	r := &Runner{
		matcher:        matcher,
		pool:           pool,
		reportInterval: 1,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}
	return r, nil
}

// Run matches every name and returns one outcome per name, in input order.
// Names not yet started when ctx is cancelled get ctx.Err() as their error.
func (r *Runner) Run(ctx context.Context, names []string) []Outcome {
	outcomes := make([]Outcome, len(names))

	progress := r.progress
	if progress == nil {
		progress = io.Discard
	}
	tracker := NewProgressTracker(progress, len(names), r.reportInterval)
	tracker.Start()

	var wg sync.WaitGroup
	for i, name := range names {
		outcomes[i].Medicine = name
		if err := ctx.Err(); err != nil {
			outcomes[i].Err = err
			tracker.Increment(1)
			continue
		}

		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			defer tracker.Increment(1)

			report, err := r.matcher.Match(ctx, name)
			if err != nil {
				outcomes[i].Err = err
				return
			}
			outcomes[i].Report = report
		})
		if err != nil {
			wg.Done()
			outcomes[i].Err = fmt.Errorf("submit %q: %w", name, err)
			tracker.Increment(1)
		}
	}
	wg.Wait()
	tracker.Finish()

	summary := Summarize(outcomes)
	r.logger.Info("batch complete",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"notFound", summary.NotFound,
		"failed", summary.Failed,
		"elapsed", tracker.Elapsed())
	return outcomes
}

// Release releases the worker pool. The runner should not be used after
// calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
