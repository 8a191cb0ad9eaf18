// Package batch runs units of work on a bounded pool. Results are handled
// on the calling goroutine only, in completion order, and progress is
// checkpointed as the count of leading units that are fully handled.
package batch

import (
	"context"
	"errors"

	"github.com/gaurav-prasanna/paperback/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes a run.
type Options struct {
	// Workers bounds concurrent units. Values below 1 mean 1.
	Workers int
	// CommitEvery checkpoints after this many handled units. Zero means
	// Workers. The run always checkpoints once at the end.
	CommitEvery int
	// Position maps the number of leading handled units to the value
	// committed to the store. Nil commits the count itself.
	Position func(done int) int
	// Flush is called before every checkpoint commit, so that everything
	// the checkpoint covers is durable first.
	Flush func() error
}

// Summary reports what a run did.
type Summary struct {
	Total     int
	Handled   int
	Failed    int
	Watermark int
}

type outcome[R any] struct {
	index int
	value R
	err   error
}

// Run calls work for every unit with at most opts.Workers in flight, and
// handle for each result on the calling goroutine. A unit error is passed
// to handle and does not stop the run; an error from handle or Flush does.
// store may be nil.
func Run[U, R any](
	ctx context.Context,
	log *zap.Logger,
	store core.CheckpointStore,
	units []U,
	opts Options,
	work func(ctx context.Context, unit U) (R, error),
	handle func(unit U, result R, err error) error,
) (Summary, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.CommitEvery <= 0 {
		opts.CommitEvery = opts.Workers
	}
	if opts.Position == nil {
		opts.Position = func(done int) int { return done }
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan outcome[R])
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	go func() {
		for i, u := range units {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				r, err := work(gctx, u)
				select {
				case results <- outcome[R]{index: i, value: r, err: err}:
				case <-gctx.Done():
				}
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	sum := Summary{Total: len(units)}
	done := make([]bool, len(units))
	committed := 0
	var runErr error

	checkpoint := func(ctx context.Context) error {
		if sum.Watermark == committed || sum.Watermark == 0 {
			return nil
		}
		if opts.Flush != nil {
			if err := opts.Flush(); err != nil {
				return err
			}
		}
		if store != nil {
			pos := opts.Position(sum.Watermark)
			if err := store.Commit(ctx, pos); err != nil {
				return err
			}
			log.Info("checkpoint committed", zap.Int("position", pos), zap.Int("handled", sum.Handled))
		}
		committed = sum.Watermark
		return nil
	}

	for o := range results {
		if runErr != nil {
			continue
		}
		if o.err != nil {
			sum.Failed++
		}
		if err := handle(units[o.index], o.value, o.err); err != nil {
			runErr = err
			cancel()
			continue
		}
		sum.Handled++
		done[o.index] = true
		for sum.Watermark < len(units) && done[sum.Watermark] {
			sum.Watermark++
		}
		if sum.Handled%opts.CommitEvery == 0 {
			if err := checkpoint(ctx); err != nil {
				runErr = err
				cancel()
			}
		}
	}

	// The final checkpoint is written even when the run was interrupted.
	if err := checkpoint(context.WithoutCancel(ctx)); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr == nil && ctx.Err() != nil && sum.Handled < sum.Total {
		runErr = context.Cause(ctx)
	}
	return sum, runErr
}
