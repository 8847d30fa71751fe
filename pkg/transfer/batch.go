// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package transfer

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidBatchSize = errors.New("batch size must be positive")

// PanicError is recorded as the failure of an item whose operation panicked.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}

// Operation transfers a single item. A nil return marks the item as done.
// The tracker may be fed byte progress, the runner reports completion and
// failure on its own.
type Operation[K comparable] func(ctx context.Context, item Item[K], tracker Tracker) error

// Runner executes operations in fixed-size batches and checkpoints completed
// item IDs into Store after every batch.
type Runner[K comparable] struct {
	BatchSize int
	// Store may be nil, in which case nothing is skipped or persisted.
	Store *StateStore[K]
	// IsDone is an optional secondary check, e.g. whether the target file
	// already exists. An item is skipped if either Store or IsDone says so.
	IsDone   func(Item[K]) bool
	Progress Progress
}

func (r *Runner[K]) alreadyDone(item Item[K]) bool {
	if r.Store != nil && r.Store.Contains(item.ID) {
		return true
	}
	return r.IsDone != nil && r.IsDone(item)
}

// Pending returns the items that a run would attempt, in order.
func (r *Runner[K]) Pending(items []Item[K]) []Item[K] {
	pending := make([]Item[K], 0, len(items))
	for _, item := range items {
		if !r.alreadyDone(item) {
			pending = append(pending, item)
		}
	}
	return pending
}

// Run processes items and returns the aggregate outcome.
//
// Items in a batch run concurrently and a failing or panicking item never
// affects its siblings. If ctx is canceled, the batch in flight is joined
// and checkpointed, then Run returns the partial summary along with
// ctx.Err().
func (r *Runner[K]) Run(ctx context.Context, items []Item[K], op Operation[K]) (Summary, error) {
	var summary Summary
	if r.BatchSize <= 0 {
		return summary, errors.Wrapf(ErrInvalidBatchSize, "got %d", r.BatchSize)
	}
	log := zerolog.Ctx(ctx)
	pending := r.Pending(items)
	summary.AlreadyDone = len(items) - len(pending)
	if len(pending) == 0 {
		log.Debug().Int("already_done", summary.AlreadyDone).Msg("Nothing to transfer")
		return summary, nil
	}

	batchCount := (len(pending) + r.BatchSize - 1) / r.BatchSize
	for i := 0; i < batchCount; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		start := i * r.BatchSize
		end := min(start+r.BatchSize, len(pending))
		r.runBatch(ctx, i+1, batchCount, pending[start:end], op, &summary)
	}
	return summary, ctx.Err()
}

func (r *Runner[K]) runBatch(ctx context.Context, num, count int, batch []Item[K], op Operation[K], summary *Summary) {
	log := zerolog.Ctx(ctx).With().
		Int("batch", num).
		Int("batch_count", count).
		Logger()
	ctx = log.WithContext(ctx)
	progress := r.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	log.Debug().Int("items", len(batch)).Msg("Starting batch")
	startedAt := time.Now()
	results := make([]error, len(batch))
	var succeeded, failed atomic.Int64
	var eg errgroup.Group
	for j, item := range batch {
		eg.Go(func() error {
			results[j] = runOne(ctx, item, op, progress.Track(item.String(), item.Size))
			if results[j] == nil {
				succeeded.Inc()
			} else {
				failed.Inc()
			}
			return nil
		})
	}
	_ = eg.Wait()

	summary.Succeeded += int(succeeded.Load())
	summary.Failed += int(failed.Load())
	for j, item := range batch {
		if err := results[j]; err != nil {
			summary.Failures = append(summary.Failures, Failure{Name: item.String(), Err: err})
		} else if r.Store != nil {
			r.Store.Add(item.ID)
		}
	}
	if r.Store != nil {
		if err := r.Store.Save(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to save transfer state")
		}
	}
	log.Debug().
		Int64("succeeded", succeeded.Load()).
		Int64("failed", failed.Load()).
		Dur("duration", time.Since(startedAt)).
		Msg("Batch finished")
}

func runOne[K comparable](ctx context.Context, item Item[K], op Operation[K], tracker Tracker) (err error) {
	log := zerolog.Ctx(ctx).With().Str("item", item.String()).Logger()
	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Bytes(zerolog.ErrorStackFieldName, debug.Stack()).
				Interface(zerolog.ErrorFieldName, p).
				Msg("Transfer operation panicked")
			err = PanicError{Value: p}
		}
		if err != nil {
			log.Debug().Err(err).Msg("Item failed")
			tracker.OnFail(err)
		} else {
			tracker.OnComplete()
		}
	}()
	return op(log.WithContext(ctx), item, tracker)
}
