package proof

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pageproof/pageproof"
	"golang.org/x/sync/errgroup"
)

// dispatch submits batches to the corrector and merges their corrections in
// batch order. Corrections referencing indices that were never part of the
// batch they answer are dropped with a warning. On failure it returns the
// corrections gathered from the batches that succeeded, the number of
// completed batches, and the error.
func (r *Runner) dispatch(ctx context.Context, batches []*pageproof.Batch, progress ProgressFunc) ([]pageproof.Correction, int, error) {
	if len(batches) == 0 {
		return nil, 0, nil
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	correct := func(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
		if r.Pacer != nil {
			if err := r.Pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		cctx := ctx
		if r.CorrectTimeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, r.CorrectTimeout)
			defer cancel()
		}
		return r.Corrector.Correct(cctx, batch)
	}

	if r.Concurrency > 1 {
		return r.dispatchParallel(ctx, batches, correct, delays, progress)
	}

	var merged []pageproof.Correction
	var completed int
	for i, batch := range batches {
		corrections, err := CorrectWithRetryDelays(ctx, batch, correct, r.logf(), delays)
		if err != nil {
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressBatchFailed,
					Completed: completed,
					Total:     len(batches),
					Error:     err,
				})
			}
			return merged, completed, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}

		merged = append(merged, r.keepSent(batch, corrections)...)
		completed++
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressBatchCompleted,
				Completed: completed,
				Total:     len(batches),
			})
		}
	}
	return merged, completed, nil
}

// dispatchParallel corrects batches concurrently, keeping results in their
// batch slots so the merged order matches the sequential path. The first
// failure cancels the remaining batches; slots that finished stay filled.
func (r *Runner) dispatchParallel(ctx context.Context, batches []*pageproof.Batch, correct CorrectFunc, delays []time.Duration, progress ProgressFunc) ([]pageproof.Correction, int, error) {
	results := make([][]pageproof.Correction, len(batches))
	var completed atomic.Int64
	var mu sync.Mutex // serializes progress callbacks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			corrections, err := CorrectWithRetryDelays(gctx, batch, correct, r.logf(), delays)
			if err != nil {
				if progress != nil {
					mu.Lock()
					progress(ProgressEvent{
						Type:      ProgressBatchFailed,
						Completed: int(completed.Load()),
						Total:     len(batches),
						Error:     err,
					})
					mu.Unlock()
				}
				return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
			}

			results[i] = r.keepSent(batch, corrections)
			done := completed.Add(1)
			if progress != nil {
				mu.Lock()
				progress(ProgressEvent{
					Type:      ProgressBatchCompleted,
					Completed: int(done),
					Total:     len(batches),
				})
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()

	var merged []pageproof.Correction
	for _, corrections := range results {
		merged = append(merged, corrections...)
	}
	return merged, int(completed.Load()), err
}

// keepSent filters out corrections whose index was never part of the batch.
func (r *Runner) keepSent(batch *pageproof.Batch, corrections []pageproof.Correction) []pageproof.Correction {
	sent := batch.Indices()
	kept := make([]pageproof.Correction, 0, len(corrections))
	for _, c := range corrections {
		if !sent[c.Idx] {
			r.logger().Warn("correction references an index that was never sent, dropped", "idx", c.Idx)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// Join maps corrections back to the items they were collected from and
// renders the word diff for each pair. Records come back ordered by item
// index. A correction whose index matches no collected item is dropped
// with a warning.
func Join(items []pageproof.TextItem, corrections []pageproof.Correction, logger *slog.Logger) []*pageproof.CorrectionRecord {
	if logger == nil {
		logger = slog.Default()
	}

	byIndex := make(map[int]pageproof.TextItem, len(items))
	for _, item := range items {
		byIndex[item.Index] = item
	}

	records := make([]*pageproof.CorrectionRecord, 0, len(corrections))
	for _, c := range corrections {
		item, ok := byIndex[c.Idx]
		if !ok {
			logger.Warn("correction matches no collected item, dropped", "idx", c.Idx)
			continue
		}
		markedOrig, markedCorr := MarkDiff(item.Text, c.Content)
		records = append(records, &pageproof.CorrectionRecord{
			Index:           c.Idx,
			Original:        item.Text,
			Corrected:       c.Content,
			OriginalMarked:  markedOrig,
			CorrectedMarked: markedCorr,
			Element:         item.Element,
		})
	}

	slices.SortStableFunc(records, func(a, b *pageproof.CorrectionRecord) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return records
}
