package proof

import (
	"context"
	"fmt"
	"slices"

	"github.com/pageproof/pageproof"
)

// DefaultMaxTokens is the per-batch token budget for correction requests.
const DefaultMaxTokens = 100000

// Pack groups items into batches whose encoded form stays within the token
// budget, preserving collection order. The cost of a batch is measured by
// encoding the whole accumulated batch and counting tokens on the result,
// so the budget covers JSON syntax and indices, not just the raw text.
//
// An item whose encoding exceeds the budget on its own can never be sent;
// it is returned in dropped and excluded from every batch.
func Pack(ctx context.Context, items []pageproof.TextItem, counter pageproof.TokenCounter, maxTokens int) ([]*pageproof.Batch, []pageproof.BatchItem, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	var batches []*pageproof.Batch
	var dropped []pageproof.BatchItem
	var current []pageproof.BatchItem

	for _, item := range items {
		wire := pageproof.NewBatchItem(item)

		tentative := append(slices.Clone(current), wire)
		cost, err := batchTokens(ctx, counter, &pageproof.Batch{Items: tentative})
		if err != nil {
			return nil, nil, fmt.Errorf("count tokens: %w", err)
		}
		if cost <= maxTokens {
			current = tentative
			continue
		}

		// The tentative batch overflows. Close the current batch and see
		// whether the item fits on its own.
		if len(current) > 0 {
			batches = append(batches, &pageproof.Batch{Items: current})
			current = nil
		}

		cost, err = batchTokens(ctx, counter, &pageproof.Batch{Items: []pageproof.BatchItem{wire}})
		if err != nil {
			return nil, nil, fmt.Errorf("count tokens: %w", err)
		}
		if cost <= maxTokens {
			current = []pageproof.BatchItem{wire}
		} else {
			dropped = append(dropped, wire)
		}
	}

	if len(current) > 0 {
		batches = append(batches, &pageproof.Batch{Items: current})
	}

	return batches, dropped, nil
}

// batchTokens measures the token cost of a batch's wire encoding.
func batchTokens(ctx context.Context, counter pageproof.TokenCounter, batch *pageproof.Batch) (int, error) {
	data, err := batch.Encode()
	if err != nil {
		return 0, err
	}
	return counter.CountTokens(ctx, string(data))
}
