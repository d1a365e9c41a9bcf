package proof

import (
	"context"
	"time"

	"github.com/pageproof/pageproof"
)

// CorrectFunc is the signature for a single correction attempt.
type CorrectFunc func(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for correction retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// CorrectWithRetry attempts a correction call with exponential backoff retry
// logic. It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
// The logger function, if provided, is called for each retry attempt.
func CorrectWithRetry(ctx context.Context, batch *pageproof.Batch, correct CorrectFunc, logger LogFunc) ([]pageproof.Correction, error) {
	return CorrectWithRetryDelays(ctx, batch, correct, logger, DefaultRetryDelays())
}

// CorrectWithRetryDelays is like CorrectWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func CorrectWithRetryDelays(ctx context.Context, batch *pageproof.Batch, correct CorrectFunc, logger LogFunc, delays []time.Duration) ([]pageproof.Correction, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		corrections, err := correct(ctx, batch)
		if err == nil {
			return corrections, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Log retry
		if logger != nil {
			logger("  retry batch of %d (attempt %d): %v", len(batch.Items), attempt+2, err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
