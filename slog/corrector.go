// Package slog provides logging decorators for pageproof services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pageproof/pageproof"
)

// Ensure LoggingCorrector implements pageproof.Corrector.
var _ pageproof.Corrector = (*LoggingCorrector)(nil)

// LoggingCorrector wraps a Corrector with debug logging.
type LoggingCorrector struct {
	next   pageproof.Corrector
	logger *slog.Logger
}

// NewLoggingCorrector creates a new LoggingCorrector.
func NewLoggingCorrector(next pageproof.Corrector, logger *slog.Logger) *LoggingCorrector {
	return &LoggingCorrector{next: next, logger: logger}
}

// Correct logs the batch being corrected and delegates to the wrapped
// corrector.
func (c *LoggingCorrector) Correct(ctx context.Context, batch *pageproof.Batch) (corrections []pageproof.Correction, err error) {
	defer func(begin time.Time) {
		c.logger.Info("correct",
			"items", len(batch.Items),
			"corrections", len(corrections),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Correct(ctx, batch)
}
