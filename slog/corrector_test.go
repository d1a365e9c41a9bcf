package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/mock"
	ppslog "github.com/pageproof/pageproof/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCorrector_Correct(t *testing.T) {
	t.Parallel()

	t.Run("logs item and correction counts with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Corrector{
			CorrectFn: func(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
				return []pageproof.Correction{{Idx: 0, Content: "Hello world"}}, nil
			},
		}

		corrector := ppslog.NewLoggingCorrector(inner, logger)
		batch := &pageproof.Batch{Items: []pageproof.BatchItem{
			{Idx: 0, Text: "Helo wrld"},
			{Idx: 1, Text: "Good morning"},
		}}
		corrections, err := corrector.Correct(context.Background(), batch)

		require.NoError(t, err)
		assert.Len(t, corrections, 1)
		output := buf.String()
		assert.Contains(t, output, "correct")
		assert.Contains(t, output, "items=2")
		assert.Contains(t, output, "corrections=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Corrector{
			CorrectFn: func(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
				return nil, pageproof.Errorf(pageproof.ECORRECTION, "service unreachable")
			},
		}

		corrector := ppslog.NewLoggingCorrector(inner, logger)
		_, err := corrector.Correct(context.Background(), &pageproof.Batch{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "correct")
		assert.Contains(t, output, "service unreachable")
	})
}
