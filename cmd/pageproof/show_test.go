package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pageproof/pageproof"
	main "github.com/pageproof/pageproof/cmd/pageproof"
	"github.com/pageproof/pageproof/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedRun() *pageproof.Run {
	return &pageproof.Run{
		ID:          "run-123",
		URL:         "https://example.com/pricing",
		Title:       "Pricing",
		Status:      pageproof.RunCompleted,
		ContentHash: "abcd1234",
		Items:       12,
		Batches:     2,
		Dropped:     1,
		CreatedAt:   time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		Corrections: []*pageproof.CorrectionRecord{
			{
				Index:           3,
				Original:        "Welcom to ours site",
				Corrected:       "Welcome to our site",
				OriginalMarked:  "**Welcom** to **ours** site",
				CorrectedMarked: "**Welcome** to **our** site",
			},
		},
	}
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("shows run details with plain corrections", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, id string) (*pageproof.Run, error) {
				assert.Equal(t, "run-123", id)
				return storedRun(), nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "run-123"}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Run run-123")
		assert.Contains(t, output, "https://example.com/pricing")
		assert.Contains(t, output, "Pricing")
		assert.Contains(t, output, "completed")
		assert.Contains(t, output, "12 items, 2 batches, 1 dropped")
		assert.Contains(t, output, "Corrections (1)")
		assert.Contains(t, output, "Welcom to ours site")
		assert.Contains(t, output, "Welcome to our site")
		assert.NotContains(t, output, "**Welcom**")
		assert.Empty(t, stderr.String())
	})

	t.Run("shows diff-marked corrections with --marked", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, _ string) (*pageproof.Run, error) {
				return storedRun(), nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "run-123", Marked: true}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "**Welcom** to **ours** site")
		assert.Contains(t, stdout.String(), "**Welcome** to **our** site")
	})

	t.Run("shows message when run has no corrections", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, _ string) (*pageproof.Run, error) {
				run := storedRun()
				run.Corrections = nil
				return run, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "run-123"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No corrections recorded")
	})

	t.Run("shows the run error when present", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, _ string) (*pageproof.Run, error) {
				run := storedRun()
				run.Status = pageproof.RunPartial
				run.Error = "batch 2/2: service down"
				return run, nil
			},
		}

		stdout := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "run-123"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "partial")
		assert.Contains(t, stdout.String(), "batch 2/2: service down")
	})

	t.Run("returns error with hint when run not found", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, id string) (*pageproof.Run, error) {
				return nil, pageproof.Errorf(pageproof.ENOTFOUND, "run %q not found", id)
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "missing"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), `run "missing" not found`)
		assert.Contains(t, stderr.String(), "pageproof runs")
		assert.Empty(t, stdout.String())
	})

	t.Run("returns error when lookup fails", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(_ context.Context, _ string) (*pageproof.Run, error) {
				return nil, pageproof.Errorf(pageproof.EINTERNAL, "database error")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Runs:   runs,
		}

		cmd := &main.ShowCmd{RunID: "run-123"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
