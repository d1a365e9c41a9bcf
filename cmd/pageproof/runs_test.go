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

func TestRunsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with ID, time, status, and URL", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ pageproof.RunFilter) ([]*pageproof.Run, error) {
				return []*pageproof.Run{
					{
						ID:        "run-123",
						URL:       "https://example.com/pricing",
						Status:    pageproof.RunCompleted,
						CreatedAt: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
					},
					{
						ID:        "run-456",
						URL:       "https://example.com/about",
						Status:    pageproof.RunPartial,
						CreatedAt: time.Date(2025, 1, 16, 11, 30, 0, 0, time.UTC),
					},
				}, nil
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

		cmd := &main.RunsCmd{Limit: 20}

		err := cmd.Run(deps)

		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "run-123")
		assert.Contains(t, output, "run-456")
		assert.Contains(t, output, "completed")
		assert.Contains(t, output, "partial")
		assert.Contains(t, output, "https://example.com/pricing")
		assert.Contains(t, output, "2025-01-15 10:00")
		assert.Empty(t, stderr.String())
	})

	t.Run("shows helpful message when no runs exist", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ pageproof.RunFilter) ([]*pageproof.Run, error) {
				return []*pageproof.Run{}, nil
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

		cmd := &main.RunsCmd{Limit: 20}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No runs")
	})

	t.Run("passes URL, status, limit, and offset to the filter", func(t *testing.T) {
		t.Parallel()

		var received pageproof.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter pageproof.RunFilter) ([]*pageproof.Run, error) {
				received = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.RunsCmd{
			URL:    "https://example.com",
			Status: "failed",
			Limit:  5,
			Offset: 10,
		}

		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, received.URL)
		assert.Equal(t, "https://example.com", *received.URL)
		require.NotNil(t, received.Status)
		assert.Equal(t, pageproof.RunFailed, *received.Status)
		assert.Equal(t, 5, received.Limit)
		assert.Equal(t, 10, received.Offset)
	})

	t.Run("leaves filter fields nil when flags are unset", func(t *testing.T) {
		t.Parallel()

		var received pageproof.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, filter pageproof.RunFilter) ([]*pageproof.Run, error) {
				received = filter
				return nil, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Runs:   runs,
		}

		cmd := &main.RunsCmd{Limit: 20}

		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Nil(t, received.URL)
		assert.Nil(t, received.Status)
	})

	t.Run("returns error when FindRuns fails", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(_ context.Context, _ pageproof.RunFilter) ([]*pageproof.Run, error) {
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

		cmd := &main.RunsCmd{Limit: 20}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
