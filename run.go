package pageproof

import (
	"context"
	"time"
)

// RunStatus describes how a review run ended.
type RunStatus string

// RunStatus values.
const (
	RunCompleted RunStatus = "completed"
	RunPartial   RunStatus = "partial" // correction failed mid-run, earlier batches kept
	RunFailed    RunStatus = "failed"
)

// Run records one review of a single URL.
type Run struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Status      RunStatus `json:"status"`
	ContentHash string    `json:"contentHash"`
	Markdown    string    `json:"markdown"`
	Items       int       `json:"items"`
	Batches     int       `json:"batches"`
	Dropped     int       `json:"dropped"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Corrections are attached by FindRunByID and expected by CreateRun.
	// FindRuns leaves them nil.
	Corrections []*CorrectionRecord `json:"corrections,omitempty"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "run URL required")
	}
	if r.Status == "" {
		return Errorf(EINVALID, "run status required")
	}
	return nil
}

// RunService represents a service for managing review runs.
type RunService interface {
	// CreateRun persists a run together with its correction records.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID with correction records attached.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first, without
	// correction records attached.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// DeleteRun permanently removes a run and its correction records.
	// Returns ENOTFOUND if run does not exist.
	DeleteRun(ctx context.Context, id string) error
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string    `json:"id"`
	URL    *string    `json:"url"`
	Status *RunStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
