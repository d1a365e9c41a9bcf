package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageproof/pageproof"
)

// Compile-time interface verification.
var _ pageproof.RunService = (*RunService)(nil)

// RunService implements pageproof.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun persists a run together with its correction records.
func (s *RunService) CreateRun(ctx context.Context, run *pageproof.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, url, title, status, content_hash, markdown, items, batches, dropped, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.URL, run.Title, string(run.Status), run.ContentHash, run.Markdown,
		run.Items, run.Batches, run.Dropped, run.Error, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for _, rec := range run.Corrections {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO corrections (run_id, idx, original, corrected, original_marked, corrected_marked)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, rec.Index, rec.Original, rec.Corrected, rec.OriginalMarked, rec.CorrectedMarked)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID with correction records attached.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*pageproof.Run, error) {
	var run pageproof.Run
	var status, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, status, content_hash, markdown, items, batches, dropped, error, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.URL, &run.Title, &status, &run.ContentHash, &run.Markdown,
		&run.Items, &run.Batches, &run.Dropped, &run.Error, &createdAt)

	if err == sql.ErrNoRows {
		return nil, pageproof.Errorf(pageproof.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.Status = pageproof.RunStatus(status)
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	run.Corrections, err = s.findCorrections(ctx, id)
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// FindRuns retrieves runs matching the filter, newest first. Correction
// records are not attached.
func (s *RunService) FindRuns(ctx context.Context, filter pageproof.RunFilter) ([]*pageproof.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, status, content_hash, markdown, items, batches, dropped, error, created_at FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	// RFC3339 strings sort chronologically. The timestamps carry second
	// resolution, so rowid breaks ties between runs from the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*pageproof.Run
	for rows.Next() {
		var run pageproof.Run
		var status, createdAt string

		if err := rows.Scan(&run.ID, &run.URL, &run.Title, &status, &run.ContentHash, &run.Markdown,
			&run.Items, &run.Batches, &run.Dropped, &run.Error, &createdAt); err != nil {
			return nil, err
		}

		run.Status = pageproof.RunStatus(status)
		run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// DeleteRun permanently removes a run. Correction records cascade.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pageproof.Errorf(pageproof.ENOTFOUND, "run not found")
	}

	return nil
}

// findCorrections loads a run's correction records in page order.
func (s *RunService) findCorrections(ctx context.Context, runID string) ([]*pageproof.CorrectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, original, corrected, original_marked, corrected_marked
		FROM corrections
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*pageproof.CorrectionRecord
	for rows.Next() {
		var rec pageproof.CorrectionRecord
		if err := rows.Scan(&rec.Index, &rec.Original, &rec.Corrected,
			&rec.OriginalMarked, &rec.CorrectedMarked); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}
