package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rkistner/dataprov/internal/report"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one line of the history listing.
type RunSummary struct {
	ID         string    `json:"id"`
	Case       string    `json:"case"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Failed     int       `json:"failed"`
}

// ListRuns returns up to limit recorded runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_name, started_at, finished_at, rows_total, rows_failed
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// GetRun returns the full report for a recorded run.
func (s *Store) GetRun(ctx context.Context, id string) (*report.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, case_name, started_at, finished_at, rows_total, rows_failed
		 FROM runs WHERE id = ?`, id)

	var (
		r                     report.Report
		startedAt, finishedAt string
	)
	err := row.Scan(&r.ID, &r.Case, &startedAt, &finishedAt, &r.Total, &r.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at for run %s: %w", id, err)
	}
	if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("parse finished_at for run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, status, message FROM row_results WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query row results for run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rr report.RowResult
		var status string
		if err := rows.Scan(&rr.Index, &status, &rr.Message); err != nil {
			return nil, fmt.Errorf("scan row result for run %s: %w", id, err)
		}
		rr.Status = report.Status(status)
		r.Rows = append(r.Rows, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate row results for run %s: %w", id, err)
	}

	return &r, nil
}

// scanRun reads one history row.
func scanRun(rows *sql.Rows) (RunSummary, error) {
	var (
		summary               RunSummary
		startedAt, finishedAt string
	)
	if err := rows.Scan(&summary.ID, &summary.Case, &startedAt, &finishedAt, &summary.Total, &summary.Failed); err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return RunSummary{}, fmt.Errorf("parse started_at: %w", err)
	}
	if summary.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return RunSummary{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return summary, nil
}
