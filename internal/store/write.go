package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rkistner/dataprov/internal/report"
)

// WriteReport records a run report and its row results atomically.
// The report must carry an ID; timestamps are stored in UTC.
func (s *Store) WriteReport(ctx context.Context, r *report.Report) error {
	if r.ID == "" {
		return fmt.Errorf("report has no run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, case_name, started_at, finished_at, rows_total, rows_failed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Case,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Total, r.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}

	for _, row := range r.Rows {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO row_results (run_id, idx, status, message) VALUES (?, ?, ?, ?)`,
			r.ID, row.Index, string(row.Status), row.Message,
		)
		if err != nil {
			return fmt.Errorf("insert row result %d for run %s: %w", row.Index, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", r.ID, err)
	}
	return nil
}
