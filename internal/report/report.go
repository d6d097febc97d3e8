// Package report models the outcome of running a case file's rows and
// renders it for people and machines.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Status classifies a single row's outcome.
type Status string

const (
	// StatusOK means the row converted and (if invoked) passed.
	StatusOK Status = "ok"

	// StatusMismatch means a value was incompatible with its declared
	// slot or the row had the wrong shape for the signature.
	StatusMismatch Status = "mismatch"

	// StatusError means the row failed for another reason (short row,
	// invocation error).
	StatusError Status = "error"
)

// RowResult is the outcome of one data row.
type RowResult struct {
	Index   int    `json:"index"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Report is the outcome of one case.
type Report struct {
	// ID is the run identifier (UUIDv7). Empty for unrecorded checks.
	ID string `json:"id,omitempty"`

	// Case is the case name the rows came from.
	Case string `json:"case"`

	Total  int `json:"total"`
	Failed int `json:"failed"`

	Rows []RowResult `json:"rows"`

	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// NewID returns a UUIDv7 run identifier.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// New builds a Report over the given row results, computing totals.
func New(caseName string, rows []RowResult) *Report {
	failed := 0
	for _, r := range rows {
		if r.Status != StatusOK {
			failed++
		}
	}
	return &Report{
		Case:   caseName,
		Total:  len(rows),
		Failed: failed,
		Rows:   rows,
	}
}

// Passed reports whether every row succeeded.
func (r *Report) Passed() bool {
	return r.Failed == 0
}

// RenderText writes the human-readable form of the report.
//
// Only failing rows are listed, one per line. The output is
// deterministic (no ID or timestamps) so it can be compared against
// golden files.
func (r *Report) RenderText(w io.Writer) error {
	verdict := "ok"
	if !r.Passed() {
		verdict = "FAIL"
	}
	if _, err := fmt.Fprintf(w, "case %s: %d rows, %d failed [%s]\n", r.Case, r.Total, r.Failed, verdict); err != nil {
		return err
	}

	for _, row := range r.Rows {
		if row.Status == StatusOK {
			continue
		}
		if _, err := fmt.Fprintf(w, "  row %d: %s: %s\n", row.Index, row.Status, row.Message); err != nil {
			return err
		}
	}
	return nil
}
