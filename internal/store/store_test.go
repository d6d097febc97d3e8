package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkistner/dataprov/internal/report"
	"github.com/rkistner/dataprov/internal/testutil"
)

// openTestStore opens a fresh store backed by a temp file.
// A file (not :memory:) exercises the WAL pragma path.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// makeReport builds a recorded report with deterministic timestamps.
func makeReport(id, caseName string, clock *testutil.SteppingClock, rows []report.RowResult) *report.Report {
	r := report.New(caseName, rows)
	r.ID = id
	r.StartedAt = clock.Now()
	r.FinishedAt = clock.Now()
	return r
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}

func TestWriteReport_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := testutil.NewSteppingClock(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), time.Second)

	written := makeReport("run-1", "widen", clock, []report.RowResult{
		{Index: 0, Status: report.StatusOK},
		{Index: 1, Status: report.StatusMismatch, Message: "TYPE_MISMATCH: parameter 0 is of type int but argument given is 5 of type int64"},
	})
	require.NoError(t, st.WriteReport(ctx, written))

	got, err := st.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, written.ID, got.ID)
	assert.Equal(t, written.Case, got.Case)
	assert.Equal(t, written.Total, got.Total)
	assert.Equal(t, written.Failed, got.Failed)
	assert.Equal(t, written.Rows, got.Rows)
	assert.True(t, written.StartedAt.Equal(got.StartedAt))
	assert.True(t, written.FinishedAt.Equal(got.FinishedAt))
}

func TestWriteReport_RequiresID(t *testing.T) {
	st := openTestStore(t)

	err := st.WriteReport(context.Background(), report.New("x", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no run ID")
}

func TestWriteReport_DuplicateIDRejected(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := testutil.NewSteppingClock(time.Unix(1000, 0).UTC(), time.Second)

	r := makeReport("run-1", "add", clock, nil)
	require.NoError(t, st.WriteReport(ctx, r))
	assert.Error(t, st.WriteReport(ctx, r))
}

func TestListRuns_NewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := testutil.NewSteppingClock(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC), time.Minute)

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		r := makeReport(id, "add", clock, []report.RowResult{{Index: 0, Status: report.StatusOK}})
		require.NoError(t, st.WriteReport(ctx, r))
	}

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)

	require.Len(t, runs, 3)
	assert.Equal(t, "run-3", runs[0].ID)
	assert.Equal(t, "run-2", runs[1].ID)
	assert.Equal(t, "run-1", runs[2].ID)
}

func TestListRuns_Limit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	clock := testutil.NewSteppingClock(time.Unix(1000, 0).UTC(), time.Second)

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, st.WriteReport(ctx, makeReport(id, "add", clock, nil)))
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestGetRun_NotFound(t *testing.T) {
	st := openTestStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}
