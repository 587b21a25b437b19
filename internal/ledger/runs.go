package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lathe/internal/batch"
)

// Run is one recorded batch invocation.
type Run struct {
	ID         int64
	Operation  string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Succeeded  int
	Failed     int
}

// FileRecord is one file's outcome within a run.
type FileRecord struct {
	RunID    int64
	JobID    string
	Input    string
	Output   string
	Status   string
	Detail   string
	Duration time.Duration
}

// File record statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const timeLayout = time.RFC3339

// RecordBatch persists a completed batch run and all of its outcomes in one
// transaction.
func (s *Store) RecordBatch(ctx context.Context, operation string, startedAt time.Time, result batch.Result) (int64, error) {
	var runID int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO runs (operation, started_at, finished_at, total, succeeded, failed)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			operation,
			startedAt.UTC().Format(timeLayout),
			startedAt.Add(result.Elapsed).UTC().Format(timeLayout),
			len(result.Outcomes),
			result.Succeeded,
			result.Failed,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		runID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("run id: %w", err)
		}

		for _, outcome := range result.Outcomes {
			status := StatusOK
			detail := outcome.Status
			if outcome.Err != nil {
				status = StatusFailed
				detail = outcome.Err.Error()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO run_files (run_id, job_id, input, output, status, detail, duration_ms)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, outcome.Job.ID, outcome.Job.Input, outcome.Job.Output,
				status, detail, outcome.Duration.Milliseconds(),
			); err != nil {
				return fmt.Errorf("insert run file: %w", err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, started_at, finished_at, total, succeeded, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run              Run
			started, finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Operation, &started, &finished, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunFiles returns every file record of one run, in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, job_id, input, output, status, detail, duration_ms
		 FROM run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var (
			rec        FileRecord
			durationMS int64
		)
		if err := rows.Scan(&rec.RunID, &rec.JobID, &rec.Input, &rec.Output, &rec.Status, &rec.Detail, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all recorded runs.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.execWithRetry(ctx, "DELETE FROM runs")
	return err
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
