package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/hoanghai1803/newsclip/internal/models"
)

var runColumns = []string{
	"id", "mode", "window_start", "window_end", "started_at", "finished_at",
	"fetched", "unique_count", "in_window", "excluded", "duplicates",
	"irrelevant", "rejected", "failed", "persisted", "error",
}

// RecordRun inserts or replaces the ledger entry for run.
func (s *Store) RecordRun(ctx context.Context, run *models.Run) error {
	query, args, err := psql.Insert("runs").
		Columns(runColumns...).
		Values(
			run.ID, run.Mode, formatTime(run.WindowStart), formatTimePtr(run.WindowEnd),
			formatTime(run.StartedAt), formatTimePtr(run.FinishedAt),
			run.Fetched, run.Unique, run.InWindow, run.Excluded, run.Duplicates,
			run.Irrelevant, run.Rejected, run.Failed, run.Persisted, run.Error,
		).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return fmt.Errorf("building run insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given id, or ErrNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*models.Run, error) {
	runs, err := s.queryRuns(ctx, psql.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// LatestRun returns the most recently started run, or ErrNotFound when the
// ledger is empty.
func (s *Store) LatestRun(ctx context.Context) (*models.Run, error) {
	runs, err := s.RecentRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]models.Run, error) {
	return s.queryRuns(ctx, psql.Select(runColumns...).From("runs").
		OrderBy("started_at DESC", "rowid DESC").
		Limit(uint64(limit)))
}

func (s *Store) queryRuns(ctx context.Context, b sq.SelectBuilder) ([]models.Run, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building run query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var (
			r           models.Run
			windowStart string
			windowEnd   sql.NullString
			startedAt   string
			finishedAt  sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &r.Mode, &windowStart, &windowEnd, &startedAt, &finishedAt,
			&r.Fetched, &r.Unique, &r.InWindow, &r.Excluded, &r.Duplicates,
			&r.Irrelevant, &r.Rejected, &r.Failed, &r.Persisted, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.WindowStart = parseTime(windowStart)
		r.StartedAt = parseTime(startedAt)
		if windowEnd.Valid {
			r.WindowEnd = parseTimePtr(&windowEnd.String)
		}
		if finishedAt.Valid {
			r.FinishedAt = parseTimePtr(&finishedAt.String)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run rows: %w", err)
	}
	return runs, nil
}
