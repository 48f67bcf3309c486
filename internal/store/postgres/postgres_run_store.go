package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"keepalive/internal/models"
	"keepalive/internal/state"
)

// RunStore persists ping runs in Postgres.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Insert(ctx context.Context, run models.Run) error {
	query := `
		INSERT INTO keepalive_schema.runs
			(id, target, status, http_status, last_error, started_at, duration_ms, next_run_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Target,
		run.Status,
		run.HTTPStatus,
		run.LastError,
		run.StartedAt,
		run.Duration.Milliseconds(),
		nullableTime(run.NextRunAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (s *RunStore) Recent(ctx context.Context, limit int) ([]models.Run, error) {
	if limit < 1 {
		limit = 1
	}

	query := `
		SELECT id, target, status, http_status, last_error,
		       started_at, duration_ms, next_run_at
		FROM keepalive_schema.runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		var durationMs int64
		var nextRunAt sql.NullTime

		err := rows.Scan(
			&run.ID, &run.Target, &run.Status, &run.HTTPStatus, &run.LastError,
			&run.StartedAt, &durationMs, &nextRunAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Duration = time.Duration(durationMs) * time.Millisecond
		if nextRunAt.Valid {
			run.NextRunAt = nextRunAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *RunStore) CountGroupedByStatus(ctx context.Context) (map[state.RunStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM keepalive_schema.runs
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[state.RunStatus]int)
	for rows.Next() {
		var status state.RunStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
