package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mayfashion/segmentflow/internal/common"
	"github.com/mayfashion/segmentflow/internal/model"
)

// SaveRun persists one completed pipeline run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run must have an id")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, status, total_records,
			total_customers, dropped_records, processing_ms, envelope)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC(),
		run.Source,
		run.Status,
		run.TotalRecords,
		run.TotalCustomers,
		run.DroppedRecords,
		run.ProcessingTime.Milliseconds(),
		string(run.Envelope),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun loads one run by id.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, status, total_records, total_customers,
			dropped_records, processing_ms, envelope
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// LatestRun loads the most recent run, or common.ErrNotFound when the
// history is empty.
func (s *SQLiteStorage) LatestRun(ctx context.Context) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, status, total_records, total_customers,
			dropped_records, processing_ms, envelope
		 FROM runs ORDER BY created_at DESC LIMIT 1`)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit below 1
// returns everything.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	query := `SELECT id, created_at, source, status, total_records, total_customers,
			dropped_records, processing_ms, envelope
		 FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan run: %w", scanErr)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run          model.Run
		createdAt    time.Time
		processingMS int64
		envelope     sql.NullString
	)
	err := row.Scan(&run.ID, &createdAt, &run.Source, &run.Status,
		&run.TotalRecords, &run.TotalCustomers, &run.DroppedRecords,
		&processingMS, &envelope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.CreatedAt = createdAt
	run.ProcessingTime = time.Duration(processingMS) * time.Millisecond
	if envelope.Valid {
		run.Envelope = []byte(envelope.String)
	}
	return &run, nil
}
