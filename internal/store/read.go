package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run id has no record.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns all recorded runs, most recent first. Ties on
// timestamp break by id so the listing order is stable.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, interface_path, interface_hash, rule_count, violation_count
		FROM runs
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// GetRun returns one recorded run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, interface_path, interface_hash, rule_count, violation_count
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RunViolations returns a run's violations in their original order,
// with messages re-rendered from the stored detail.
func (s *Store) RunViolations(ctx context.Context, runID string) ([]RecordedViolation, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, detail
		FROM violations
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run violations: %w", err)
	}
	defer rows.Close()

	var violations []RecordedViolation
	for rows.Next() {
		var v RecordedViolation
		if err := rows.Scan(&v.Seq, &v.Kind, &v.Detail); err != nil {
			return nil, fmt.Errorf("run violations: %w", err)
		}
		v.Message = renderMessage(v.Kind, v.Detail)
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run violations: %w", err)
	}

	return violations, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var createdAt string
	if err := s.Scan(&run.ID, &createdAt, &run.InterfacePath, &run.InterfaceHash, &run.RuleCount, &run.ViolationCount); err != nil {
		return Run{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = t

	return run, nil
}
