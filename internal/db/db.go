// Package db provides PostgreSQL persistence for solve runs and their artifacts.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateSolveRun creates a new solve run record and returns its ID
func (db *DB) CreateSolveRun(ctx context.Context, source string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO solve_runs (source, status)
		 VALUES ($1, $2)
		 RETURNING id`,
		source, StatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create solve run: %w", err)
	}
	return id, nil
}

// CompleteSolveRun marks a solve run as finished with its outcome
func (db *DB) CompleteSolveRun(ctx context.Context, runID uuid.UUID, status, ruleKind string, selectedIndex *int, approximate bool) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE solve_runs
		 SET status = $1, rule_kind = $2, selected_index = $3, approximate = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, ruleKind, selectedIndex, approximate, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete solve run: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a solve run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetSolveRun retrieves a solve run by ID
func (db *DB) GetSolveRun(ctx context.Context, runID uuid.UUID) (*SolveRun, error) {
	var run SolveRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, COALESCE(rule_kind, ''), selected_index, approximate, status, created_at, completed_at
		 FROM solve_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Source, &run.RuleKind, &run.SelectedIndex, &run.Approximate, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get solve run: %w", err)
	}
	return &run, nil
}

// ListSolveRuns retrieves recent solve runs
func (db *DB) ListSolveRuns(ctx context.Context, limit int) ([]SolveRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, source, COALESCE(rule_kind, ''), selected_index, approximate, status, created_at, completed_at
		 FROM solve_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list solve runs: %w", err)
	}
	defer rows.Close()

	var runs []SolveRun
	for rows.Next() {
		var run SolveRun
		if err := rows.Scan(&run.ID, &run.Source, &run.RuleKind, &run.SelectedIndex, &run.Approximate, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan solve run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
