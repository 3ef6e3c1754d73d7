// Package history records solve runs in PostgreSQL.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/njchilds90/penalty"
)

// Schema creates the runs table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS penalty_runs (
	id              UUID PRIMARY KEY,
	fingerprint     TEXT NOT NULL,
	objective       TEXT NOT NULL,
	constraint_expr TEXT NOT NULL,
	tolerance       TEXT NOT NULL,
	status          TEXT NOT NULL,
	classification  TEXT NOT NULL,
	final_weight    TEXT NOT NULL,
	point           JSONB,
	rounds          JSONB,
	error           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS penalty_runs_fingerprint_idx ON penalty_runs (fingerprint);
CREATE INDEX IF NOT EXISTS penalty_runs_created_at_idx ON penalty_runs (created_at DESC);
`

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Run is one recorded solve.
type Run struct {
	ID             uuid.UUID
	Fingerprint    string
	Objective      string
	Constraint     string
	Tolerance      string
	Status         string
	Classification string
	Weight         string
	Error          string
	CreatedAt      time.Time
}

// Store writes and lists runs.
type Store struct {
	db    DB
	newID func() uuid.UUID
}

func New(db DB) *Store {
	return &Store{db: db, newID: uuid.New}
}

// Connect creates a connection pool to PostgreSQL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// Record stores one solve and returns its run ID.
func (s *Store) Record(ctx context.Context, req penalty.SolveRequest, fingerprint string, resp penalty.SolveResponse) (uuid.UUID, error) {
	id := s.newID()
	_, err := s.db.Exec(ctx, `
		INSERT INTO penalty_runs
			(id, fingerprint, objective, constraint_expr, tolerance,
			 status, classification, final_weight, point, rounds, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, fingerprint, req.Objective, req.Constraint, req.Tolerance,
		resp.Status, resp.Classification, resp.Weight, resp.Point, resp.Rounds, resp.Error)
	if err != nil {
		return uuid.Nil, fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, fingerprint, objective, constraint_expr, tolerance,
		       status, classification, final_weight, error, created_at
		FROM penalty_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Run, error) {
		var r Run
		err := row.Scan(&r.ID, &r.Fingerprint, &r.Objective, &r.Constraint, &r.Tolerance,
			&r.Status, &r.Classification, &r.Weight, &r.Error, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}
