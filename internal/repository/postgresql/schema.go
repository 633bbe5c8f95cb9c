package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-autofill/internal/pkg/database"
)

// result is stored as json, not jsonb, so the day order survives.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS schedule_runs (
		id           UUID PRIMARY KEY,
		provider     TEXT NOT NULL,
		employee_id  TEXT NOT NULL,
		period_year  INT NOT NULL,
		period_month INT NOT NULL CHECK (period_month BETWEEN 1 AND 12),
		trigger      TEXT NOT NULL DEFAULT 'manual',
		status       TEXT NOT NULL,
		result       JSON NOT NULL DEFAULT '{}',
		attempted    TEXT[] NOT NULL DEFAULT '{}',
		error        TEXT,
		started_at   TIMESTAMPTZ NOT NULL,
		finished_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_runs_started_at ON schedule_runs (started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_runs_status ON schedule_runs (status)`,
}

const schemaLockID = 7401

// EnsureSchema creates the run history table when it does not exist.
// Instances starting together serialize on an advisory lock.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	return WithTransaction(ctx, db, func(ctx context.Context) error {
		q := GetQuerier(ctx, db)
		if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", schemaLockID); err != nil {
			return fmt.Errorf("failed to lock schema: %w", err)
		}
		for _, stmt := range schemaStatements {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
