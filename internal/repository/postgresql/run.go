package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type runRepository struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) run.RunRepository {
	return &runRepository{db: db}
}

const runColumns = `id, provider, employee_id, period_year, period_month, trigger, status,
	result, attempted, error, started_at, finished_at`

func (r *runRepository) Create(ctx context.Context, rec run.Run) error {
	q := GetQuerier(ctx, r.db)

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}

	query := `
		INSERT INTO schedule_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = q.Exec(ctx, query,
		rec.ID, rec.Provider, rec.EmployeeID, rec.Year, rec.Month, string(rec.Trigger), string(rec.Status),
		string(result), nonNil(rec.Attempted), rec.Error, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *runRepository) Finish(ctx context.Context, rec run.Run) error {
	q := GetQuerier(ctx, r.db)

	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}

	query := `
		UPDATE schedule_runs
		SET status = $2, result = $3, attempted = $4, error = $5, finished_at = $6
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		rec.ID, string(rec.Status), string(result), nonNil(rec.Attempted), rec.Error, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return run.ErrRunNotFound
	}
	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (run.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM schedule_runs WHERE id = $1`

	rec, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return run.Run{}, run.ErrRunNotFound
		}
		return run.Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

func (r *runRepository) List(ctx context.Context, filter run.ListRunsFilter) ([]run.Run, error) {
	q := GetQuerier(ctx, r.db)

	var where []string
	var args []any
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + runColumns + ` FROM schedule_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func scanRun(row pgx.Row) (run.Run, error) {
	var (
		rec        run.Run
		trigger    string
		status     string
		result     []byte
		startedAt  time.Time
		finishedAt *time.Time
	)
	err := row.Scan(
		&rec.ID, &rec.Provider, &rec.EmployeeID, &rec.Year, &rec.Month, &trigger, &status,
		&result, &rec.Attempted, &rec.Error, &startedAt, &finishedAt,
	)
	if err != nil {
		return run.Run{}, err
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return run.Run{}, fmt.Errorf("failed to decode run result: %w", err)
	}
	rec.Trigger = run.Trigger(trigger)
	rec.Status = run.Status(status)
	rec.StartedAt = startedAt
	rec.FinishedAt = finishedAt
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
