package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CursorRepository persists the pagination offset for each sync job
type CursorRepository struct {
	db *PostgresDB
}

// NewCursorRepository creates a new cursor repository
func NewCursorRepository(db *PostgresDB) *CursorRepository {
	return &CursorRepository{db: db}
}

// Get returns the persisted offset for a job, 0 when the job has never run.
func (r *CursorRepository) Get(ctx context.Context, jobName string) (int, error) {
	query := `SELECT next_offset FROM sync_cursor WHERE job_name = $1`

	var offset int
	err := r.db.Pool().QueryRow(ctx, query, jobName).Scan(&offset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get sync cursor: %w", err)
	}

	return offset, nil
}

// Set persists the next offset for a job. Called once per run, after the
// page has been processed.
func (r *CursorRepository) Set(ctx context.Context, jobName string, offset int) error {
	query := `
		INSERT INTO sync_cursor (job_name, next_offset, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (job_name) DO UPDATE
		SET next_offset = EXCLUDED.next_offset,
			updated_at = now()
	`

	_, err := r.db.Pool().Exec(ctx, query, jobName, offset)
	if err != nil {
		return fmt.Errorf("failed to set sync cursor: %w", err)
	}

	return nil
}
