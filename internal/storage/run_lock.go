package storage

import (
	"context"
	"fmt"
)

// RunLock serializes sync runs per job name using a Postgres advisory lock.
// The lock is connection-scoped, so the acquiring connection is pinned from
// the pool until release.
type RunLock struct {
	db *PostgresDB
}

// NewRunLock creates a new run lock
func NewRunLock(db *PostgresDB) *RunLock {
	return &RunLock{db: db}
}

// TryAcquire attempts to take the advisory lock for jobName without
// blocking. On success it returns a release function; ok is false when
// another run already holds the lock.
func (l *RunLock) TryAcquire(ctx context.Context, jobName string) (release func(), ok bool, err error) {
	conn, err := l.db.Pool().Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire connection for run lock: %w", err)
	}

	var locked bool
	err = conn.QueryRow(ctx, `SELECT pg_try_advisory_lock(hashtext($1))`, jobName).Scan(&locked)
	if err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("failed to take run lock: %w", err)
	}

	if !locked {
		conn.Release()
		return nil, false, nil
	}

	release = func() {
		// Unlock on the same connection that locked; use a background
		// context so a cancelled run still releases.
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock(hashtext($1))`, jobName) // nolint:errcheck
		conn.Release()
	}
	return release, true, nil
}
