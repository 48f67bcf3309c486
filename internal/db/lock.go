package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrationLockID is the advisory lock key guarding schema migrations.
const migrationLockID = 74113

// Lock wraps Postgres session advisory locks.
type Lock struct {
	db *sql.DB
}

func NewLock(db *sql.DB) Lock {
	return Lock{db: db}
}

func (l *Lock) Acquire(lockID int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_lock($1)", lockID)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	return nil
}

func (l *Lock) Release(lockID int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", lockID)
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
