package store

import (
	"context"

	"keepalive/internal/models"
	"keepalive/internal/state"
)

// RunStore keeps the history of finished ping runs. It is observability
// only: nothing in the ping path reads from it, so two consecutive runs
// stay independent whether or not a store is configured.
type RunStore interface {
	// Insert records one finished run.
	Insert(ctx context.Context, run models.Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]models.Run, error)

	// CountGroupedByStatus returns the number of recorded runs per status.
	CountGroupedByStatus(ctx context.Context) (map[state.RunStatus]int, error)

	// Close releases the underlying resources.
	Close() error
}
