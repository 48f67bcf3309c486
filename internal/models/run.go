package models

import (
	"time"

	"keepalive/internal/state"
)

// Run is the record of a single keep-alive ping.
type Run struct {
	ID         string          `json:"id"`
	Target     string          `json:"target"`
	Status     state.RunStatus `json:"status"`
	HTTPStatus int             `json:"http_status"`
	LastError  string          `json:"last_error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	Duration   time.Duration   `json:"duration"`
	NextRunAt  time.Time       `json:"next_run_at"`
}
