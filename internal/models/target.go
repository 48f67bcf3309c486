package models

import "time"

// Target is one health-check endpoint to keep awake.
type Target struct {
	Name     string
	URL      string
	Schedule string // 5-field cron expression
	Timeout  time.Duration
}
