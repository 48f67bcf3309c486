package config

import "time"

const (
	// DefaultSchedule pings every 14 minutes, just under the common
	// 15-minute idle window of free hosting tiers.
	DefaultSchedule = "*/14 * * * *"

	DefaultTimeoutSeconds = 10
	DefaultMaxConcurrent  = 4
	DefaultHistorySize    = 200
	DefaultAdminPort      = 8080
	DefaultInstance       = "keepalive"
)

const DefaultTimeout = DefaultTimeoutSeconds * time.Second
