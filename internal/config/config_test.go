package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytes_Defaults(t *testing.T) {
	data := []byte(`
targets:
  - url: https://example.onrender.com/healthz
`)

	cfg, err := LoadBytes(data)
	require.NoError(t, err)

	assert.Equal(t, DefaultInstance, cfg.Instance)
	assert.Equal(t, DefaultMaxConcurrent, cfg.MaxConcurrent)
	assert.Equal(t, DefaultHistorySize, cfg.HistorySize)
	assert.Equal(t, uint(DefaultAdminPort), cfg.Admin.Port)

	require.Len(t, cfg.Targets, 1)
	target := cfg.Targets[0]
	assert.Equal(t, "example.onrender.com", target.Name)
	assert.Equal(t, DefaultSchedule, target.Schedule)
	assert.Equal(t, DefaultTimeoutSeconds, target.TimeoutSeconds)
}

func TestLoadBytes_FullConfig(t *testing.T) {
	data := []byte(`
instance: pinger-1
max_concurrent: 2
history_size: 50
admin:
  enabled: true
  port: 9090
targets:
  - name: api
    url: https://api.example.com/healthz
    schedule: "*/5 * * * *"
    timeout_seconds: 3
  - name: web
    url: https://web.example.com/healthz
`)

	cfg, err := LoadBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "pinger-1", cfg.Instance)
	assert.Equal(t, 2, cfg.MaxConcurrent)
	assert.Equal(t, 50, cfg.HistorySize)
	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, uint(9090), cfg.Admin.Port)
	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "*/5 * * * *", cfg.Targets[0].Schedule)
	assert.Equal(t, 3, cfg.Targets[0].TimeoutSeconds)
}

func TestLoadBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "no targets",
			data: `instance: empty`,
		},
		{
			name: "missing url",
			data: "targets:\n  - name: broken",
		},
		{
			name: "bad scheme",
			data: "targets:\n  - url: ftp://example.com/healthz",
		},
		{
			name: "relative url",
			data: "targets:\n  - url: /healthz",
		},
		{
			name: "bad schedule",
			data: "targets:\n  - url: https://example.com/healthz\n    schedule: not a cron",
		},
		{
			name: "not yaml",
			data: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadBytes_EnvOverrides(t *testing.T) {
	t.Setenv("KEEPALIVE_INSTANCE", "env-instance")
	t.Setenv("KEEPALIVE_POSTGRES_URL", "postgres://keepalive@localhost/runs?sslmode=disable")
	t.Setenv("KEEPALIVE_ADMIN_PORT", "7070")
	t.Setenv("KEEPALIVE_MAX_CONCURRENT", "8")

	data := []byte(`
instance: file-instance
targets:
  - url: https://example.com/healthz
`)

	cfg, err := LoadBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "env-instance", cfg.Instance)
	assert.Equal(t, "postgres://keepalive@localhost/runs?sslmode=disable", cfg.Postgres.ConnectionURL)
	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, uint(7070), cfg.Admin.Port)
	assert.Equal(t, 8, cfg.MaxConcurrent)
}

func TestLoadBytes_EnvTarget(t *testing.T) {
	t.Setenv("KEEPALIVE_TARGET_URL", "https://sleepy.example.com/healthz")
	t.Setenv("KEEPALIVE_TARGET_SCHEDULE", "*/10 * * * *")

	cfg, err := LoadBytes([]byte(``))
	require.NoError(t, err)

	require.Len(t, cfg.Targets, 1)
	assert.Equal(t, "sleepy.example.com", cfg.Targets[0].Name)
	assert.Equal(t, "*/10 * * * *", cfg.Targets[0].Schedule)
}

func TestTargetList(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
targets:
  - name: api
    url: https://api.example.com/healthz
    timeout_seconds: 5
`))
	require.NoError(t, err)

	targets := cfg.TargetList()
	require.Len(t, targets, 1)
	assert.Equal(t, "api", targets[0].Name)
	assert.Equal(t, 5*time.Second, targets[0].Timeout)
}
