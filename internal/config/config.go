package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"

	"keepalive/internal/models"
)

// TargetConfig describes one endpoint to keep awake.
type TargetConfig struct {
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	Schedule       string `yaml:"schedule"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// PostgresConfig holds the optional run-history database settings.
type PostgresConfig struct {
	ConnectionURL string `yaml:"connection_url"`
}

// AdminConfig holds the settings of the local status/trigger HTTP server.
type AdminConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    uint `yaml:"port"`
}

type Config struct {
	Instance      string         `yaml:"instance"`
	Targets       []TargetConfig `yaml:"targets"`
	MaxConcurrent int            `yaml:"max_concurrent"`
	HistorySize   int            `yaml:"history_size"`
	Postgres      PostgresConfig `yaml:"postgres"`
	Admin         AdminConfig    `yaml:"admin"`
}

// NewConfig returns a Config populated with defaults. Targets must be
// added by the loader or the caller.
func NewConfig() *Config {
	return &Config{
		Instance:      DefaultInstance,
		MaxConcurrent: DefaultMaxConcurrent,
		HistorySize:   DefaultHistorySize,
		Admin: AdminConfig{
			Port: DefaultAdminPort,
		},
	}
}

// applyDefaults fills unset per-target fields. The target name falls
// back to the URL host so a one-target config stays one line.
func (c *Config) applyDefaults() {
	if c.Instance == "" {
		c.Instance = DefaultInstance
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.Admin.Port == 0 {
		c.Admin.Port = DefaultAdminPort
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Schedule == "" {
			t.Schedule = DefaultSchedule
		}
		if t.TimeoutSeconds <= 0 {
			t.TimeoutSeconds = DefaultTimeoutSeconds
		}
		if t.Name == "" {
			if u, err := url.Parse(t.URL); err == nil && u.Host != "" {
				t.Name = u.Host
			}
		}
	}
}

// Validate checks every target for a usable URL and cron expression.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("config: at least one target is required")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for _, t := range c.Targets {
		if t.URL == "" {
			return fmt.Errorf("config: target %q: url is required", t.Name)
		}
		u, err := url.Parse(t.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: target %q: invalid url %q", t.Name, t.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config: target %q: unsupported scheme %q", t.Name, u.Scheme)
		}
		if _, err := parser.Parse(t.Schedule); err != nil {
			return fmt.Errorf("config: target %q: invalid schedule %q: %w", t.Name, t.Schedule, err)
		}
		if t.TimeoutSeconds <= 0 {
			return fmt.Errorf("config: target %q: timeout must be positive", t.Name)
		}
	}
	return nil
}

// TargetList converts the configured targets into their model form.
func (c *Config) TargetList() []models.Target {
	targets := make([]models.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		targets = append(targets, models.Target{
			Name:     t.Name,
			URL:      t.URL,
			Schedule: t.Schedule,
			Timeout:  time.Duration(t.TimeoutSeconds) * time.Second,
		})
	}
	return targets
}
