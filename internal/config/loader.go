package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at path, applies environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes parses a YAML config document. Environment variables
// override the file so deploys can keep secrets out of it.
func LoadBytes(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	loadEnvVars(cfg)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvVars(cfg *Config) {
	if instance := os.Getenv("KEEPALIVE_INSTANCE"); instance != "" {
		cfg.Instance = instance
	}
	if pgURL := os.Getenv("KEEPALIVE_POSTGRES_URL"); pgURL != "" {
		cfg.Postgres.ConnectionURL = pgURL
	}
	if portStr := os.Getenv("KEEPALIVE_ADMIN_PORT"); portStr != "" {
		if port, err := strconv.ParseUint(portStr, 10, 16); err == nil {
			cfg.Admin.Enabled = true
			cfg.Admin.Port = uint(port)
		}
	}
	if maxStr := os.Getenv("KEEPALIVE_MAX_CONCURRENT"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil && max > 0 {
			cfg.MaxConcurrent = max
		}
	}

	// KEEPALIVE_TARGET_URL adds a single target without a config file
	// entry, for the one-endpoint case the tool started from.
	if targetURL := os.Getenv("KEEPALIVE_TARGET_URL"); targetURL != "" {
		target := TargetConfig{URL: targetURL}
		if schedule := os.Getenv("KEEPALIVE_TARGET_SCHEDULE"); schedule != "" {
			target.Schedule = schedule
		}
		cfg.Targets = append(cfg.Targets, target)
	}
}
