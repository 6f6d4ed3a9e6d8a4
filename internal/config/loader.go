package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the toolbridge data directory: ~/.toolbridge.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".toolbridge"
	}
	return filepath.Join(home, ".toolbridge")
}

// ConfigPath returns the default configuration file path: ~/.toolbridge/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// ServersPath returns the default servers registry path: ~/.toolbridge/servers.yaml.
func ServersPath() string {
	return filepath.Join(DataDir(), "servers.yaml")
}

// CronStorePath returns the scheduled-jobs store path: ~/.toolbridge/cron/jobs.json.
func CronStorePath() string {
	return filepath.Join(DataDir(), "cron", "jobs.json")
}

// SessionsDir returns the transcript directory: ~/.toolbridge/sessions.
func SessionsDir() string {
	return filepath.Join(DataDir(), "sessions")
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used.
// A missing file yields DefaultConfig(); a malformed file is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
