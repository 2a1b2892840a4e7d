package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataDirEnv overrides where the backing store lives
const DataDirEnv = "VAR_MANAGER_DATA_DIR"

// Config holds the server settings loaded from <dataDir>/config.yaml.
// Missing file means defaults; command-line flags override both.
type Config struct {
	ListenAddr   string `yaml:"listen_addr"`
	DatabasePath string `yaml:"database_path"`
	Verbose      bool   `yaml:"verbose"`
}

// DefaultDataDir resolves the data directory: the env override, or
// ~/.var-manager as the fallback.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".var-manager"), nil
}

// DefaultDatabasePath is the database file inside the data directory
func DefaultDatabasePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "var-manager.db"), nil
}

// LoadConfig reads <dataDir>/config.yaml, filling unset fields with
// defaults. A missing file is not an error.
func LoadConfig() (*Config, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:6580"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(dir, "var-manager.db")
	}
	return cfg, nil
}
