// ABOUTME: FitLife configuration loaded from a TOML file under the XDG config directory.
// ABOUTME: Resolves the data directory and opens the store with the configured options.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/harperreed/fitlife/internal/storage"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/crypto/bcrypt"
)

// Config stores fitlife configuration.
type Config struct {
	// DataDir is the directory holding fitlife.db.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitlife.
	DataDir string `toml:"data_dir,omitempty"`

	// DBPath overrides the database file location. Usually set by --db.
	DBPath string `toml:"db_path,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `toml:"log_level,omitempty"`

	// PasswordCost is the bcrypt cost for new passwords.
	PasswordCost int `toml:"password_cost,omitempty"`

	// ResetOnMismatch recreates an empty database when the stored schema
	// cannot be migrated. All data in that file is lost.
	ResetOnMismatch bool `toml:"reset_on_mismatch,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the database file path.
func (c *Config) GetDBPath() string {
	if c.DBPath != "" {
		return ExpandPath(c.DBPath)
	}
	return filepath.Join(c.GetDataDir(), "fitlife.db")
}

// GetLogLevel parses LogLevel, defaulting to info.
func (c *Config) GetLogLevel() (log.Level, error) {
	if c.LogLevel == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// GetPasswordCost returns the bcrypt cost, clamped to bcrypt's valid range.
func (c *Config) GetPasswordCost() int {
	switch {
	case c.PasswordCost == 0:
		return bcrypt.DefaultCost
	case c.PasswordCost < bcrypt.MinCost:
		return bcrypt.MinCost
	case c.PasswordCost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return c.PasswordCost
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStore opens the configured database, migrating it to the current schema.
func (c *Config) OpenStore(ctx context.Context, logger *log.Logger) (*storage.DB, error) {
	return storage.Open(ctx, c.GetDBPath(), &storage.Options{
		ResetOnMismatch: c.ResetOnMismatch,
		Logger:          logger,
	})
}

// RepositoryOptions returns the facade options for this config.
func (c *Config) RepositoryOptions(logger *log.Logger) *repository.Options {
	return &repository.Options{Logger: logger, PasswordCost: c.GetPasswordCost()}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlife", "config.toml")
}

// Load reads config from path, or from GetConfigPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to path, or to GetConfigPath when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
