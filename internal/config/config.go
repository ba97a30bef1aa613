// Package config provides configuration loading and management for the source manager.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/instsrc/internal/telemetry"
)

const (
	// StorageTypeFile stores source definitions in a YAML file below the target root
	StorageTypeFile = "file"

	// StorageTypeSQLite stores source definitions in a SQLite database below the target root
	StorageTypeSQLite = "sqlite"

	// StorageTypeDatabase stores source definitions in PostgreSQL
	StorageTypeDatabase = "database"

	// StorageTypeMemory keeps source definitions for the lifetime of the process only
	StorageTypeMemory = "memory"
)

const (
	// DefaultTargetRoot is the system root used when none is configured
	DefaultTargetRoot = "/"

	// DefaultScanParallelism bounds concurrent product discovery during a scan
	DefaultScanParallelism = 4

	// DatabasePasswordEnv names the environment variable holding the database password
	DatabasePasswordEnv = "INSTSRC_DATABASE_PASSWORD"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks, this also cleans the path
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// TargetRoot is the root of the system whose sources are managed.
	// Defaults to "/" if not specified
	TargetRoot string `yaml:"targetRoot,omitempty"`

	Storage   *StorageConfig    `yaml:"storage,omitempty"`
	Database  *DatabaseConfig   `yaml:"database,omitempty"`
	Media     *MediaConfig      `yaml:"media,omitempty"`
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// StorageConfig selects the persistence backend for source definitions
type StorageConfig struct {
	// Type is one of file, sqlite or database. Defaults to file
	Type string `yaml:"type,omitempty"`
}

// MediaConfig tunes media scanning
type MediaConfig struct {
	// ScanParallelism bounds how many products are opened concurrently.
	// Defaults to 4 if not specified
	ScanParallelism int `yaml:"scanParallelism,omitempty"`

	// AutoEnable makes newly created sources enabled immediately
	AutoEnable *bool `yaml:"autoEnable,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from INSTSRC_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(DatabasePasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s environment variable", DatabasePasswordEnv,
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file.
// Without a path the defaults are returned.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	var config Config
	if loaderCfg.path != "" {
		data, err := os.ReadFile(loaderCfg.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetTargetRoot returns the target root, using "/" if not specified
func (c *Config) GetTargetRoot() string {
	if c.TargetRoot == "" {
		return DefaultTargetRoot
	}
	return c.TargetRoot
}

// GetStorageType returns the configured storage type, using file if not specified
func (c *Config) GetStorageType() string {
	if c.Storage == nil || c.Storage.Type == "" {
		return StorageTypeFile
	}
	return c.Storage.Type
}

// GetScanParallelism returns the scan parallelism, using the default if not specified
func (c *Config) GetScanParallelism() int {
	if c.Media == nil || c.Media.ScanParallelism <= 0 {
		return DefaultScanParallelism
	}
	return c.Media.ScanParallelism
}

// GetAutoEnable reports whether newly created sources start enabled. Defaults to true
func (c *Config) GetAutoEnable() bool {
	if c.Media == nil || c.Media.AutoEnable == nil {
		return true
	}
	return *c.Media.AutoEnable
}

func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.TargetRoot != "" && !filepath.IsAbs(c.TargetRoot) {
		return fmt.Errorf("targetRoot must be an absolute path, got %s", c.TargetRoot)
	}

	switch c.GetStorageType() {
	case StorageTypeFile, StorageTypeSQLite, StorageTypeMemory:
	case StorageTypeDatabase:
		if err := validateDatabaseConfig(c.Database); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.type must be one of %s, %s, %s or %s, got %s",
			StorageTypeFile, StorageTypeSQLite, StorageTypeDatabase, StorageTypeMemory, c.Storage.Type)
	}

	if c.Media != nil && c.Media.ScanParallelism < 0 {
		return fmt.Errorf("media.scanParallelism must not be negative, got %d", c.Media.ScanParallelism)
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	return nil
}

func validateDatabaseConfig(db *DatabaseConfig) error {
	if db == nil {
		return fmt.Errorf("database configuration is required when storage.type is %s", StorageTypeDatabase)
	}
	if db.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if db.Port <= 0 {
		return fmt.Errorf("database.port must be positive, got %d", db.Port)
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration (e.g., '30m', '1h'): %w", err)
		}
	}
	return nil
}
