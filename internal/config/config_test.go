package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/internal/telemetry"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	autoEnable := false
	tests := []struct {
		name        string
		yamlContent string
		wantConfig  *Config
		wantErr     string
	}{
		{
			name: "file_storage",
			yamlContent: `targetRoot: /mnt
storage:
  type: file
media:
  scanParallelism: 2
  autoEnable: false`,
			wantConfig: &Config{
				TargetRoot: "/mnt",
				Storage:    &StorageConfig{Type: StorageTypeFile},
				Media:      &MediaConfig{ScanParallelism: 2, AutoEnable: &autoEnable},
			},
		},
		{
			name: "memory_storage",
			yamlContent: `storage:
  type: memory`,
			wantConfig: &Config{
				Storage: &StorageConfig{Type: StorageTypeMemory},
			},
		},
		{
			name: "database_storage",
			yamlContent: `storage:
  type: database
database:
  host: db.local
  port: 5432
  user: instsrc
  database: sources
  connMaxLifetime: 30m`,
			wantConfig: &Config{
				Storage: &StorageConfig{Type: StorageTypeDatabase},
				Database: &DatabaseConfig{
					Host:            "db.local",
					Port:            5432,
					User:            "instsrc",
					Database:        "sources",
					ConnMaxLifetime: "30m",
				},
			},
		},
		{
			name: "telemetry",
			yamlContent: `telemetry:
  enabled: true
  metrics:
    enabled: true`,
			wantConfig: &Config{
				Telemetry: &telemetry.Config{
					Enabled: true,
					Metrics: &telemetry.MetricsConfig{Enabled: true},
				},
			},
		},
		{
			name:        "relative_target_root",
			yamlContent: `targetRoot: mnt`,
			wantErr:     "targetRoot must be an absolute path",
		},
		{
			name: "unknown_storage",
			yamlContent: `storage:
  type: etcd`,
			wantErr: "storage.type must be one of",
		},
		{
			name: "database_without_settings",
			yamlContent: `storage:
  type: database`,
			wantErr: "database configuration is required",
		},
		{
			name: "database_bad_lifetime",
			yamlContent: `storage:
  type: database
database:
  host: db.local
  port: 5432
  user: instsrc
  database: sources
  connMaxLifetime: often`,
			wantErr: "connMaxLifetime must be a valid duration",
		},
		{
			name: "negative_parallelism",
			yamlContent: `media:
  scanParallelism: -1`,
			wantErr: "scanParallelism must not be negative",
		},
		{
			name:        "invalid_yaml",
			yamlContent: "storage: [",
			wantErr:     "failed to parse YAML config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfig(WithConfigPath(writeConfig(t, tt.yamlContent)))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, cfg)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetRoot, cfg.GetTargetRoot())
	assert.Equal(t, StorageTypeFile, cfg.GetStorageType())
	assert.Equal(t, DefaultScanParallelism, cfg.GetScanParallelism())
	assert.True(t, cfg.GetAutoEnable())
}

func TestWithConfigPath(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(WithConfigPath(""))
	require.ErrorContains(t, err, "path is required")

	_, err = LoadConfig(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.ErrorContains(t, err, "failed to evaluate symlinks")

	dir := t.TempDir()
	target := writeConfig(t, "targetRoot: /srv")
	link := filepath.Join(dir, "link.yaml")
	require.NoError(t, os.Symlink(target, link))

	cfg, err := LoadConfig(WithConfigPath(link))
	require.NoError(t, err)
	assert.Equal(t, "/srv", cfg.GetTargetRoot())
}

func TestDatabaseConfigGetPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		content      string
		missing      bool
		wantPassword string
		wantErr      string
	}{
		{name: "password_from_file", content: "mypassword", wantPassword: "mypassword"},
		{name: "password_from_file_with_whitespace", content: "  mypassword\n\t", wantPassword: "mypassword"},
		{name: "password_file_not_found", missing: true, wantErr: "failed to read password from file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			passwordFile := filepath.Join(t.TempDir(), "password.txt")
			if !tt.missing {
				require.NoError(t, os.WriteFile(passwordFile, []byte(tt.content), 0600))
			}
			db := &DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Database: "d", PasswordFile: passwordFile}

			password, err := db.GetPassword()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPassword, password)
		})
	}
}

//nolint:paralleltest // mutates process environment
func TestDatabaseConfigPasswordFromEnv(t *testing.T) {
	t.Setenv(DatabasePasswordEnv, "p@ss word")

	db := &DatabaseConfig{Host: "db", Port: 5433, User: "instsrc", Database: "sources"}
	conn, err := db.GetConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "postgres://instsrc:p%40ss+word@db:5433/sources?sslmode=require", conn)

	db.SSLMode = "disable"
	conn, err = db.GetConnectionString()
	require.NoError(t, err)
	assert.Contains(t, conn, "sslmode=disable")

	t.Setenv(DatabasePasswordEnv, "")
	_, err = db.GetPassword()
	require.ErrorContains(t, err, "no database password configured")
}
