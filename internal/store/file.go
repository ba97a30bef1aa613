package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

const (
	// SourcesFileName is the name of the YAML file holding source definitions
	SourcesFileName = "sources.yaml"

	// currentFileVersion is the on-disk format version written by FileStore
	currentFileVersion = 1

	lockRetryDelay = 50 * time.Millisecond
)

// fileEnvelope is the versioned on-disk document
type fileEnvelope struct {
	Version int      `yaml:"version"`
	Sources []Record `yaml:"sources"`
}

// FileStore persists records as a versioned YAML document.
// Writes go to a temporary file that is validated and atomically renamed.
// Concurrent processes are serialized through an advisory lock file.
type FileStore struct {
	fileName string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-based store
func NewFileStore() *FileStore {
	return &FileStore{fileName: SourcesFileName}
}

// Path returns the sources file location for targetRoot
func (f *FileStore) Path(targetRoot string) string {
	return filepath.Join(stateDir(targetRoot), f.fileName)
}

// Save implements Store.Save
func (f *FileStore) Save(ctx context.Context, targetRoot string, records []Record) error {
	dir := stateDir(targetRoot)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	path := f.Path(targetRoot)
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock sources file: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock sources file: %s", path)
	}
	defer func() { _ = lock.Unlock() }()

	if records == nil {
		records = []Record{}
	}
	data, err := yaml.Marshal(fileEnvelope{Version: currentFileVersion, Sources: records})
	if err != nil {
		return fmt.Errorf("failed to marshal sources: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary sources file: %w", err)
	}

	// Read back before replacing the live file
	//nolint:gosec // path is derived from the configured target root
	check, err := os.ReadFile(tempPath)
	if err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to read back temporary sources file: %w", err)
	}
	var verify fileEnvelope
	if err := yaml.Unmarshal(check, &verify); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("round-trip validation of sources file failed: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename sources file: %w", err)
	}

	return nil
}

// Load implements Store.Load
func (f *FileStore) Load(ctx context.Context, targetRoot string) ([]Record, error) {
	path := f.Path(targetRoot)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to stat sources file: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock sources file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock sources file: %s", path)
	}
	defer func() { _ = lock.Unlock() }()

	//nolint:gosec // path is derived from the configured target root
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var env fileEnvelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}
	if env.Version == 0 {
		return nil, fmt.Errorf("unversioned sources file %s", path)
	}
	if env.Version > currentFileVersion {
		return nil, fmt.Errorf("sources file version %d is newer than supported version %d",
			env.Version, currentFileVersion)
	}

	if env.Sources == nil {
		return []Record{}, nil
	}
	return env.Sources, nil
}
