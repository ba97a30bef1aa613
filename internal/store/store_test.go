package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/internal/config"
)

var sampleRecords = []Record{
	{URL: "dir:///media/sles", ProductDir: "/", Alias: "dir:///media/sles/", Type: "YaST", Enabled: true, Autorefresh: true, Priority: 1},
	{URL: "dir:///media/addon", ProductDir: "/CD1", Alias: "dir:///media/addon/CD1", Enabled: false, Autorefresh: false, Priority: 0},
}

func TestStores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		store func() Store
	}{
		{name: "memory", store: func() Store { return NewMemoryStore() }},
		{name: "file", store: func() Store { return NewFileStore() }},
		{name: "sqlite", store: func() Store { return NewSQLiteStore() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			root := t.TempDir()
			s := tt.store()

			got, err := s.Load(ctx, root)
			require.NoError(t, err)
			assert.Empty(t, got)
			assert.NotNil(t, got)

			require.NoError(t, s.Save(ctx, root, sampleRecords))
			got, err = s.Load(ctx, root)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords, got)

			// Save replaces the previous set
			require.NoError(t, s.Save(ctx, root, sampleRecords[1:]))
			got, err = s.Load(ctx, root)
			require.NoError(t, err)
			assert.Equal(t, sampleRecords[1:], got)

			require.NoError(t, s.Save(ctx, root, nil))
			got, err = s.Load(ctx, root)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	s := NewFileStore()

	require.NoError(t, s.Save(ctx, root, sampleRecords))

	path := filepath.Join(root, StateDir, SourcesFileName)
	assert.Equal(t, path, s.Path(root))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")
	assert.Contains(t, string(data), "url: dir:///media/sles")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreRejectsBadFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unversioned", content: "sources: []\n", wantErr: "unversioned sources file"},
		{name: "future version", content: "version: 9\nsources: []\n", wantErr: "newer than supported"},
		{name: "garbage", content: "version: [\n", wantErr: "failed to parse sources file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			s := NewFileStore()
			require.NoError(t, os.MkdirAll(filepath.Join(root, StateDir), 0750))
			require.NoError(t, os.WriteFile(s.Path(root), []byte(tt.content), 0600))

			_, err := s.Load(context.Background(), root)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()
	records := append([]Record(nil), sampleRecords...)
	require.NoError(t, s.Save(ctx, "/", records))

	records[0].Alias = "mutated"
	got, err := s.Load(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, sampleRecords[0].Alias, got[0].Alias)

	other, err := s.Load(ctx, "/mnt")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, cleanup, err := New(ctx, &config.Config{})
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, &FileStore{}, s)

	s, cleanup, err = New(ctx, &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeSQLite}})
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, &SQLiteStore{}, s)

	s, cleanup, err = New(ctx, &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeMemory}})
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, &MemoryStore{}, s)

	_, _, err = New(ctx, &config.Config{Storage: &config.StorageConfig{Type: config.StorageTypeDatabase}})
	require.ErrorContains(t, err, "database configuration is required")

	_, _, err = New(ctx, nil)
	require.Error(t, err)
}
