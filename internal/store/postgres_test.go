//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/database/testdb"
)

func TestPostgresStore(t *testing.T) {
	t.Parallel()

	pool, cleanup := testdb.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	s := NewPostgresStore(pool)

	got, err := s.Load(ctx, "/")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, "/", sampleRecords))
	require.NoError(t, s.Save(ctx, "/mnt", sampleRecords[:1]))

	got, err = s.Load(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)

	got, err = s.Load(ctx, "/mnt")
	require.NoError(t, err)
	assert.Equal(t, sampleRecords[:1], got)

	require.NoError(t, s.Save(ctx, "/", nil))
	got, err = s.Load(ctx, "/")
	require.NoError(t, err)
	assert.Empty(t, got)
}
