//go:build integration

package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/database"
	"github.com/stacklok/instsrc/database/testdb"
)

func TestMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	connString, cleanupFunc := testdb.SetupTestDBContainer(t, ctx)
	t.Cleanup(cleanupFunc)

	m, err := database.GetMigrate(connString)
	require.NoError(t, err)
	defer func() { _, _ = m.Close() }()

	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Positive(t, version)

	require.NoError(t, m.Down())
	_, _, err = m.Version()
	assert.True(t, errors.Is(err, migrate.ErrNilVersion))

	require.NoError(t, m.Up())
	assert.NoError(t, database.MigrateUp(connString))

	version, dirty, err = database.Version(connString)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Positive(t, version)

	require.NoError(t, database.MigrateDown(connString, 0))
	version, _, err = database.Version(connString)
	require.NoError(t, err)
	assert.Zero(t, version)
}
