package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edatlas/edatlas/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "edatlas.db")

	first, err := db.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Reopening must skip already applied migrations.
	second, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)

	var tables int
	require.NoError(t, second.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'kv_store'`).Scan(&tables))
	assert.Equal(t, 1, tables)
}
