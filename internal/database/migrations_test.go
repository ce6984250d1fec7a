package database

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/000001_create_kv_store.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS kv_store")

	down, err := fs.ReadFile(migrationsFS, "migrations/000001_create_kv_store.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE")
}
