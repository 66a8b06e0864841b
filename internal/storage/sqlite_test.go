package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkuzmenko/passkeeper/internal/repositories/repomanager"
)

func TestOpen_CreatesSchema(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := Open(context.Background(), dsn, repomanager.NewSQLiteManager())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"users", "entries"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s must exist after migrations", table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys must be enabled")
}

func TestOpen_CascadeDelete(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := Open(context.Background(), dsn, repomanager.NewSQLiteManager())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`INSERT INTO users (id, username, salt, verifier) VALUES ('u1', 'alice', x'00', x'00')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO entries (id, user_id, name, data) VALUES ('e1', 'u1', 'Email', x'00')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM users WHERE id = 'u1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	assert.Equal(t, 0, n, "deleting a user must cascade to its entries")
}
