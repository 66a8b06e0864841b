// Package storage opens the vault database and prepares the schema.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vkuzmenko/passkeeper/internal/filex"
	"github.com/vkuzmenko/passkeeper/internal/repositories/repomanager"
)

// Open opens (or creates) the sqlite vault at path, enables foreign keys so
// deleting a user cascades to its entries, and runs pending migrations.
// The pragma goes into the DSN because it applies per connection, and the
// sql.DB pool opens connections lazily.
func Open(ctx context.Context, path string, m repomanager.Manager) (*sql.DB, error) {
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}
