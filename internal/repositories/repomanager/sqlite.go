// Package repomanager provides the concrete repository manager for sqlite,
// wiring repository constructors and schema migrations (via goose) together.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/vkuzmenko/passkeeper/internal/dbx"
	"github.com/vkuzmenko/passkeeper/internal/migrations"
	"github.com/vkuzmenko/passkeeper/internal/repositories/entries"
	"github.com/vkuzmenko/passkeeper/internal/repositories/users"
)

// SQLiteManager vends sqlite-backed repository implementations and exposes a
// schema migration hook.
type SQLiteManager struct{}

// NewSQLiteManager constructs a sqlite-backed Manager.
func NewSQLiteManager() *SQLiteManager {
	return &SQLiteManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLiteManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// Entries returns an entries.Repository bound to the provided DBTX.
func (m *SQLiteManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLiteManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
