package repomanager

import (
	"context"
	"database/sql"

	"github.com/vkuzmenko/passkeeper/internal/dbx"
	"github.com/vkuzmenko/passkeeper/internal/repositories/entries"
	"github.com/vkuzmenko/passkeeper/internal/repositories/users"
)

// Manager vends repositories bound to a DBTX. Handing the same *sql.Tx to
// both vendors lets multi-record mutations (master key rotation) run inside
// one transaction.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
}
