package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vkuzmenko/passkeeper/internal/common"
	"github.com/vkuzmenko/passkeeper/internal/dbx"
	"github.com/vkuzmenko/passkeeper/internal/models"
)

// SQLiteRepository implements Repository over a dbx.DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new credential record. Username uniqueness is enforced by
// the store's UNIQUE constraint, not by the application layer.
func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, salt, verifier) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Salt, user.Verifier)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByUsername returns the credential record for username or common.ErrorNotFound.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, salt, verifier FROM users WHERE username = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.Salt, &user.Verifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// UpdateKeyMaterial replaces the salt and verifier for userID. It expects
// exactly one row to be affected.
func (r *SQLiteRepository) UpdateKeyMaterial(ctx context.Context, userID string, salt, verifier []byte) error {
	query := `UPDATE users SET salt = ?, verifier = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, salt, verifier, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint error.
// modernc.org/sqlite does not export a stable error type for this, so the
// message is matched.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
