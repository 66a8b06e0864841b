package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Insert stores a new encrypted entry.
func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (id, user_id, name, data) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Name, e.Data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetAllByUser lists all entries owned by userID in insertion order.
func (r *SQLiteRepository) GetAllByUser(ctx context.Context, userID string) ([]*models.Entry, error) {
	query := `SELECT id, user_id, name, data FROM entries WHERE user_id = ? ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []*models.Entry
	for rows.Next() {
		item := &models.Entry{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.Data); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single entry owned by userID, or common.ErrorNotFound.
func (r *SQLiteRepository) GetByID(ctx context.Context, id, userID string) (*models.Entry, error) {
	query := `SELECT id, user_id, name, data FROM entries WHERE id = ? AND user_id = ?`

	e := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&e.ID, &e.UserID, &e.Name, &e.Data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

// Update replaces the label and ciphertext of an entry owned by userID.
func (r *SQLiteRepository) Update(ctx context.Context, id, userID, name string, data []byte) error {
	query := `UPDATE entries SET name = ?, data = ? WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, name, data, id, userID)
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

// DeleteByID removes an entry owned by userID.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id, userID string) error {
	query := `DELETE FROM entries WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query, id, userID)
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
