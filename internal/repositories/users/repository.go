// Package users persists credential records: one row per registered vault
// owner holding the KDF salt and the login verifier.
package users

import (
	"context"

	"github.com/vkuzmenko/passkeeper/internal/models"
)

// Repository defines credential record storage.
//
// Implementations return common.ErrorAlreadyExists when the username is
// taken, and common.ErrorNotFound when a lookup or update matches no row.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateKeyMaterial(ctx context.Context, userID string, salt, verifier []byte) error
}
