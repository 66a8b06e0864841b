// Package entries persists encrypted secret records. Every query is scoped by
// the owning user ID, so cross-user access is structurally impossible: a
// foreign entry ID and a missing one produce the same common.ErrorNotFound.
package entries

import (
	"context"

	"github.com/vkuzmenko/passkeeper/internal/models"
)

// Repository defines encrypted entry storage.
type Repository interface {
	Insert(ctx context.Context, entry *models.Entry) error
	GetAllByUser(ctx context.Context, userID string) ([]*models.Entry, error)
	GetByID(ctx context.Context, id, userID string) (*models.Entry, error)
	Update(ctx context.Context, id, userID, name string, data []byte) error
	DeleteByID(ctx context.Context, id, userID string) error
}
