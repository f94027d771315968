package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Save inserts or replaces the user as a whole.
	Save(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	// FindByIDs returns the users that exist; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
	// ExistsByEmail ignores the user with excludeID, if any.
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
}
