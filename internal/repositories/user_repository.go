package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// UserRepository interface for user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error)

	// UpsertAdmin seeds or refreshes the bootstrap admin account keyed by
	// its id number.
	UpsertAdmin(ctx context.Context, admin *models.User) error
}
