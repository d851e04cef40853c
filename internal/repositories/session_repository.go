package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// SessionRepository interface for training session operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filters SessionFilters) ([]*models.Session, int64, error)

	// ListByMember returns sessions whose participant or supervisor id list
	// contains the given user, depending on role.
	ListByParticipant(ctx context.Context, participantID string) ([]*models.Session, error)
	ListBySupervisor(ctx context.Context, supervisorID string) ([]*models.Session, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*models.Session, error)
	ListByCoordinator(ctx context.Context, coordinatorID string) ([]*models.Session, error)

	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
}
