package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// ChecklistTemplateRepository interface for checklist template operations
type ChecklistTemplateRepository interface {
	Create(ctx context.Context, template *models.ChecklistTemplate) error
	GetByID(ctx context.Context, id string) (*models.ChecklistTemplate, error)
	GetByProgram(ctx context.Context, programID string) (*models.ChecklistTemplate, error)
	Update(ctx context.Context, template *models.ChecklistTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*models.ChecklistTemplate, int64, error)
}

// VehicleChecklistRepository stores submitted inspections (append-only) and
// their verification state.
type VehicleChecklistRepository interface {
	Create(ctx context.Context, checklist *models.VehicleChecklist) error
	GetByID(ctx context.Context, id string) (*models.VehicleChecklist, error)
	List(ctx context.Context, filters ChecklistFilters) ([]*models.VehicleChecklist, int64, error)
	ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.VehicleChecklist, error)

	// SetVerification records a supervisor's verdict on one submission.
	SetVerification(ctx context.Context, id, verifierID string, status models.VerificationStatus) error
}

// VehicleDetailsRepository stores one vehicle record per (participant,
// session); re-submission overwrites.
type VehicleDetailsRepository interface {
	Upsert(ctx context.Context, details *models.VehicleDetails) error
	GetByPair(ctx context.Context, participantID, sessionID string) (*models.VehicleDetails, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.VehicleDetails, error)
}
