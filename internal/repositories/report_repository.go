package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// ReportRepository interface for training report operations. One report per
// session; saving again updates the existing record.
type ReportRepository interface {
	Upsert(ctx context.Context, report *models.TrainingReport) error
	GetBySession(ctx context.Context, sessionID string) (*models.TrainingReport, error)
	List(ctx context.Context, filters ReportFilters) ([]*models.TrainingReport, int64, error)
	Delete(ctx context.Context, sessionID string) error
}
