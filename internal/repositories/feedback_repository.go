package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// FeedbackTemplateRepository interface for feedback template operations
type FeedbackTemplateRepository interface {
	Create(ctx context.Context, template *models.FeedbackTemplate) error
	GetByID(ctx context.Context, id string) (*models.FeedbackTemplate, error)
	GetByProgram(ctx context.Context, programID string) (*models.FeedbackTemplate, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*models.FeedbackTemplate, int64, error)
}

// CourseFeedbackRepository stores submitted feedback (append-only history).
type CourseFeedbackRepository interface {
	Create(ctx context.Context, feedback *models.CourseFeedback) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.CourseFeedback, error)
	ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.CourseFeedback, error)
}
