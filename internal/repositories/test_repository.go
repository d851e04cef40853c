package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// TestRepository interface for test template operations
type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id string) (*models.Test, error)
	GetByProgramAndType(ctx context.Context, programID string, testType models.TestType) (*models.Test, error)
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id string) error
	ListByProgram(ctx context.Context, programID string) ([]*models.Test, error)
}

// TestResultRepository stores the append-only submission history. There is
// no Update or Delete: duplicate submissions land as additional rows.
type TestResultRepository interface {
	Create(ctx context.Context, result *models.TestResult) error
	GetByID(ctx context.Context, id string) (*models.TestResult, error)
	List(ctx context.Context, filters TestResultFilters) ([]*models.TestResult, int64, error)
	ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.TestResult, error)

	// LatestByPair returns the most recent result of the given type for the
	// pair, or nil when none exists.
	LatestByPair(ctx context.Context, participantID, sessionID string, testType models.TestType) (*models.TestResult, error)
}
