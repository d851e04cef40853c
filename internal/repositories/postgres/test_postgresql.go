package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/cache"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type TestPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTestPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.TestRepository {
	return &TestPostgreSQL{db: db, cacheManager: cacheManager}
}

func (t *TestPostgreSQL) Create(ctx context.Context, test *models.Test) error {
	if err := t.db.WithContext(ctx).Create(test).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, t.cacheManager, "test", test.ID)
	return nil
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, id string) (*models.Test, error) {
	cacheKey := fmt.Sprintf("test:id:%s", id)
	var test models.Test

	err := t.cacheManager.Template.CacheOrExecute(ctx, cacheKey, &test, cache.TemplateCacheConfig.TTL, func() (interface{}, error) {
		var dbTest models.Test
		if err := t.db.WithContext(ctx).Where("id = ?", id).First(&dbTest).Error; err != nil {
			return nil, err
		}
		return &dbTest, nil
	})

	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) GetByProgramAndType(ctx context.Context, programID string, testType models.TestType) (*models.Test, error) {
	var test models.Test
	err := t.db.WithContext(ctx).
		Where("program_id = ? AND test_type = ?", programID, testType).
		Order("created_at DESC").
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) Update(ctx context.Context, test *models.Test) error {
	if err := t.db.WithContext(ctx).Save(test).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, t.cacheManager, "test", test.ID)
	return nil
}

func (t *TestPostgreSQL) Delete(ctx context.Context, id string) error {
	if err := t.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Test{}).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, t.cacheManager, "test", id)
	return nil
}

func (t *TestPostgreSQL) ListByProgram(ctx context.Context, programID string) ([]*models.Test, error) {
	var tests []*models.Test
	err := t.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("test_type ASC").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

type TestResultPostgreSQL struct {
	db *gorm.DB
}

func NewTestResultPostgreSQL(db *gorm.DB) repositories.TestResultRepository {
	return &TestResultPostgreSQL{db: db}
}

func (r *TestResultPostgreSQL) Create(ctx context.Context, result *models.TestResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *TestResultPostgreSQL) GetByID(ctx context.Context, id string) (*models.TestResult, error) {
	var result models.TestResult
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *TestResultPostgreSQL) List(ctx context.Context, filters repositories.TestResultFilters) ([]*models.TestResult, int64, error) {
	var results []*models.TestResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.TestResult{})
	if filters.SessionID != nil {
		query = query.Where("session_id = ?", *filters.SessionID)
	}
	if filters.ParticipantID != nil {
		query = query.Where("participant_id = ?", *filters.ParticipantID)
	}
	if filters.TestType != nil {
		query = query.Where("test_type = ?", *filters.TestType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("submitted_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *TestResultPostgreSQL) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.TestResult, error) {
	var results []*models.TestResult
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Order("submitted_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *TestResultPostgreSQL) LatestByPair(ctx context.Context, participantID, sessionID string, testType models.TestType) (*models.TestResult, error) {
	var result models.TestResult
	err := r.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ? AND test_type = ?", participantID, sessionID, testType).
		Order("submitted_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
