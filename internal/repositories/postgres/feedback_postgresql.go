package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/cache"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type FeedbackTemplatePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewFeedbackTemplatePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.FeedbackTemplateRepository {
	return &FeedbackTemplatePostgreSQL{db: db, cacheManager: cacheManager}
}

func (f *FeedbackTemplatePostgreSQL) Create(ctx context.Context, template *models.FeedbackTemplate) error {
	if err := f.db.WithContext(ctx).Create(template).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, f.cacheManager, "feedback", template.ID)
	return nil
}

func (f *FeedbackTemplatePostgreSQL) GetByID(ctx context.Context, id string) (*models.FeedbackTemplate, error) {
	cacheKey := fmt.Sprintf("feedback:id:%s", id)
	var template models.FeedbackTemplate

	err := f.cacheManager.Template.CacheOrExecute(ctx, cacheKey, &template, cache.TemplateCacheConfig.TTL, func() (interface{}, error) {
		var dbTemplate models.FeedbackTemplate
		if err := f.db.WithContext(ctx).Where("id = ?", id).First(&dbTemplate).Error; err != nil {
			return nil, err
		}
		return &dbTemplate, nil
	})

	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (f *FeedbackTemplatePostgreSQL) GetByProgram(ctx context.Context, programID string) (*models.FeedbackTemplate, error) {
	var template models.FeedbackTemplate
	err := f.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at DESC").
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (f *FeedbackTemplatePostgreSQL) Delete(ctx context.Context, id string) error {
	if err := f.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FeedbackTemplate{}).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, f.cacheManager, "feedback", id)
	return nil
}

func (f *FeedbackTemplatePostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.FeedbackTemplate, int64, error) {
	var templates []*models.FeedbackTemplate
	var total int64

	query := f.db.WithContext(ctx).Model(&models.FeedbackTemplate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&templates).Error; err != nil {
		return nil, 0, err
	}

	return templates, total, nil
}

type CourseFeedbackPostgreSQL struct {
	db *gorm.DB
}

func NewCourseFeedbackPostgreSQL(db *gorm.DB) repositories.CourseFeedbackRepository {
	return &CourseFeedbackPostgreSQL{db: db}
}

func (c *CourseFeedbackPostgreSQL) Create(ctx context.Context, feedback *models.CourseFeedback) error {
	return c.db.WithContext(ctx).Create(feedback).Error
}

func (c *CourseFeedbackPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.CourseFeedback, error) {
	var feedback []*models.CourseFeedback
	err := c.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("submitted_at DESC").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

func (c *CourseFeedbackPostgreSQL) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.CourseFeedback, error) {
	var feedback []*models.CourseFeedback
	err := c.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Order("submitted_at ASC").
		Find(&feedback).Error
	if err != nil {
		return nil, err
	}
	return feedback, nil
}
