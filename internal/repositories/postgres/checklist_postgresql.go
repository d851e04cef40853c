package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mddrc-dev/training-service/internal/cache"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type ChecklistTemplatePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewChecklistTemplatePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ChecklistTemplateRepository {
	return &ChecklistTemplatePostgreSQL{db: db, cacheManager: cacheManager}
}

func (c *ChecklistTemplatePostgreSQL) Create(ctx context.Context, template *models.ChecklistTemplate) error {
	if err := c.db.WithContext(ctx).Create(template).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, c.cacheManager, "checklist", template.ID)
	return nil
}

func (c *ChecklistTemplatePostgreSQL) GetByID(ctx context.Context, id string) (*models.ChecklistTemplate, error) {
	cacheKey := fmt.Sprintf("checklist:id:%s", id)
	var template models.ChecklistTemplate

	err := c.cacheManager.Template.CacheOrExecute(ctx, cacheKey, &template, cache.TemplateCacheConfig.TTL, func() (interface{}, error) {
		var dbTemplate models.ChecklistTemplate
		if err := c.db.WithContext(ctx).Where("id = ?", id).First(&dbTemplate).Error; err != nil {
			return nil, err
		}
		return &dbTemplate, nil
	})

	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (c *ChecklistTemplatePostgreSQL) GetByProgram(ctx context.Context, programID string) (*models.ChecklistTemplate, error) {
	var template models.ChecklistTemplate
	err := c.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("created_at DESC").
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (c *ChecklistTemplatePostgreSQL) Update(ctx context.Context, template *models.ChecklistTemplate) error {
	if err := c.db.WithContext(ctx).Save(template).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, c.cacheManager, "checklist", template.ID)
	return nil
}

func (c *ChecklistTemplatePostgreSQL) Delete(ctx context.Context, id string) error {
	if err := c.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChecklistTemplate{}).Error; err != nil {
		return err
	}
	cache.InvalidateTemplateCache(ctx, c.cacheManager, "checklist", id)
	return nil
}

func (c *ChecklistTemplatePostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.ChecklistTemplate, int64, error) {
	var templates []*models.ChecklistTemplate
	var total int64

	query := c.db.WithContext(ctx).Model(&models.ChecklistTemplate{})
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

type VehicleChecklistPostgreSQL struct {
	db *gorm.DB
}

func NewVehicleChecklistPostgreSQL(db *gorm.DB) repositories.VehicleChecklistRepository {
	return &VehicleChecklistPostgreSQL{db: db}
}

func (v *VehicleChecklistPostgreSQL) Create(ctx context.Context, checklist *models.VehicleChecklist) error {
	return v.db.WithContext(ctx).Create(checklist).Error
}

func (v *VehicleChecklistPostgreSQL) GetByID(ctx context.Context, id string) (*models.VehicleChecklist, error) {
	var checklist models.VehicleChecklist
	if err := v.db.WithContext(ctx).Where("id = ?", id).First(&checklist).Error; err != nil {
		return nil, err
	}
	return &checklist, nil
}

func (v *VehicleChecklistPostgreSQL) List(ctx context.Context, filters repositories.ChecklistFilters) ([]*models.VehicleChecklist, int64, error) {
	var checklists []*models.VehicleChecklist
	var total int64

	query := v.db.WithContext(ctx).Model(&models.VehicleChecklist{})
	if filters.SessionID != nil {
		query = query.Where("session_id = ?", *filters.SessionID)
	}
	if filters.ParticipantID != nil {
		query = query.Where("participant_id = ?", *filters.ParticipantID)
	}
	if filters.Status != nil {
		query = query.Where("verification_status = ?", *filters.Status)
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

	if err := query.Find(&checklists).Error; err != nil {
		return nil, 0, err
	}

	return checklists, total, nil
}

func (v *VehicleChecklistPostgreSQL) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.VehicleChecklist, error) {
	var checklists []*models.VehicleChecklist
	err := v.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Order("submitted_at ASC").
		Find(&checklists).Error
	if err != nil {
		return nil, err
	}
	return checklists, nil
}

func (v *VehicleChecklistPostgreSQL) SetVerification(ctx context.Context, id, verifierID string, status models.VerificationStatus) error {
	now := time.Now()
	return v.db.WithContext(ctx).
		Model(&models.VehicleChecklist{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verification_status": status,
			"verified_by":         verifierID,
			"verified_at":         now,
		}).Error
}

type VehicleDetailsPostgreSQL struct {
	db *gorm.DB
}

func NewVehicleDetailsPostgreSQL(db *gorm.DB) repositories.VehicleDetailsRepository {
	return &VehicleDetailsPostgreSQL{db: db}
}

func (v *VehicleDetailsPostgreSQL) Upsert(ctx context.Context, details *models.VehicleDetails) error {
	return v.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "participant_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"vehicle_model", "registration_number", "roadtax_expiry", "updated_at",
		}),
	}).Create(details).Error
}

func (v *VehicleDetailsPostgreSQL) GetByPair(ctx context.Context, participantID, sessionID string) (*models.VehicleDetails, error) {
	var details models.VehicleDetails
	err := v.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		First(&details).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (v *VehicleDetailsPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.VehicleDetails, error) {
	var details []*models.VehicleDetails
	err := v.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}
