package postgres

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/cache"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSessionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SessionRepository {
	return &SessionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return err
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Session, "list:*")
	return nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Session, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var session models.Session

	err := s.cacheManager.Session.CacheOrExecute(ctx, cacheKey, &session, cache.SessionCacheConfig.TTL, func() (interface{}, error) {
		var dbSession models.Session
		if err := s.db.WithContext(ctx).Where("id = ?", id).First(&dbSession).Error; err != nil {
			return nil, err
		}
		return &dbSession, nil
	})

	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.Session) error {
	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return err
	}
	cache.InvalidateSessionCache(ctx, s.cacheManager, session.ID)
	return nil
}

func (s *SessionPostgreSQL) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return err
	}
	cache.InvalidateSessionCache(ctx, s.cacheManager, id)
	return nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.Session, int64, error) {
	var sessions []*models.Session
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Session{})
	query = s.helpers.ApplySessionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (s *SessionPostgreSQL) ListByParticipant(ctx context.Context, participantID string) ([]*models.Session, error) {
	return s.listByArrayMember(ctx, "participant_ids", participantID)
}

func (s *SessionPostgreSQL) ListBySupervisor(ctx context.Context, supervisorID string) ([]*models.Session, error) {
	return s.listByArrayMember(ctx, "supervisor_ids", supervisorID)
}

// listByArrayMember matches sessions whose JSON id list contains the user.
func (s *SessionPostgreSQL) listByArrayMember(ctx context.Context, column, userID string) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where(datatypes.JSONArrayQuery(column).Contains(userID)).
		Order("start_date DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListByTrainer matches on the trainer_id key inside the assignment objects,
// so it cannot reuse the plain array containment helper.
func (s *SessionPostgreSQL) ListByTrainer(ctx context.Context, trainerID string) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("trainer_assignments @> ?", fmt.Sprintf(`[{"trainer_id": %q}]`, trainerID)).
		Order("start_date DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) ListByCoordinator(ctx context.Context, coordinatorID string) ([]*models.Session, error) {
	var sessions []*models.Session
	err := s.db.WithContext(ctx).
		Where("coordinator_id = ?", coordinatorID).
		Order("start_date DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionPostgreSQL) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return err
	}
	cache.InvalidateSessionCache(ctx, s.cacheManager, id)
	return nil
}
