package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type ParticipantAccessPostgreSQL struct {
	db *gorm.DB
}

func NewParticipantAccessPostgreSQL(db *gorm.DB) repositories.ParticipantAccessRepository {
	return &ParticipantAccessPostgreSQL{db: db}
}

// GetOrCreate returns the pair's record, inserting the default closed record
// on first reference. Concurrent first reads race on the unique pair index;
// the loser re-reads the winner's row.
func (p *ParticipantAccessPostgreSQL) GetOrCreate(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error) {
	access, err := p.GetByPair(ctx, participantID, sessionID)
	if err == nil {
		return access, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := &models.ParticipantAccess{
		ID:            uuid.New().String(),
		ParticipantID: participantID,
		SessionID:     sessionID,
	}

	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_id"}, {Name: "session_id"}},
		DoNothing: true,
	}).Create(fresh).Error
	if err != nil {
		return nil, err
	}

	return p.GetByPair(ctx, participantID, sessionID)
}

func (p *ParticipantAccessPostgreSQL) GetByPair(ctx context.Context, participantID, sessionID string) (*models.ParticipantAccess, error) {
	var access models.ParticipantAccess
	err := p.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (p *ParticipantAccessPostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.ParticipantAccess, error) {
	var records []*models.ParticipantAccess
	err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (p *ParticipantAccessPostgreSQL) ListByParticipant(ctx context.Context, participantID string) ([]*models.ParticipantAccess, error) {
	var records []*models.ParticipantAccess
	err := p.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (p *ParticipantAccessPostgreSQL) SetGate(ctx context.Context, participantID, sessionID string, gate models.AccessGate, open bool) error {
	column := gate.GateColumn()
	if column == "" {
		return fmt.Errorf("unknown gate %q", gate)
	}

	return p.db.WithContext(ctx).
		Model(&models.ParticipantAccess{}).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Update(column, open).Error
}

func (p *ParticipantAccessPostgreSQL) SetGateForSession(ctx context.Context, sessionID string, gate models.AccessGate, open bool) error {
	column := gate.GateColumn()
	if column == "" {
		return fmt.Errorf("unknown gate %q", gate)
	}

	return p.db.WithContext(ctx).
		Model(&models.ParticipantAccess{}).
		Where("session_id = ?", sessionID).
		Update(column, open).Error
}

func (p *ParticipantAccessPostgreSQL) SetCompletion(ctx context.Context, participantID, sessionID string, gate models.AccessGate, done bool) error {
	column := gate.CompletionColumn()
	if column == "" {
		return fmt.Errorf("unknown gate %q", gate)
	}

	return p.db.WithContext(ctx).
		Model(&models.ParticipantAccess{}).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Update(column, done).Error
}

func (p *ParticipantAccessPostgreSQL) SetCertificate(ctx context.Context, participantID, sessionID, url, uploadedBy string) error {
	now := time.Now()
	return p.db.WithContext(ctx).
		Model(&models.ParticipantAccess{}).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Updates(map[string]interface{}{
			"certificate_url":         url,
			"certificate_uploaded_at": now,
			"certificate_uploaded_by": uploadedBy,
		}).Error
}

func (p *ParticipantAccessPostgreSQL) Update(ctx context.Context, access *models.ParticipantAccess) error {
	return p.db.WithContext(ctx).Save(access).Error
}

func (p *ParticipantAccessPostgreSQL) DeleteBySession(ctx context.Context, sessionID string) error {
	return p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.ParticipantAccess{}).Error
}

func (p *ParticipantAccessPostgreSQL) ListWithCertificates(ctx context.Context, limit, offset int) ([]*models.ParticipantAccess, int64, error) {
	var records []*models.ParticipantAccess
	var total int64

	query := p.db.WithContext(ctx).
		Model(&models.ParticipantAccess{}).
		Where("certificate_url IS NOT NULL")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("certificate_uploaded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
