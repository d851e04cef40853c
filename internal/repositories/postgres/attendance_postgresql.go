package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{db: db}
}

func (a *AttendancePostgreSQL) Create(ctx context.Context, record *models.Attendance) error {
	return a.db.WithContext(ctx).Create(record).Error
}

func (a *AttendancePostgreSQL) Update(ctx context.Context, record *models.Attendance) error {
	return a.db.WithContext(ctx).Save(record).Error
}

func (a *AttendancePostgreSQL) GetByDay(ctx context.Context, participantID, sessionID, date string) (*models.Attendance, error) {
	var record models.Attendance
	err := a.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ? AND date = ?", participantID, sessionID, date).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (a *AttendancePostgreSQL) ListBySession(ctx context.Context, sessionID string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AttendancePostgreSQL) ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := a.db.WithContext(ctx).
		Where("participant_id = ? AND session_id = ?", participantID, sessionID).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (a *AttendancePostgreSQL) HasClockOut(ctx context.Context, participantID, sessionID string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("participant_id = ? AND session_id = ? AND clock_out IS NOT NULL", participantID, sessionID).
		Count(&count).Error
	return count > 0, err
}

func (a *AttendancePostgreSQL) Stats(ctx context.Context, sessionID string) (*repositories.AttendanceStats, error) {
	stats := &repositories.AttendanceStats{}

	var total, in, out int64
	base := a.db.WithContext(ctx).Model(&models.Attendance{}).Where("session_id = ?", sessionID)

	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("clock_in IS NOT NULL").Count(&in).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("clock_out IS NOT NULL").Count(&out).Error; err != nil {
		return nil, err
	}

	stats.TotalRecords = int(total)
	stats.ClockedIn = int(in)
	stats.ClockedOut = int(out)
	return stats, nil
}
