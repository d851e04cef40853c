package repositories

import (
	"context"

	"github.com/mddrc-dev/training-service/internal/models"
)

// AttendanceRepository interface for attendance operations. One row exists
// per (participant, session, date); clock-in creates it, clock-out fills in
// the missing half.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	GetByDay(ctx context.Context, participantID, sessionID, date string) (*models.Attendance, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.Attendance, error)
	ListByPair(ctx context.Context, participantID, sessionID string) ([]*models.Attendance, error)

	// HasClockOut reports whether any record for the pair carries a
	// non-null clock-out. Feeds certificate eligibility.
	HasClockOut(ctx context.Context, participantID, sessionID string) (bool, error)

	Stats(ctx context.Context, sessionID string) (*AttendanceStats, error)
}
