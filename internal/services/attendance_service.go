package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator

	// now is swappable in tests.
	now func() time.Time
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ClockIn opens the participant's attendance record for today. At most one
// record exists per (participant, session, day), and a second clock-in on
// the same day is refused.
func (s *attendanceService) ClockIn(ctx context.Context, req *ClockRequest, actor *models.User) (*models.Attendance, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionClockIn, actor, req.SessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	now := s.now()
	date := now.Format("2006-01-02")
	stamp := now.Format(time.RFC3339)

	record, err := s.repo.Attendance().GetByDay(ctx, actor.ID, req.SessionID, date)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	if record != nil && record.ClockIn != nil {
		return nil, ErrAlreadyClockedIn
	}

	if record == nil {
		record = &models.Attendance{
			ID:            uuid.New().String(),
			ParticipantID: actor.ID,
			SessionID:     req.SessionID,
			Date:          date,
			ClockIn:       &stamp,
		}
		if err := s.repo.Attendance().Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to create attendance: %w", err)
		}
	} else {
		record.ClockIn = &stamp
		if err := s.repo.Attendance().Update(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to update attendance: %w", err)
		}
	}

	s.logger.Info("Clocked in", "session_id", req.SessionID, "participant_id", actor.ID, "date", date)
	return record, nil
}

// ClockOut closes today's record. A clock-out without a prior clock-in is
// refused, as is a second clock-out.
func (s *attendanceService) ClockOut(ctx context.Context, req *ClockRequest, actor *models.User) (*models.Attendance, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionClockOut, actor, req.SessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	now := s.now()
	date := now.Format("2006-01-02")
	stamp := now.Format(time.RFC3339)

	record, err := s.repo.Attendance().GetByDay(ctx, actor.ID, req.SessionID, date)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotClockedIn
		}
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	if record.ClockIn == nil {
		return nil, ErrNotClockedIn
	}
	if record.ClockOut != nil {
		return nil, ErrAlreadyClockedOut
	}

	record.ClockOut = &stamp
	if err := s.repo.Attendance().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}

	s.logger.Info("Clocked out", "session_id", req.SessionID, "participant_id", actor.ID, "date", date)
	return record, nil
}

func (s *attendanceService) GetSessionAttendance(ctx context.Context, sessionID string, actor *models.User) (*AttendanceResponse, error) {
	if _, err := authorizeSession(ctx, s.repo, policy.ActionViewAttendance, actor, sessionID, ""); err != nil {
		return nil, err
	}

	records, err := s.repo.Attendance().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	stats, err := s.repo.Attendance().Stats(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance stats: %w", err)
	}
	return &AttendanceResponse{Records: records, Stats: stats}, nil
}

func (s *attendanceService) GetMyAttendance(ctx context.Context, sessionID string, actor *models.User) ([]*models.Attendance, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}
	return s.repo.Attendance().ListByPair(ctx, actor.ID, sessionID)
}
