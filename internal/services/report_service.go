package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type reportService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReportService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ReportService {
	return &reportService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Save creates or updates the session's report. One report exists per
// session; saving as draft keeps it editable, saving with submit marks it
// final.
func (s *reportService) Save(ctx context.Context, req *ReportRequest, actor *models.User) (*models.TrainingReport, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionCreateReport, actor, req.SessionID, "")
	if err != nil {
		return nil, err
	}

	report, err := s.repo.Report().GetBySession(ctx, req.SessionID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		report = &models.TrainingReport{
			ID:            uuid.New().String(),
			SessionID:     session.ID,
			CoordinatorID: actor.ID,
			Status:        models.ReportDraft,
		}
	}

	report.GroupPhoto = req.GroupPhoto
	report.TheoryPhoto1 = req.TheoryPhoto1
	report.TheoryPhoto2 = req.TheoryPhoto2
	report.PracticalPhoto1 = req.PracticalPhoto1
	report.PracticalPhoto2 = req.PracticalPhoto2
	report.PracticalPhoto3 = req.PracticalPhoto3
	report.AdditionalNotes = req.AdditionalNotes

	if req.Submit {
		now := time.Now()
		report.Status = models.ReportSubmitted
		report.SubmittedAt = &now
	}

	if err := s.repo.Report().Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	if req.Submit {
		events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventReportSubmitted, events.ReportSubmittedEvent{
			SessionID:     report.SessionID,
			CoordinatorID: report.CoordinatorID,
		}), s.logger)
	}

	s.logger.Info("Report saved",
		"session_id", report.SessionID,
		"status", report.Status,
		"saved_by", actor.ID)
	return report, nil
}

func (s *reportService) GetBySession(ctx context.Context, sessionID string, actor *models.User) (*models.TrainingReport, error) {
	if _, err := authorizeSession(ctx, s.repo, policy.ActionViewReport, actor, sessionID, ""); err != nil {
		return nil, err
	}

	report, err := s.repo.Report().GetBySession(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, filters repositories.ReportFilters, actor *models.User) ([]*models.TrainingReport, int64, error) {
	switch actor.Role {
	case models.RoleAdmin:
		if err := policy.Evaluate(policy.ActionViewAllReports, actorOf(actor), policy.Target{}); err != nil {
			return nil, 0, NewPermissionError(actor.ID, "report", string(policy.ActionViewAllReports), "role check failed")
		}
	case models.RoleCoordinator:
		// Coordinators only see their own.
		filters.CreatedBy = &actor.ID
	default:
		return nil, 0, NewPermissionError(actor.ID, "report", string(policy.ActionViewAllReports), "role check failed")
	}

	filters.Limit, filters.Offset = normalizePage(filters.Limit, filters.Offset)
	return s.repo.Report().List(ctx, filters)
}
