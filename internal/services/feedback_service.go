package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type feedbackService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFeedbackService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) FeedbackService {
	return &feedbackService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== TEMPLATES =====

func (s *feedbackService) CreateTemplate(ctx context.Context, req *FeedbackTemplateRequest, actor *models.User) (*models.FeedbackTemplate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateFeedbackTemplate, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "feedback_template", string(policy.ActionCreateFeedbackTemplate), "role check failed")
	}

	if _, err := s.repo.Program().GetByID(ctx, req.ProgramID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	template := &models.FeedbackTemplate{
		ID:        uuid.New().String(),
		ProgramID: req.ProgramID,
		Questions: datatypes.NewJSONSlice(req.Questions),
	}
	if err := s.repo.FeedbackTemplate().Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("Feedback template created", "template_id", template.ID, "program_id", req.ProgramID)
	return template, nil
}

func (s *feedbackService) DeleteTemplate(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteFeedbackTemplate, actorOf(actor), policy.Target{}); err != nil {
		return NewPermissionError(actor.ID, "feedback_template", string(policy.ActionDeleteFeedbackTemplate), "role check failed")
	}

	if _, err := s.repo.FeedbackTemplate().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to load template: %w", err)
	}
	return s.repo.FeedbackTemplate().Delete(ctx, id)
}

func (s *feedbackService) GetTemplateForSession(ctx context.Context, sessionID string, actor *models.User) (*models.FeedbackTemplate, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !memberOfSession(session, actor) {
		return nil, NewPermissionError(actor.ID, "feedback_template", "feedback_template.view", "not a member of this session")
	}

	template, err := s.repo.FeedbackTemplate().GetByProgram(ctx, session.ProgramID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return template, nil
}

// ===== SUBMISSION =====

// Submit stores a feedback response. Like tests and checklists, repeated
// submissions append rows; feedback_submitted only ever moves to true, and
// it is one of the certificate eligibility facts.
func (s *feedbackService) Submit(ctx context.Context, req *SubmitFeedbackRequest, actor *models.User) (*models.CourseFeedback, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitFeedback, actor, req.SessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	access, err := s.repo.ParticipantAccess().GetOrCreate(ctx, actor.ID, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}
	if !access.CanAccessFeedback {
		return nil, ErrGateClosed
	}

	feedback := &models.CourseFeedback{
		ID:            uuid.New().String(),
		ParticipantID: actor.ID,
		SessionID:     req.SessionID,
		ProgramID:     session.ProgramID,
		Responses:     datatypes.NewJSONSlice(req.Responses),
		SubmittedAt:   time.Now(),
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.CourseFeedback().Create(ctx, feedback); err != nil {
			return fmt.Errorf("failed to store feedback: %w", err)
		}
		if err := tx.ParticipantAccess().SetCompletion(ctx, actor.ID, req.SessionID, models.GateFeedback, true); err != nil {
			return fmt.Errorf("failed to mark completion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventFeedbackSubmitted, events.FeedbackSubmittedEvent{
		SessionID:     req.SessionID,
		ParticipantID: actor.ID,
	}), s.logger)

	s.logger.Info("Feedback submitted", "session_id", req.SessionID, "participant_id", actor.ID)
	return feedback, nil
}

func (s *feedbackService) ListForSession(ctx context.Context, sessionID string, actor *models.User) ([]*models.CourseFeedback, error) {
	if _, err := authorizeSession(ctx, s.repo, policy.ActionViewSessionFeedback, actor, sessionID, ""); err != nil {
		return nil, err
	}
	return s.repo.CourseFeedback().ListBySession(ctx, sessionID)
}
