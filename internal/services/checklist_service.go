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

// TrainerInspectionInterval tags checklist rows submitted by a trainer on a
// participant's behalf.
const TrainerInspectionInterval = "trainer_inspection"

type checklistService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChecklistService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ChecklistService {
	return &checklistService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== TEMPLATES =====

func (s *checklistService) CreateTemplate(ctx context.Context, req *ChecklistTemplateRequest, actor *models.User) (*models.ChecklistTemplate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateChecklistTemplate, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "checklist_template", string(policy.ActionCreateChecklistTemplate), "role check failed")
	}

	if _, err := s.repo.Program().GetByID(ctx, req.ProgramID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	template := &models.ChecklistTemplate{
		ID:        uuid.New().String(),
		ProgramID: req.ProgramID,
		Items:     datatypes.NewJSONSlice(req.Items),
	}
	if err := s.repo.ChecklistTemplate().Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("Checklist template created", "template_id", template.ID, "program_id", req.ProgramID)
	return template, nil
}

func (s *checklistService) UpdateTemplate(ctx context.Context, id string, req *ChecklistTemplateRequest, actor *models.User) (*models.ChecklistTemplate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionUpdateChecklistTemplate, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "checklist_template", string(policy.ActionUpdateChecklistTemplate), "role check failed")
	}

	template, err := s.repo.ChecklistTemplate().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	template.Items = datatypes.NewJSONSlice(req.Items)
	if err := s.repo.ChecklistTemplate().Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

func (s *checklistService) DeleteTemplate(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteChecklistTemplate, actorOf(actor), policy.Target{}); err != nil {
		return NewPermissionError(actor.ID, "checklist_template", string(policy.ActionDeleteChecklistTemplate), "role check failed")
	}

	if _, err := s.repo.ChecklistTemplate().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to load template: %w", err)
	}
	return s.repo.ChecklistTemplate().Delete(ctx, id)
}

// GetTemplateForSession resolves the template for a session's program. Any
// member of the session may read it.
func (s *checklistService) GetTemplateForSession(ctx context.Context, sessionID string, actor *models.User) (*models.ChecklistTemplate, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !memberOfSession(session, actor) {
		return nil, NewPermissionError(actor.ID, "checklist_template", "checklist_template.view", "not a member of this session")
	}

	template, err := s.repo.ChecklistTemplate().GetByProgram(ctx, session.ProgramID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return template, nil
}

// ===== SUBMISSIONS =====

// Submit records a participant's own inspection. Rows accumulate per
// interval; the completion flag on the access record summarizes them.
func (s *checklistService) Submit(ctx context.Context, req *SubmitChecklistRequest, actor *models.User) (*models.VehicleChecklist, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitChecklist, actor, req.SessionID, actor.ID)
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
	if !access.CanAccessChecklist {
		return nil, ErrGateClosed
	}

	checklist, err := s.storeChecklist(ctx, actor.ID, req.SessionID, req.Interval, req.Items)
	if err != nil {
		return nil, err
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventChecklistSubmitted, events.ChecklistSubmittedEvent{
		SessionID:     req.SessionID,
		ParticipantID: actor.ID,
		Interval:      req.Interval,
		SubmittedBy:   actor.ID,
	}), s.logger)

	s.logger.Info("Checklist submitted",
		"session_id", req.SessionID,
		"participant_id", actor.ID,
		"interval", req.Interval)
	return checklist, nil
}

// SubmitTrainerChecklist records an inspection a trainer performed on a
// participant's vehicle. Any trainer assigned to the session may submit;
// chief comments piggyback on the same call when provided.
func (s *checklistService) SubmitTrainerChecklist(ctx context.Context, req *TrainerChecklistRequest, actor *models.User) (*models.VehicleChecklist, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitTrainerChecklist, actor, req.SessionID, "")
	if err != nil {
		return nil, err
	}
	if session.TrainerIndex(actor.ID) < 0 {
		return nil, NewPermissionError(actor.ID, "checklist", string(policy.ActionSubmitTrainerChecklist), "not assigned to this session")
	}
	if err := requireEnrolled(session, req.ParticipantID); err != nil {
		return nil, err
	}

	checklist, err := s.storeChecklist(ctx, req.ParticipantID, req.SessionID, TrainerInspectionInterval, req.Items)
	if err != nil {
		return nil, err
	}

	if req.ChiefComments != nil {
		if !policy.IsChief(actorOf(actor), sessionTarget(session, "")) {
			return nil, NewPermissionError(actor.ID, "session", "session.chief_comments", "chief trainer only")
		}
		now := time.Now()
		session.ChiefTrainerComments = req.ChiefComments
		session.ChiefTrainerID = &actor.ID
		session.ChiefTrainerName = &actor.FullName
		session.ChiefCommentsSubmittedAt = &now
		if err := s.repo.Session().Update(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to save chief comments: %w", err)
		}
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventChecklistSubmitted, events.ChecklistSubmittedEvent{
		SessionID:     req.SessionID,
		ParticipantID: req.ParticipantID,
		Interval:      TrainerInspectionInterval,
		SubmittedBy:   actor.ID,
	}), s.logger)

	s.logger.Info("Trainer checklist submitted",
		"session_id", req.SessionID,
		"participant_id", req.ParticipantID,
		"trainer_id", actor.ID)
	return checklist, nil
}

func (s *checklistService) storeChecklist(ctx context.Context, participantID, sessionID, interval string, items []models.ChecklistItem) (*models.VehicleChecklist, error) {
	checklist := &models.VehicleChecklist{
		ID:                 uuid.New().String(),
		ParticipantID:      participantID,
		SessionID:          sessionID,
		Interval:           interval,
		ChecklistItems:     datatypes.NewJSONSlice(items),
		SubmittedAt:        time.Now(),
		VerificationStatus: models.VerificationPending,
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.VehicleChecklist().Create(ctx, checklist); err != nil {
			return fmt.Errorf("failed to store checklist: %w", err)
		}
		if err := tx.ParticipantAccess().SetCompletion(ctx, participantID, sessionID, models.GateChecklist, true); err != nil {
			return fmt.Errorf("failed to mark completion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checklist, nil
}

// ===== VERIFICATION =====

// Verify records a supervisor's verdict on one submission.
func (s *checklistService) Verify(ctx context.Context, checklistID string, req *VerifyChecklistRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	checklist, err := s.repo.VehicleChecklist().GetByID(ctx, checklistID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			if perr := policy.Evaluate(policy.ActionVerifyChecklist, actorOf(actor), policy.Target{}); perr != nil {
				return NewPermissionError(actor.ID, "checklist", string(policy.ActionVerifyChecklist), "role check failed")
			}
			return ErrChecklistNotFound
		}
		return fmt.Errorf("failed to load checklist: %w", err)
	}

	session, err := s.repo.Session().GetByID(ctx, checklist.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := policy.Evaluate(policy.ActionVerifyChecklist, actorOf(actor), sessionTarget(session, "")); err != nil {
		return NewPermissionError(actor.ID, "checklist", string(policy.ActionVerifyChecklist), "role check failed")
	}
	if actor.Role == models.RolePICSupervisor && !session.HasSupervisor(actor.ID) {
		return NewPermissionError(actor.ID, "checklist", string(policy.ActionVerifyChecklist), "not supervising this session")
	}

	status := models.VerificationStatus(req.Status)
	if err := s.repo.VehicleChecklist().SetVerification(ctx, checklistID, actor.ID, status); err != nil {
		return fmt.Errorf("failed to set verification: %w", err)
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventChecklistVerified, events.ChecklistVerifiedEvent{
		SessionID:     checklist.SessionID,
		ParticipantID: checklist.ParticipantID,
		ChecklistID:   checklistID,
		Status:        string(status),
		VerifiedBy:    actor.ID,
	}), s.logger)

	s.logger.Info("Checklist verified",
		"checklist_id", checklistID,
		"status", status,
		"verified_by", actor.ID)
	return nil
}

func (s *checklistService) ListForSession(ctx context.Context, sessionID string, filters repositories.ChecklistFilters, actor *models.User) ([]*models.VehicleChecklist, int64, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, 0, ErrSessionNotFound
		}
		return nil, 0, fmt.Errorf("failed to load session: %w", err)
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleAssistantAdmin:
	case models.RoleCoordinator:
		if session.CoordinatorID == nil || *session.CoordinatorID != actor.ID {
			return nil, 0, NewPermissionError(actor.ID, "checklist", "checklist.list", "not coordinating this session")
		}
	case models.RolePICSupervisor:
		if !session.HasSupervisor(actor.ID) {
			return nil, 0, NewPermissionError(actor.ID, "checklist", "checklist.list", "not supervising this session")
		}
	case models.RoleTrainer:
		if session.TrainerIndex(actor.ID) < 0 {
			return nil, 0, NewPermissionError(actor.ID, "checklist", "checklist.list", "not assigned to this session")
		}
	default:
		return nil, 0, NewPermissionError(actor.ID, "checklist", "checklist.list", "role check failed")
	}

	filters.SessionID = &sessionID
	filters.Limit, filters.Offset = normalizePage(filters.Limit, filters.Offset)
	return s.repo.VehicleChecklist().List(ctx, filters)
}

// ===== VEHICLE DETAILS =====

// SubmitVehicleDetails upserts the participant's vehicle record for the
// session. Unlike the inspection history there is exactly one row per pair.
func (s *checklistService) SubmitVehicleDetails(ctx context.Context, req *VehicleDetailsRequest, actor *models.User) (*models.VehicleDetails, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitVehicleDetails, actor, req.SessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	details := &models.VehicleDetails{
		ID:                 uuid.New().String(),
		ParticipantID:      actor.ID,
		SessionID:          req.SessionID,
		VehicleModel:       req.VehicleModel,
		RegistrationNumber: req.RegistrationNumber,
		RoadtaxExpiry:      req.RoadtaxExpiry,
	}
	if err := s.repo.VehicleDetails().Upsert(ctx, details); err != nil {
		return nil, fmt.Errorf("failed to store vehicle details: %w", err)
	}

	s.logger.Info("Vehicle details submitted", "session_id", req.SessionID, "participant_id", actor.ID)
	return details, nil
}

func (s *checklistService) GetVehicleDetails(ctx context.Context, sessionID, participantID string, actor *models.User) (*models.VehicleDetails, error) {
	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if actor.ID != participantID && !memberOfSession(session, actor) {
		return nil, NewPermissionError(actor.ID, "vehicle_details", "vehicle.view", "not a member of this session")
	}

	details, err := s.repo.VehicleDetails().GetByPair(ctx, participantID, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVehicleDetailsNotFound
		}
		return nil, fmt.Errorf("failed to load vehicle details: %w", err)
	}
	return details, nil
}

// memberOfSession reports any roster or staff relation to the session.
func memberOfSession(session *models.Session, actor *models.User) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleAssistantAdmin:
		return true
	case models.RoleCoordinator:
		return session.CoordinatorID != nil && *session.CoordinatorID == actor.ID
	case models.RoleTrainer:
		return session.TrainerIndex(actor.ID) >= 0
	case models.RolePICSupervisor:
		return session.HasSupervisor(actor.ID)
	case models.RoleParticipant:
		return session.HasParticipant(actor.ID)
	}
	return false
}
