package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

// accessService manages the per-(participant, session) gate records, the
// release shortcuts and the certificate lifecycle.
type accessService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAccessService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AccessService {
	return &accessService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== GATE READS =====

func (s *accessService) GetMyAccess(ctx context.Context, sessionID string, actor *models.User) (*models.ParticipantAccess, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewOwnAccess, actor, sessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	access, err := s.repo.ParticipantAccess().GetOrCreate(ctx, actor.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}
	return access, nil
}

func (s *accessService) ListForSession(ctx context.Context, sessionID string, actor *models.User) ([]*models.ParticipantAccess, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewParticipantAccess, actor, sessionID, "")
	if err != nil {
		return nil, err
	}

	// Every enrolled participant gets a record, created here if a toggle
	// never touched them before.
	for _, pid := range session.ParticipantIDs {
		if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, pid, sessionID); err != nil {
			return nil, fmt.Errorf("failed to ensure access record: %w", err)
		}
	}

	return s.repo.ParticipantAccess().ListBySession(ctx, sessionID)
}

// ===== GATE TOGGLES =====

func (s *accessService) UpdateGate(ctx context.Context, sessionID, participantID string, req *UpdateAccessRequest, actor *models.User) (*models.ParticipantAccess, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionUpdateParticipantAccess, actor, sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, participantID); err != nil {
		return nil, err
	}

	gate := models.AccessGate(req.Gate)
	if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, participantID, sessionID); err != nil {
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}
	if err := s.repo.ParticipantAccess().SetGate(ctx, participantID, sessionID, gate, req.Open); err != nil {
		return nil, fmt.Errorf("failed to set gate: %w", err)
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventGateToggled, events.GateToggledEvent{
		SessionID:     sessionID,
		ParticipantID: participantID,
		Gate:          string(gate),
		Open:          req.Open,
		ChangedBy:     actor.ID,
	}), s.logger)

	s.logger.Info("Gate toggled",
		"session_id", sessionID,
		"participant_id", participantID,
		"gate", gate,
		"open", req.Open,
		"changed_by", actor.ID)

	return s.repo.ParticipantAccess().GetByPair(ctx, participantID, sessionID)
}

// BulkToggle flips one gate for many participants, or for the whole roster
// when no ids are given. Entries are processed sequentially and
// independently: a failure mid-list does not roll back the earlier
// successes, and each participant's outcome is reported.
func (s *accessService) BulkToggle(ctx context.Context, sessionID string, req *BulkToggleRequest, actor *models.User) ([]BulkToggleOutcome, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionUpdateParticipantAccess, actor, sessionID, "")
	if err != nil {
		return nil, err
	}

	ids := req.ParticipantIDs
	if len(ids) == 0 {
		ids = []string(session.ParticipantIDs)
	}

	gate := models.AccessGate(req.Gate)
	outcomes := make([]BulkToggleOutcome, 0, len(ids))

	for _, pid := range ids {
		outcome := BulkToggleOutcome{ParticipantID: pid, OK: true}

		if !session.HasParticipant(pid) {
			outcome.OK = false
			outcome.Error = ErrNotEnrolled.Error()
			outcomes = append(outcomes, outcome)
			continue
		}
		if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, pid, sessionID); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
			outcomes = append(outcomes, outcome)
			continue
		}
		if err := s.repo.ParticipantAccess().SetGate(ctx, pid, sessionID, gate, req.Open); err != nil {
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventGateToggled, events.GateToggledEvent{
		SessionID: sessionID,
		Gate:      string(gate),
		Open:      req.Open,
		ChangedBy: actor.ID,
	}), s.logger)

	s.logger.Info("Bulk gate toggle",
		"session_id", sessionID,
		"gate", gate,
		"open", req.Open,
		"count", len(ids),
		"changed_by", actor.ID)

	return outcomes, nil
}

// ReleaseGate opens one gate for every access record of the session in a
// single statement.
func (s *accessService) ReleaseGate(ctx context.Context, sessionID string, gate models.AccessGate, actor *models.User) error {
	if !gate.Valid() {
		return fmt.Errorf("unknown gate %q", gate)
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionReleaseGate, actor, sessionID, "")
	if err != nil {
		return err
	}

	for _, pid := range session.ParticipantIDs {
		if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, pid, sessionID); err != nil {
			return fmt.Errorf("failed to ensure access record: %w", err)
		}
	}
	if err := s.repo.ParticipantAccess().SetGateForSession(ctx, sessionID, gate, true); err != nil {
		return fmt.Errorf("failed to release gate: %w", err)
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventGateReleased, events.GateReleasedEvent{
		SessionID: sessionID,
		Gate:      string(gate),
		ChangedBy: actor.ID,
	}), s.logger)

	s.logger.Info("Gate released", "session_id", sessionID, "gate", gate, "released_by", actor.ID)
	return nil
}

// ===== CERTIFICATES =====

func (s *accessService) UploadCertificate(ctx context.Context, sessionID string, req *UploadCertificateRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionUploadCertificate, actor, sessionID, req.ParticipantID)
	if err != nil {
		return err
	}
	if err := requireEnrolled(session, req.ParticipantID); err != nil {
		return err
	}

	if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, req.ParticipantID, sessionID); err != nil {
		return fmt.Errorf("failed to load access record: %w", err)
	}
	if err := s.repo.ParticipantAccess().SetCertificate(ctx, req.ParticipantID, sessionID, req.CertificateURL, actor.ID); err != nil {
		return fmt.Errorf("failed to store certificate: %w", err)
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventCertificateUploaded, events.CertificateUploadedEvent{
		SessionID:     sessionID,
		ParticipantID: req.ParticipantID,
		UploadedBy:    actor.ID,
	}), s.logger)

	s.logger.Info("Certificate uploaded",
		"session_id", sessionID,
		"participant_id", req.ParticipantID,
		"uploaded_by", actor.ID)
	return nil
}

// CheckEligibility recomputes the download conditions from current state on
// every call. Nothing is cached between checks: a session going inactive or
// a certificate being replaced changes the verdict immediately.
func (s *accessService) CheckEligibility(ctx context.Context, sessionID, participantID string, actor *models.User) (*EligibilityResponse, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionCheckEligibility, actor, sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, participantID); err != nil {
		return nil, err
	}

	access, err := s.repo.ParticipantAccess().GetOrCreate(ctx, participantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access record: %w", err)
	}
	clockedOut, err := s.repo.Attendance().HasClockOut(ctx, participantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}

	resp := &EligibilityResponse{
		HasCertificate:    access.CertificateURL != nil,
		FeedbackSubmitted: access.FeedbackSubmitted,
		HasClockOut:       clockedOut,
		SessionActive:     session.Status == models.SessionActive,
	}
	resp.Eligible = resp.HasCertificate && resp.FeedbackSubmitted && resp.HasClockOut && resp.SessionActive
	return resp, nil
}

// DownloadCertificate returns the stored certificate reference after the
// eligibility conditions all hold.
func (s *accessService) DownloadCertificate(ctx context.Context, sessionID, participantID string, actor *models.User) (string, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionDownloadCertificate, actor, sessionID, participantID)
	if err != nil {
		return "", err
	}
	if err := requireEnrolled(session, participantID); err != nil {
		return "", err
	}

	access, err := s.repo.ParticipantAccess().GetOrCreate(ctx, participantID, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load access record: %w", err)
	}
	if access.CertificateURL == nil {
		return "", ErrNoCertificate
	}

	// Staff download the stored file directly; participants only once
	// eligible.
	if actor.Role == models.RoleParticipant {
		clockedOut, err := s.repo.Attendance().HasClockOut(ctx, participantID, sessionID)
		if err != nil {
			return "", fmt.Errorf("failed to check attendance: %w", err)
		}
		if !access.FeedbackSubmitted || !clockedOut || session.Status != models.SessionActive {
			return "", ErrNotEligible
		}
	}

	return *access.CertificateURL, nil
}

// ListCertificates is the admin certificate repository view.
func (s *accessService) ListCertificates(ctx context.Context, limit, offset int, actor *models.User) ([]*models.ParticipantAccess, int64, error) {
	if err := policy.Evaluate(policy.ActionViewCertificateRepo, actorOf(actor), policy.Target{}); err != nil {
		return nil, 0, NewPermissionError(actor.ID, "certificate", string(policy.ActionViewCertificateRepo), "role check failed")
	}

	limit, offset = normalizePage(limit, offset)
	return s.repo.ParticipantAccess().ListWithCertificates(ctx, limit, offset)
}
