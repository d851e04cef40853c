package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type sessionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSessionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

// Create builds a session together with its roster. Participants and
// supervisors given inline are matched by email; unknown ones get accounts
// created on the fly with the id number as the initial password. Access
// records for every participant are created up front, all gates closed.
func (s *sessionService) Create(ctx context.Context, req *CreateSessionRequest, actor *models.User) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateSession, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "session", string(policy.ActionCreateSession), "role check failed")
	}

	program, err := s.repo.Program().GetByID(ctx, req.ProgramID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	company, err := s.repo.Company().GetByID(ctx, req.CompanyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	session := &models.Session{
		ID:            uuid.New().String(),
		Name:          req.Name,
		ProgramID:     program.ID,
		CompanyID:     company.ID,
		Location:      req.Location,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.SessionActive,
		CoordinatorID: req.CoordinatorID,
	}

	for _, t := range req.Trainers {
		session.TrainerAssignments = append(session.TrainerAssignments, models.TrainerAssignment{
			TrainerID: t.TrainerID,
			Role:      models.TrainerRole(t.Role),
		})
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		participantIDs, err := s.resolveRoster(ctx, tx, req.Participants, models.RoleParticipant, req.CompanyID)
		if err != nil {
			return err
		}
		supervisorIDs, err := s.resolveRoster(ctx, tx, req.Supervisors, models.RolePICSupervisor, req.CompanyID)
		if err != nil {
			return err
		}
		session.ParticipantIDs = datatypes.NewJSONSlice(participantIDs)
		session.SupervisorIDs = datatypes.NewJSONSlice(supervisorIDs)

		if err := tx.Session().Create(ctx, session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		for _, pid := range participantIDs {
			if _, err := tx.ParticipantAccess().GetOrCreate(ctx, pid, session.ID); err != nil {
				return fmt.Errorf("failed to create access record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session created",
		"session_id", session.ID,
		"program_id", session.ProgramID,
		"participants", len(session.ParticipantIDs),
		"created_by", actor.ID)

	return &SessionResponse{Session: session, ProgramName: program.Name, CompanyName: company.Name}, nil
}

// resolveRoster maps inline roster entries to user ids, creating missing
// accounts. Existing users are matched by email and keep their role.
func (s *sessionService) resolveRoster(ctx context.Context, tx repositories.Repository, entries []SessionParticipant, role models.UserRole, companyID string) ([]string, error) {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, entry := range entries {
		email := strings.ToLower(strings.TrimSpace(entry.Email))
		if seen[email] {
			continue
		}
		seen[email] = true

		user, err := tx.User().GetByEmail(ctx, email)
		if err == nil {
			ids = append(ids, user.ID)
			continue
		}
		if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to look up roster user: %w", err)
		}

		hash, err := hashInitialPassword(entry.IDNumber)
		if err != nil {
			return nil, err
		}
		user = &models.User{
			ID:           uuid.New().String(),
			Email:        email,
			FullName:     entry.FullName,
			IDNumber:     entry.IDNumber,
			Role:         role,
			CompanyID:    &companyID,
			PhoneNumber:  entry.PhoneNumber,
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := tx.User().Create(ctx, user); err != nil {
			if repositories.IsDuplicateError(err) {
				return nil, ErrIDNumberTaken
			}
			return nil, fmt.Errorf("failed to create roster user: %w", err)
		}
		ids = append(ids, user.ID)
	}
	return ids, nil
}

func (s *sessionService) GetByID(ctx context.Context, id string, actor *models.User) (*SessionResponse, error) {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if !s.canSee(session, actor) {
		return nil, NewPermissionError(actor.ID, "session", "session.view", "not a member of this session")
	}

	return s.toResponse(ctx, session), nil
}

// canSee reports whether the actor may read the session at all. Admin roles
// see everything; everyone else must appear somewhere on the roster.
func (s *sessionService) canSee(session *models.Session, actor *models.User) bool {
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
		return session.HasParticipant(actor.ID) && session.Status == models.SessionActive
	}
	return false
}

func (s *sessionService) Update(ctx context.Context, id string, req *UpdateSessionRequest, actor *models.User) (*SessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionUpdateSession, actor, id, "")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		session.Name = *req.Name
	}
	if req.Location != nil {
		session.Location = *req.Location
	}
	if req.StartDate != nil {
		session.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		session.EndDate = *req.EndDate
	}
	if req.CoordinatorID != nil {
		session.CoordinatorID = req.CoordinatorID
	}
	if req.Trainers != nil {
		assignments := make([]models.TrainerAssignment, 0, len(req.Trainers))
		for _, t := range req.Trainers {
			assignments = append(assignments, models.TrainerAssignment{
				TrainerID: t.TrainerID,
				Role:      models.TrainerRole(t.Role),
			})
		}
		session.TrainerAssignments = datatypes.NewJSONSlice(assignments)
	}

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	s.logger.Info("Session updated", "session_id", session.ID, "updated_by", actor.ID)
	return s.toResponse(ctx, session), nil
}

// Delete removes the session and its access records. Submission history
// (test results, checklists, feedback) stays behind for audit.
func (s *sessionService) Delete(ctx context.Context, id string, actor *models.User) error {
	if _, err := authorizeSession(ctx, s.repo, policy.ActionDeleteSession, actor, id, ""); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.ParticipantAccess().DeleteBySession(ctx, id); err != nil {
			return fmt.Errorf("failed to delete access records: %w", err)
		}
		if err := tx.Report().Delete(ctx, id); err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		if err := tx.Session().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Session deleted", "session_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *sessionService) ToggleStatus(ctx context.Context, id string, actor *models.User) (*models.Session, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionToggleSessionStatus, actor, id, "")
	if err != nil {
		return nil, err
	}

	next := models.SessionInactive
	if session.Status == models.SessionInactive {
		next = models.SessionActive
	}
	if err := s.repo.Session().UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	session.Status = next

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventSessionStatusChanged, events.SessionStatusChangedEvent{
		SessionID: session.ID,
		Status:    string(next),
		ChangedBy: actor.ID,
	}), s.logger)

	s.logger.Info("Session status toggled", "session_id", id, "status", next, "changed_by", actor.ID)
	return session, nil
}

// ===== LISTING =====

// List serves the admin-side browse surface. Coordinators are forced onto
// their own sessions; participant-facing listing goes through ListMine.
func (s *sessionService) List(ctx context.Context, filters repositories.SessionFilters, actor *models.User) (*SessionListResponse, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleAssistantAdmin:
		// unrestricted
	case models.RoleCoordinator:
		filters.CoordinatorID = &actor.ID
	default:
		return nil, NewPermissionError(actor.ID, "session", "session.list", "role check failed")
	}

	filters.Limit, filters.Offset = normalizePage(filters.Limit, filters.Offset)

	sessions, total, err := s.repo.Session().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, s.toResponse(ctx, sess))
	}

	page, size := pageOf(filters.Limit, filters.Offset)
	return &SessionListResponse{Sessions: responses, Total: total, Page: page, Size: size}, nil
}

// ListMine returns the sessions visible to the caller through their roster
// membership. Participants see only active sessions, and referencing a
// session here lazily creates the participant's access record.
func (s *sessionService) ListMine(ctx context.Context, actor *models.User) ([]*SessionResponse, error) {
	var (
		sessions []*models.Session
		err      error
	)

	switch actor.Role {
	case models.RoleAdmin, models.RoleAssistantAdmin:
		active := models.SessionActive
		sessions, _, err = s.repo.Session().List(ctx, repositories.SessionFilters{Status: &active, Limit: 100})
	case models.RoleCoordinator:
		sessions, err = s.repo.Session().ListByCoordinator(ctx, actor.ID)
	case models.RoleTrainer:
		sessions, err = s.repo.Session().ListByTrainer(ctx, actor.ID)
	case models.RolePICSupervisor:
		sessions, err = s.repo.Session().ListBySupervisor(ctx, actor.ID)
	case models.RoleParticipant:
		sessions, err = s.repo.Session().ListByParticipant(ctx, actor.ID)
	default:
		return nil, NewPermissionError(actor.ID, "session", "session.list", "unknown role")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		if actor.Role != models.RoleAdmin && actor.Role != models.RoleAssistantAdmin && sess.Status != models.SessionActive {
			continue
		}
		if actor.Role == models.RoleParticipant {
			if _, err := s.repo.ParticipantAccess().GetOrCreate(ctx, actor.ID, sess.ID); err != nil {
				return nil, fmt.Errorf("failed to ensure access record: %w", err)
			}
		}
		responses = append(responses, s.toResponse(ctx, sess))
	}
	return responses, nil
}

func (s *sessionService) GetParticipants(ctx context.Context, sessionID string, actor *models.User) ([]*models.User, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewSessionParticipants, actor, sessionID, "")
	if err != nil {
		return nil, err
	}
	return s.repo.User().GetByIDs(ctx, session.ParticipantIDs)
}

// GetAssignedParticipants returns the slice of the roster a trainer is
// responsible for. The roster is split into contiguous runs in stored
// order; with N participants and T trainers each trainer gets N/T, and the
// first N%T trainers (in assignment order) take one extra.
func (s *sessionService) GetAssignedParticipants(ctx context.Context, sessionID string, actor *models.User) ([]*models.User, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewAssignedParticipants, actor, sessionID, "")
	if err != nil {
		return nil, err
	}

	idx := session.TrainerIndex(actor.ID)
	if idx < 0 {
		return nil, NewPermissionError(actor.ID, "session", string(policy.ActionViewAssignedParticipants), "not assigned to this session")
	}

	slice := partitionSlice(session.ParticipantIDs, len(session.TrainerAssignments), idx)
	if len(slice) == 0 {
		return []*models.User{}, nil
	}
	return s.repo.User().GetByIDs(ctx, slice)
}

// partitionSlice computes the half-open range of participants owned by the
// trainer at position idx and returns those ids.
func partitionSlice(participantIDs []string, trainerCount, idx int) []string {
	n := len(participantIDs)
	if trainerCount <= 0 || idx < 0 || idx >= trainerCount {
		return nil
	}

	base := n / trainerCount
	rem := n % trainerCount

	start := idx*base + min(idx, rem)
	size := base
	if idx < rem {
		size++
	}
	return participantIDs[start : start+size]
}

// ===== STATUS ROLLUP =====

// GetStatus aggregates the session's access records into per-gate release
// flags and completion counts. A gate counts as released once any record has
// it open.
func (s *sessionService) GetStatus(ctx context.Context, sessionID string, actor *models.User) (*SessionStatusResponse, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewSessionStatus, actor, sessionID, "")
	if err != nil {
		return nil, err
	}

	records, err := s.repo.ParticipantAccess().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access records: %w", err)
	}

	status := &SessionStatusResponse{
		SessionID:         sessionID,
		SessionName:       session.Name,
		TotalParticipants: len(records),
	}
	for _, a := range records {
		status.PreTest.Released = status.PreTest.Released || a.CanAccessPreTest
		status.PostTest.Released = status.PostTest.Released || a.CanAccessPostTest
		status.Feedback.Released = status.Feedback.Released || a.CanAccessFeedback
		if a.PreTestCompleted {
			status.PreTest.Completed++
		}
		if a.PostTestCompleted {
			status.PostTest.Completed++
		}
		if a.FeedbackSubmitted {
			status.Feedback.Completed++
		}
	}
	return status, nil
}

// ===== RESULTS SUMMARY =====

// GetResultsSummary assembles the per-participant outcome grid for one
// session: latest test scores, completion flags, clock-out state and
// certificate, plus aggregate stats.
func (s *sessionService) GetResultsSummary(ctx context.Context, sessionID string, actor *models.User) (*ResultsSummaryResponse, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewResultsSummary, actor, sessionID, "")
	if err != nil {
		return nil, err
	}

	program, err := s.repo.Program().GetByID(ctx, session.ProgramID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	participants, err := s.repo.User().GetByIDs(ctx, session.ParticipantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	accessRecords, err := s.repo.ParticipantAccess().ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access records: %w", err)
	}
	accessByParticipant := make(map[string]*models.ParticipantAccess, len(accessRecords))
	for _, a := range accessRecords {
		accessByParticipant[a.ParticipantID] = a
	}

	stats := &repositories.SessionStats{ParticipantCount: len(participants)}
	rows := make([]*ParticipantResult, 0, len(participants))
	var preSum, postSum float64
	var preCount, postCount int

	for _, p := range participants {
		row := &ParticipantResult{
			ParticipantID: p.ID,
			FullName:      p.FullName,
			IDNumber:      p.IDNumber,
		}

		if pre, err := s.repo.TestResult().LatestByPair(ctx, p.ID, sessionID, models.TestPre); err != nil {
			return nil, fmt.Errorf("failed to load pre-test result: %w", err)
		} else if pre != nil {
			score := pre.Score
			row.PreTestScore = &score
			preSum += score
			preCount++
		}
		if post, err := s.repo.TestResult().LatestByPair(ctx, p.ID, sessionID, models.TestPost); err != nil {
			return nil, fmt.Errorf("failed to load post-test result: %w", err)
		} else if post != nil {
			score := post.Score
			passed := post.Passed
			row.PostTestScore = &score
			row.PostTestPassed = &passed
			postSum += score
			postCount++
		}

		if access, ok := accessByParticipant[p.ID]; ok {
			row.ChecklistDone = access.ChecklistSubmitted
			row.FeedbackDone = access.FeedbackSubmitted
			row.CertificateURL = access.CertificateURL

			if access.PreTestCompleted {
				stats.PreTestCompleted++
			}
			if access.PostTestCompleted {
				stats.PostTestCompleted++
			}
			if access.ChecklistSubmitted {
				stats.ChecklistCompleted++
			}
			if access.FeedbackSubmitted {
				stats.FeedbackSubmitted++
			}
			if access.CertificateURL != nil {
				stats.CertificatesIssued++
			}
		}

		clockedOut, err := s.repo.Attendance().HasClockOut(ctx, p.ID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check attendance: %w", err)
		}
		row.ClockedOut = clockedOut

		rows = append(rows, row)
	}

	if preCount > 0 {
		stats.AveragePreScore = preSum / float64(preCount)
	}
	if postCount > 0 {
		stats.AveragePostScore = postSum / float64(postCount)
	}

	resp := &ResultsSummaryResponse{
		SessionID:   session.ID,
		SessionName: session.Name,
		Rows:        rows,
		Stats:       stats,
	}
	if program != nil {
		resp.ProgramName = program.Name
	}
	return resp, nil
}

// ===== CHIEF COMMENTS =====

// SubmitChiefComments records the chief trainer's wrap-up. This is the one
// surface where the chief assignment still matters: regular trainers on the
// session are refused.
func (s *sessionService) SubmitChiefComments(ctx context.Context, sessionID string, req *ChiefCommentsRequest, actor *models.User) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	session, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	if !policy.IsChief(actorOf(actor), sessionTarget(session, "")) {
		return NewPermissionError(actor.ID, "session", "session.chief_comments", "chief trainer only")
	}

	now := time.Now()
	session.ChiefTrainerComments = &req.Comments
	session.ChiefTrainerID = &actor.ID
	session.ChiefTrainerName = &actor.FullName
	session.ChiefCommentsSubmittedAt = &now

	if err := s.repo.Session().Update(ctx, session); err != nil {
		return fmt.Errorf("failed to save chief comments: %w", err)
	}

	s.logger.Info("Chief comments submitted", "session_id", sessionID, "trainer_id", actor.ID)
	return nil
}

// ===== HELPERS =====

func (s *sessionService) toResponse(ctx context.Context, session *models.Session) *SessionResponse {
	resp := &SessionResponse{Session: session}
	if program, err := s.repo.Program().GetByID(ctx, session.ProgramID); err == nil {
		resp.ProgramName = program.Name
	}
	if company, err := s.repo.Company().GetByID(ctx, session.CompanyID); err == nil {
		resp.CompanyName = company.Name
	}
	return resp
}
