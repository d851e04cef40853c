package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type testService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTestService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) TestService {
	return &testService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== TEMPLATE MANAGEMENT =====

// CreateTest replaces the program's existing test of the same type when one
// exists: each program carries at most one pre and one post test.
func (s *testService) CreateTest(ctx context.Context, req *CreateTestRequest, actor *models.User) (*models.Test, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateTest, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "test", string(policy.ActionCreateTest), "role check failed")
	}

	if _, err := s.repo.Program().GetByID(ctx, req.ProgramID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	for i, q := range req.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("question %d: correct answer index out of range", i+1)
		}
	}

	testType := models.TestType(req.TestType)

	existing, err := s.repo.Test().GetByProgramAndType(ctx, req.ProgramID, testType)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up existing test: %w", err)
	}

	if existing != nil {
		existing.Questions = datatypes.NewJSONSlice(req.Questions)
		if err := s.repo.Test().Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update test: %w", err)
		}
		s.logger.Info("Test replaced", "test_id", existing.ID, "program_id", req.ProgramID, "test_type", testType)
		return existing, nil
	}

	test := &models.Test{
		ID:        uuid.New().String(),
		ProgramID: req.ProgramID,
		TestType:  testType,
		Questions: datatypes.NewJSONSlice(req.Questions),
	}
	if err := s.repo.Test().Create(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	s.logger.Info("Test created", "test_id", test.ID, "program_id", req.ProgramID, "test_type", testType)
	return test, nil
}

func (s *testService) DeleteTest(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteTest, actorOf(actor), policy.Target{}); err != nil {
		return NewPermissionError(actor.ID, "test", string(policy.ActionDeleteTest), "role check failed")
	}

	if _, err := s.repo.Test().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to load test: %w", err)
	}
	if err := s.repo.Test().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}

	s.logger.Info("Test deleted", "test_id", id, "deleted_by", actor.ID)
	return nil
}

// ===== DELIVERY =====

// GetTestForParticipant hands the participant their test with correct
// answers stripped and questions shuffled. The shuffle order travels back
// with the submission so scoring can map answers to the stored questions.
func (s *testService) GetTestForParticipant(ctx context.Context, sessionID string, testType models.TestType, actor *models.User) (*TestForParticipant, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitTest, actor, sessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	if err := s.requireGateOpen(ctx, actor.ID, sessionID, testType); err != nil {
		return nil, err
	}

	test, err := s.repo.Test().GetByProgramAndType(ctx, session.ProgramID, testType)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to load test: %w", err)
	}

	indices := rand.Perm(len(test.Questions))
	questions := make([]models.TestQuestion, len(indices))
	for pos, orig := range indices {
		q := test.Questions[orig]
		q.CorrectAnswer = 0 // stripped
		questions[pos] = q
	}

	return &TestForParticipant{
		TestID:          test.ID,
		TestType:        test.TestType,
		Questions:       questions,
		QuestionIndices: indices,
	}, nil
}

// ===== SUBMISSION =====

// SubmitTest scores a submission against the stored questions and records
// an immutable history row. Repeated submissions append further rows; the
// access record's completion flag only ever moves to true.
func (s *testService) SubmitTest(ctx context.Context, req *SubmitTestRequest, actor *models.User) (*TestResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := authorizeSession(ctx, s.repo, policy.ActionSubmitTest, actor, req.SessionID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, actor.ID); err != nil {
		return nil, err
	}

	testType := models.TestType(req.TestType)
	if err := s.requireGateOpen(ctx, actor.ID, req.SessionID, testType); err != nil {
		return nil, err
	}

	test, err := s.repo.Test().GetByProgramAndType(ctx, session.ProgramID, testType)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to load test: %w", err)
	}
	program, err := s.repo.Program().GetByID(ctx, session.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	total := len(test.Questions)
	if len(req.Answers) != total {
		return nil, ErrAnswerCountWrong
	}

	order := req.QuestionIndices
	if len(order) == 0 {
		order = identityOrder(total)
	}
	if !isPermutation(order, total) {
		return nil, ErrBadQuestionOrder
	}

	correct := 0
	for pos, orig := range order {
		if req.Answers[pos] == test.Questions[orig].CorrectAnswer {
			correct++
		}
	}

	score := 0.0
	if total > 0 {
		score = math.Round(float64(correct)/float64(total)*10000) / 100
	}
	passed := score >= program.PassPercentage

	result := &models.TestResult{
		ID:              uuid.New().String(),
		TestID:          test.ID,
		ParticipantID:   actor.ID,
		SessionID:       req.SessionID,
		TestType:        testType,
		Answers:         datatypes.NewJSONSlice(req.Answers),
		Score:           score,
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		Passed:          passed,
		QuestionIndices: datatypes.NewJSONSlice(order),
		SubmittedAt:     time.Now(),
	}

	gate := models.GatePreTest
	if testType == models.TestPost {
		gate = models.GatePostTest
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.TestResult().Create(ctx, result); err != nil {
			return fmt.Errorf("failed to store result: %w", err)
		}
		if err := tx.ParticipantAccess().SetCompletion(ctx, actor.ID, req.SessionID, gate, true); err != nil {
			return fmt.Errorf("failed to mark completion: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.SafePublish(ctx, s.publisher, events.NewEvent(events.EventTestSubmitted, events.TestSubmittedEvent{
		SessionID:     req.SessionID,
		ParticipantID: actor.ID,
		TestType:      string(testType),
		Score:         score,
		Passed:        passed,
	}), s.logger)

	s.logger.Info("Test submitted",
		"session_id", req.SessionID,
		"participant_id", actor.ID,
		"test_type", testType,
		"score", score,
		"passed", passed)

	return &TestResultResponse{TestResult: result, PassPercentage: program.PassPercentage}, nil
}

// GetResults returns a participant's full submission history for a session.
func (s *testService) GetResults(ctx context.Context, sessionID, participantID string, actor *models.User) ([]*models.TestResult, error) {
	session, err := authorizeSession(ctx, s.repo, policy.ActionViewResults, actor, sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if err := requireEnrolled(session, participantID); err != nil {
		return nil, err
	}

	return s.repo.TestResult().ListByPair(ctx, participantID, sessionID)
}

// ===== HELPERS =====

func (s *testService) requireGateOpen(ctx context.Context, participantID, sessionID string, testType models.TestType) error {
	gate := models.GatePreTest
	if testType == models.TestPost {
		gate = models.GatePostTest
	}

	access, err := s.repo.ParticipantAccess().GetOrCreate(ctx, participantID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load access record: %w", err)
	}
	if !access.GateOpen(gate) {
		return ErrGateClosed
	}
	return nil
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
