package services

import (
	"context"
	"io"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type testEnv struct {
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		repo:      newFakeRepository(),
		publisher: events.NewMockEventPublisher(logger),
		logger:    logger,
		validator: validator.New(),
	}
}

func (e *testEnv) addUser(id string, role models.UserRole) *models.User {
	user := &models.User{
		ID:       id,
		Email:    id + "@example.com",
		FullName: "User " + id,
		IDNumber: "ID-" + id,
		Role:     role,
		IsActive: true,
	}
	e.repo.users.byID[id] = user
	return user
}

func (e *testEnv) addProgram(id string, passPercentage float64) *models.Program {
	program := &models.Program{ID: id, Name: "Program " + id, PassPercentage: passPercentage}
	e.repo.programs.byID[id] = program
	return program
}

type sessionOpts struct {
	coordinatorID string
	participants  []string
	supervisors   []string
	trainers      []models.TrainerAssignment
	status        models.SessionStatus
}

func (e *testEnv) addSession(id, programID string, opts sessionOpts) *models.Session {
	status := opts.status
	if status == "" {
		status = models.SessionActive
	}
	session := &models.Session{
		ID:                 id,
		Name:               "Session " + id,
		ProgramID:          programID,
		CompanyID:          "company-1",
		Location:           "Test Track",
		StartDate:          "2026-09-01",
		EndDate:            "2026-09-03",
		Status:             status,
		ParticipantIDs:     datatypes.NewJSONSlice(opts.participants),
		SupervisorIDs:      datatypes.NewJSONSlice(opts.supervisors),
		TrainerAssignments: datatypes.NewJSONSlice(opts.trainers),
	}
	if opts.coordinatorID != "" {
		session.CoordinatorID = &opts.coordinatorID
	}
	e.repo.sessions.byID[id] = session
	return session
}

func (e *testEnv) openGate(participantID, sessionID string, gate models.AccessGate) {
	access, _ := e.repo.access.GetOrCreate(context.Background(), participantID, sessionID)
	access.SetGate(gate, true)
}
