package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
)

func TestFeedbackService_SubmitHonorsGate(t *testing.T) {
	env := newTestEnv()
	svc := NewFeedbackService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	req := &SubmitFeedbackRequest{
		SessionID: "sess-1",
		Responses: []models.FeedbackResponse{{Question: "Overall?", Answer: "Great"}},
	}

	if _, err := svc.Submit(ctx, req, participant); !errors.Is(err, ErrGateClosed) {
		t.Errorf("got %v, want ErrGateClosed", err)
	}

	env.openGate("p1", "sess-1", models.GateFeedback)

	feedback, err := svc.Submit(ctx, req, participant)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if feedback.ProgramID != "prog-1" {
		t.Errorf("program id = %s, want prog-1", feedback.ProgramID)
	}

	access, _ := env.repo.access.GetByPair(ctx, "p1", "sess-1")
	if !access.FeedbackSubmitted {
		t.Error("feedback_submitted not set")
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventFeedbackSubmitted {
		t.Fatalf("expected one feedback event, got %d", len(published))
	}
}

func TestFeedbackService_ClosingGateKeepsCompletion(t *testing.T) {
	env := newTestEnv()
	svc := NewFeedbackService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})
	env.openGate("p1", "sess-1", models.GateFeedback)

	req := &SubmitFeedbackRequest{
		SessionID: "sess-1",
		Responses: []models.FeedbackResponse{{Question: "Overall?", Answer: "Great"}},
	}
	if _, err := svc.Submit(ctx, req, participant); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	// Closing the gate afterwards blocks new submissions but never rolls
	// the completion flag back.
	env.repo.access.SetGate(ctx, "p1", "sess-1", models.GateFeedback, false)

	if _, err := svc.Submit(ctx, req, participant); !errors.Is(err, ErrGateClosed) {
		t.Errorf("got %v, want ErrGateClosed", err)
	}
	access, _ := env.repo.access.GetByPair(ctx, "p1", "sess-1")
	if !access.FeedbackSubmitted {
		t.Error("completion flag rolled back by gate close")
	}
}

func TestFeedbackService_ListForSessionRoles(t *testing.T) {
	env := newTestEnv()
	svc := NewFeedbackService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	supervisor := env.addUser("sup-1", models.RolePICSupervisor)
	trainer := env.addUser("trainer-1", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{
		supervisors: []string{"sup-1"},
		trainers:    []models.TrainerAssignment{{TrainerID: trainer.ID, Role: models.TrainerChief}},
	})

	if _, err := svc.ListForSession(ctx, "sess-1", supervisor); err != nil {
		t.Errorf("supervisor error: %v", err)
	}
	if _, err := svc.ListForSession(ctx, "sess-1", trainer); !IsForbidden(err) {
		t.Errorf("trainer: got %v, want forbidden", err)
	}
}
