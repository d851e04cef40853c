package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/models"
)

func TestPartitionSlice(t *testing.T) {
	participants := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}

	tests := []struct {
		name         string
		trainerCount int
		idx          int
		want         []string
	}{
		{name: "first trainer takes the extra", trainerCount: 3, idx: 0, want: []string{"p1", "p2", "p3"}},
		{name: "second trainer", trainerCount: 3, idx: 1, want: []string{"p4", "p5"}},
		{name: "third trainer", trainerCount: 3, idx: 2, want: []string{"p6", "p7"}},
		{name: "single trainer takes everyone", trainerCount: 1, idx: 0, want: participants},
		{name: "more trainers than participants", trainerCount: 10, idx: 8, want: []string{}},
		{name: "index out of range", trainerCount: 3, idx: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := partitionSlice(participants, tt.trainerCount, tt.idx)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("partitionSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartitionSlice_CoversEveryParticipantOnce(t *testing.T) {
	participants := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}

	for trainerCount := 1; trainerCount <= 5; trainerCount++ {
		seen := map[string]int{}
		for idx := 0; idx < trainerCount; idx++ {
			for _, p := range partitionSlice(participants, trainerCount, idx) {
				seen[p]++
			}
		}
		if len(seen) != len(participants) {
			t.Fatalf("trainerCount=%d: covered %d participants, want %d", trainerCount, len(seen), len(participants))
		}
		for p, n := range seen {
			if n != 1 {
				t.Fatalf("trainerCount=%d: participant %s assigned %d times", trainerCount, p, n)
			}
		}
	}
}

func TestSessionService_GetAssignedParticipants(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	trainerA := env.addUser("trainer-a", models.RoleTrainer)
	trainerB := env.addUser("trainer-b", models.RoleTrainer)
	var participantIDs []string
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		env.addUser(id, models.RoleParticipant)
		participantIDs = append(participantIDs, id)
	}

	env.addSession("sess-1", "prog-1", sessionOpts{
		participants: participantIDs,
		trainers: []models.TrainerAssignment{
			{TrainerID: trainerA.ID, Role: models.TrainerChief},
			{TrainerID: trainerB.ID, Role: models.TrainerRegular},
		},
	})

	sliceA, err := svc.GetAssignedParticipants(ctx, "sess-1", trainerA)
	if err != nil {
		t.Fatalf("GetAssignedParticipants(trainerA) error: %v", err)
	}
	if len(sliceA) != 3 {
		t.Errorf("trainerA slice = %d participants, want 3", len(sliceA))
	}

	sliceB, err := svc.GetAssignedParticipants(ctx, "sess-1", trainerB)
	if err != nil {
		t.Fatalf("GetAssignedParticipants(trainerB) error: %v", err)
	}
	if len(sliceB) != 2 {
		t.Errorf("trainerB slice = %d participants, want 2", len(sliceB))
	}

	outsider := env.addUser("trainer-c", models.RoleTrainer)
	if _, err := svc.GetAssignedParticipants(ctx, "sess-1", outsider); !IsForbidden(err) {
		t.Errorf("unassigned trainer: got %v, want forbidden", err)
	}
}

func TestSessionService_UpdateOwnership(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	owner := env.addUser("coord-1", models.RoleCoordinator)
	other := env.addUser("coord-2", models.RoleCoordinator)
	env.addSession("sess-1", "prog-1", sessionOpts{coordinatorID: owner.ID})

	name := "Renamed"
	if _, err := svc.Update(ctx, "sess-1", &UpdateSessionRequest{Name: &name}, owner); err != nil {
		t.Fatalf("owning coordinator update error: %v", err)
	}

	if _, err := svc.Update(ctx, "sess-1", &UpdateSessionRequest{Name: &name}, other); !IsForbidden(err) {
		t.Errorf("non-owning coordinator: got %v, want forbidden", err)
	}
}

func TestSessionService_ToggleStatusPublishesEvent(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{})

	session, err := svc.ToggleStatus(ctx, "sess-1", admin)
	if err != nil {
		t.Fatalf("ToggleStatus error: %v", err)
	}
	if session.Status != models.SessionInactive {
		t.Errorf("status = %s, want inactive", session.Status)
	}

	published := env.publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	if published[0].Type != events.EventSessionStatusChanged {
		t.Errorf("event type = %s, want %s", published[0].Type, events.EventSessionStatusChanged)
	}

	// Toggling again flips back.
	session, err = svc.ToggleStatus(ctx, "sess-1", admin)
	if err != nil {
		t.Fatalf("second ToggleStatus error: %v", err)
	}
	if session.Status != models.SessionActive {
		t.Errorf("status = %s, want active", session.Status)
	}
}

func TestSessionService_ListMineScopesParticipants(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-active", "prog-1", sessionOpts{participants: []string{"p1"}})
	env.addSession("sess-inactive", "prog-1", sessionOpts{participants: []string{"p1"}, status: models.SessionInactive})
	env.addSession("sess-other", "prog-1", sessionOpts{participants: []string{"p2"}})

	sessions, err := svc.ListMine(ctx, participant)
	if err != nil {
		t.Fatalf("ListMine error: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "sess-active" {
		t.Fatalf("ListMine = %d sessions, want only sess-active", len(sessions))
	}

	// Referencing the session created the access record lazily.
	if _, err := env.repo.access.GetByPair(ctx, "p1", "sess-active"); err != nil {
		t.Errorf("access record not created: %v", err)
	}
}

func TestSessionService_SubmitChiefComments(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	chief := env.addUser("trainer-chief", models.RoleTrainer)
	regular := env.addUser("trainer-reg", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{
		trainers: []models.TrainerAssignment{
			{TrainerID: chief.ID, Role: models.TrainerChief},
			{TrainerID: regular.ID, Role: models.TrainerRegular},
		},
	})

	req := &ChiefCommentsRequest{Comments: "Good cohort overall."}

	if err := svc.SubmitChiefComments(ctx, "sess-1", req, regular); !IsForbidden(err) {
		t.Errorf("regular trainer: got %v, want forbidden", err)
	}

	if err := svc.SubmitChiefComments(ctx, "sess-1", req, chief); err != nil {
		t.Fatalf("chief trainer error: %v", err)
	}

	session, _ := env.repo.sessions.GetByID(ctx, "sess-1")
	if session.ChiefTrainerComments == nil || *session.ChiefTrainerComments != req.Comments {
		t.Error("chief comments not stored")
	}
	if session.ChiefTrainerID == nil || *session.ChiefTrainerID != chief.ID {
		t.Error("chief trainer id not stored")
	}
}

func TestSessionService_DeleteCascadesAccessRecords(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1", "p2"}})
	env.repo.access.GetOrCreate(ctx, "p1", "sess-1")
	env.repo.access.GetOrCreate(ctx, "p2", "sess-1")

	if err := svc.Delete(ctx, "sess-1", admin); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := env.repo.sessions.GetByID(ctx, "sess-1"); err == nil {
		t.Error("session still present after delete")
	}
	records, _ := env.repo.access.ListBySession(ctx, "sess-1")
	if len(records) != 0 {
		t.Errorf("access records remaining: %d", len(records))
	}
}

func TestSessionService_AuthorizationBeforeExistence(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	participant := env.addUser("p1", models.RoleParticipant)

	// A role that could never delete gets forbidden, not not-found, for a
	// missing session.
	err := svc.Delete(ctx, "no-such-session", participant)
	if !IsForbidden(err) {
		t.Errorf("got %v, want forbidden", err)
	}

	admin := env.addUser("admin-1", models.RoleAdmin)
	err = svc.Delete(ctx, "no-such-session", admin)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestSessionService_GetStatusRollup(t *testing.T) {
	env := newTestEnv()
	svc := NewSessionService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	admin := env.addUser("admin-1", models.RoleAdmin)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addUser("p2", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1", "p2"}})

	env.openGate("p1", "sess-1", models.GatePreTest)
	env.openGate("p2", "sess-1", models.GatePreTest)
	access, _ := env.repo.access.GetOrCreate(ctx, "p1", "sess-1")
	access.PreTestCompleted = true
	access.FeedbackSubmitted = true

	status, err := svc.GetStatus(ctx, "sess-1", admin)
	if err != nil {
		t.Fatalf("GetStatus error: %v", err)
	}
	if status.TotalParticipants != 2 {
		t.Errorf("total = %d, want 2", status.TotalParticipants)
	}
	if !status.PreTest.Released || status.PreTest.Completed != 1 {
		t.Errorf("pre_test = %+v, want released with 1 completed", status.PreTest)
	}
	if status.PostTest.Released || status.PostTest.Completed != 0 {
		t.Errorf("post_test = %+v, want untouched", status.PostTest)
	}
	if status.Feedback.Released || status.Feedback.Completed != 1 {
		t.Errorf("feedback = %+v, want 1 submission behind a closed gate", status.Feedback)
	}

	if _, err := svc.GetStatus(ctx, "sess-1", participant); !IsForbidden(err) {
		t.Errorf("participant: got %v, want forbidden", err)
	}
}
