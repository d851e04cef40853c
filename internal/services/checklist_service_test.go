package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

func checklistItems() []models.ChecklistItem {
	return []models.ChecklistItem{
		{Item: "Tyre tread depth", Checked: true},
		{Item: "Brake lights", Checked: true},
	}
}

func TestChecklistService_SubmitHonorsGate(t *testing.T) {
	env := newTestEnv()
	svc := NewChecklistService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	req := &SubmitChecklistRequest{SessionID: "sess-1", Interval: "morning", Items: checklistItems()}

	if _, err := svc.Submit(ctx, req, participant); !errors.Is(err, ErrGateClosed) {
		t.Fatalf("closed gate: got %v, want ErrGateClosed", err)
	}

	env.openGate("p1", "sess-1", models.GateChecklist)
	checklist, err := svc.Submit(ctx, req, participant)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if checklist.VerificationStatus != models.VerificationPending {
		t.Errorf("status = %s, want pending", checklist.VerificationStatus)
	}

	access, _ := env.repo.access.GetOrCreate(ctx, "p1", "sess-1")
	if !access.ChecklistSubmitted {
		t.Error("checklist completion flag not set")
	}
}

func TestChecklistService_TrainerSubmitAndChiefComments(t *testing.T) {
	env := newTestEnv()
	svc := NewChecklistService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	env.addUser("p1", models.RoleParticipant)
	chief := env.addUser("t1", models.RoleTrainer)
	regular := env.addUser("t2", models.RoleTrainer)
	outsider := env.addUser("t3", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{
		participants: []string{"p1"},
		trainers: []models.TrainerAssignment{
			{TrainerID: "t1", Role: models.TrainerChief},
			{TrainerID: "t2", Role: models.TrainerRegular},
		},
	})

	req := &TrainerChecklistRequest{SessionID: "sess-1", ParticipantID: "p1", Items: checklistItems()}

	if _, err := svc.SubmitTrainerChecklist(ctx, req, outsider); !IsForbidden(err) {
		t.Errorf("unassigned trainer: got %v, want forbidden", err)
	}

	checklist, err := svc.SubmitTrainerChecklist(ctx, req, regular)
	if err != nil {
		t.Fatalf("regular trainer submit: %v", err)
	}
	if checklist.Interval != TrainerInspectionInterval {
		t.Errorf("interval = %s, want %s", checklist.Interval, TrainerInspectionInterval)
	}

	// Chief comments are rejected for a regular trainer and stored for
	// the chief.
	comments := "Group handled wet braking well"
	withComments := &TrainerChecklistRequest{
		SessionID: "sess-1", ParticipantID: "p1",
		Items: checklistItems(), ChiefComments: &comments,
	}
	if _, err := svc.SubmitTrainerChecklist(ctx, withComments, regular); !IsForbidden(err) {
		t.Errorf("regular trainer chief comments: got %v, want forbidden", err)
	}
	if _, err := svc.SubmitTrainerChecklist(ctx, withComments, chief); err != nil {
		t.Fatalf("chief submit: %v", err)
	}

	session, _ := env.repo.sessions.GetByID(ctx, "sess-1")
	if session.ChiefTrainerComments == nil || *session.ChiefTrainerComments != comments {
		t.Error("chief comments not stored on session")
	}
	if session.ChiefTrainerID == nil || *session.ChiefTrainerID != "t1" {
		t.Error("chief trainer id not stored")
	}
}

func TestChecklistService_VerifyRequiresAssignedSupervisor(t *testing.T) {
	env := newTestEnv()
	svc := NewChecklistService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	supervisor := env.addUser("sup-1", models.RolePICSupervisor)
	stranger := env.addUser("sup-2", models.RolePICSupervisor)
	env.addSession("sess-1", "prog-1", sessionOpts{
		participants: []string{"p1"},
		supervisors:  []string{"sup-1"},
	})
	env.openGate("p1", "sess-1", models.GateChecklist)

	checklist, err := svc.Submit(ctx, &SubmitChecklistRequest{
		SessionID: "sess-1", Interval: "morning", Items: checklistItems(),
	}, participant)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	verdict := &VerifyChecklistRequest{Status: "completed"}

	if err := svc.Verify(ctx, checklist.ID, verdict, stranger); !IsForbidden(err) {
		t.Errorf("unassigned supervisor: got %v, want forbidden", err)
	}
	if err := svc.Verify(ctx, checklist.ID, verdict, participant); !IsForbidden(err) {
		t.Errorf("participant verifying: got %v, want forbidden", err)
	}

	if err := svc.Verify(ctx, checklist.ID, verdict, supervisor); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	stored, _ := env.repo.checklists.GetByID(ctx, checklist.ID)
	if stored.VerificationStatus != models.VerificationCompleted {
		t.Errorf("status = %s, want completed", stored.VerificationStatus)
	}
	if stored.VerifiedBy == nil || *stored.VerifiedBy != "sup-1" {
		t.Error("verifier not recorded")
	}

	// Missing checklists still answer Forbidden to roles that could not
	// verify anything.
	if err := svc.Verify(ctx, "missing", verdict, participant); !IsForbidden(err) {
		t.Errorf("missing id as participant: got %v, want forbidden", err)
	}
	if err := svc.Verify(ctx, "missing", verdict, supervisor); !errors.Is(err, ErrChecklistNotFound) {
		t.Errorf("missing id as supervisor: got %v, want ErrChecklistNotFound", err)
	}
}

func TestChecklistService_ListScopedByRole(t *testing.T) {
	env := newTestEnv()
	svc := NewChecklistService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	trainer := env.addUser("t1", models.RoleTrainer)
	env.addSession("sess-1", "prog-1", sessionOpts{
		participants: []string{"p1"},
		trainers:     []models.TrainerAssignment{{TrainerID: "t1", Role: models.TrainerChief}},
	})
	env.openGate("p1", "sess-1", models.GateChecklist)

	if _, err := svc.Submit(ctx, &SubmitChecklistRequest{
		SessionID: "sess-1", Interval: "morning", Items: checklistItems(),
	}, participant); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	checklists, total, err := svc.ListForSession(ctx, "sess-1", repositories.ChecklistFilters{}, trainer)
	if err != nil {
		t.Fatalf("ListForSession error: %v", err)
	}
	if total != 1 || len(checklists) != 1 {
		t.Errorf("got %d checklists, want 1", len(checklists))
	}

	if _, _, err := svc.ListForSession(ctx, "sess-1", repositories.ChecklistFilters{}, participant); !IsForbidden(err) {
		t.Errorf("participant listing: got %v, want forbidden", err)
	}
}

func TestChecklistService_VehicleDetailsUpsert(t *testing.T) {
	env := newTestEnv()
	svc := NewChecklistService(env.repo, env.publisher, env.logger, env.validator)
	ctx := context.Background()

	env.addProgram("prog-1", 70)
	participant := env.addUser("p1", models.RoleParticipant)
	other := env.addUser("p2", models.RoleParticipant)
	env.addSession("sess-1", "prog-1", sessionOpts{participants: []string{"p1"}})

	req := &VehicleDetailsRequest{
		SessionID:          "sess-1",
		VehicleModel:       "Yamaha LC135",
		RegistrationNumber: "WXY 1234",
		RoadtaxExpiry:      "2027-01-31",
	}
	if _, err := svc.SubmitVehicleDetails(ctx, req, participant); err != nil {
		t.Fatalf("SubmitVehicleDetails error: %v", err)
	}

	req.RegistrationNumber = "WXY 5678"
	if _, err := svc.SubmitVehicleDetails(ctx, req, participant); err != nil {
		t.Fatalf("resubmit error: %v", err)
	}

	details, err := svc.GetVehicleDetails(ctx, "sess-1", "p1", participant)
	if err != nil {
		t.Fatalf("GetVehicleDetails error: %v", err)
	}
	if details.RegistrationNumber != "WXY 5678" {
		t.Errorf("registration = %s, want the resubmitted value", details.RegistrationNumber)
	}

	if _, err := svc.GetVehicleDetails(ctx, "sess-1", "p1", other); !IsForbidden(err) {
		t.Errorf("other participant reading: got %v, want forbidden", err)
	}
}
