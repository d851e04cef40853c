package policy

import (
	"testing"

	"github.com/mddrc-dev/training-service/internal/models"
)

func TestEvaluate_RoleMatrix(t *testing.T) {
	coordinator := Actor{ID: "coor-1", Role: models.RoleCoordinator}
	otherCoordinator := Actor{ID: "coor-2", Role: models.RoleCoordinator}
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}
	assistant := Actor{ID: "asst-1", Role: models.RoleAssistantAdmin}
	trainer := Actor{ID: "tr-1", Role: models.RoleTrainer}
	supervisor := Actor{ID: "sup-1", Role: models.RolePICSupervisor}
	participant := Actor{ID: "par-1", Role: models.RoleParticipant}

	ownedSession := Target{SessionCoordinatorID: "coor-1"}

	tests := []struct {
		name    string
		action  Action
		actor   Actor
		target  Target
		allowed bool
	}{
		{"admin creates staff", ActionCreateStaff, admin, Target{}, true},
		{"coordinator creates staff denied", ActionCreateStaff, coordinator, Target{}, false},
		{"assistant admin creates participant", ActionCreateParticipant, assistant, Target{}, true},
		{"participant creates participant denied", ActionCreateParticipant, participant, Target{}, false},

		{"assistant admin excluded from user list", ActionViewUsers, assistant, Target{}, false},
		{"supervisor views user list", ActionViewUsers, supervisor, Target{}, true},

		{"admin updates any session", ActionUpdateSession, admin, Target{SessionCoordinatorID: "coor-9"}, true},
		{"owning coordinator updates session", ActionUpdateSession, coordinator, ownedSession, true},
		{"non-owning coordinator update denied", ActionUpdateSession, otherCoordinator, ownedSession, false},

		{"owning coordinator toggles access", ActionUpdateParticipantAccess, coordinator, ownedSession, true},
		{"non-owning coordinator toggle denied", ActionUpdateParticipantAccess, otherCoordinator, ownedSession, false},

		{"coordinator releases gate without ownership check", ActionReleaseGate, coordinator, Target{}, true},
		{"trainer releases gate denied", ActionReleaseGate, trainer, Target{}, false},

		{"participant submits own test", ActionSubmitTest, participant, Target{SubjectID: "par-1"}, true},
		{"participant submits for someone else denied", ActionSubmitTest, participant, Target{SubjectID: "par-2"}, false},
		{"trainer submits test denied", ActionSubmitTest, trainer, Target{SubjectID: "tr-1"}, false},

		{"assigned trainer views results summary", ActionViewResultsSummary, trainer,
			Target{TrainerAssignments: []models.TrainerAssignment{{TrainerID: "tr-1", Role: models.TrainerRegular}}}, true},
		{"unassigned trainer results summary denied", ActionViewResultsSummary, trainer,
			Target{TrainerAssignments: []models.TrainerAssignment{{TrainerID: "tr-9", Role: models.TrainerChief}}}, false},

		{"supervisor verifies checklist", ActionVerifyChecklist, supervisor, Target{}, true},
		{"trainer verifies checklist denied", ActionVerifyChecklist, trainer, Target{}, false},
		{"trainer submits trainer checklist", ActionSubmitTrainerChecklist, trainer, Target{}, true},

		{"assigned trainer views attendance", ActionViewAttendance, trainer,
			Target{TrainerAssignments: []models.TrainerAssignment{{TrainerID: "tr-1", Role: models.TrainerRegular}}}, true},
		{"participant views attendance denied", ActionViewAttendance, participant, Target{}, false},

		{"participant downloads own certificate", ActionDownloadCertificate, participant, Target{SubjectID: "par-1"}, true},
		{"participant downloads other certificate denied", ActionDownloadCertificate, participant, Target{SubjectID: "par-2"}, false},
		{"coordinator downloads certificate", ActionDownloadCertificate, coordinator, Target{}, true},

		{"unknown action denied", Action("does.not.exist"), admin, Target{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.action, tt.actor, tt.target)
			if tt.allowed && err != nil {
				t.Errorf("expected allow, got %v", err)
			}
			if !tt.allowed && err != ErrForbidden {
				t.Errorf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestEvaluate_UniformDenial(t *testing.T) {
	// Role-set rejection and predicate rejection must be indistinguishable.
	participant := Actor{ID: "par-1", Role: models.RoleParticipant}

	roleDenied := Evaluate(ActionCreateCompany, participant, Target{})
	predicateDenied := Evaluate(ActionSubmitTest, participant, Target{SubjectID: "other"})

	if roleDenied != predicateDenied {
		t.Errorf("denial signals differ: %v vs %v", roleDenied, predicateDenied)
	}
}

func TestIsChief(t *testing.T) {
	target := Target{TrainerAssignments: []models.TrainerAssignment{
		{TrainerID: "tr-1", Role: models.TrainerChief},
		{TrainerID: "tr-2", Role: models.TrainerRegular},
	}}

	if !IsChief(Actor{ID: "tr-1", Role: models.RoleTrainer}, target) {
		t.Error("chief assignment not recognized")
	}
	if IsChief(Actor{ID: "tr-2", Role: models.RoleTrainer}, target) {
		t.Error("regular trainer reported as chief")
	}
	if IsChief(Actor{ID: "tr-1", Role: models.RoleAdmin}, target) {
		t.Error("non-trainer role reported as chief")
	}
}
