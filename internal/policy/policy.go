// Package policy is the single decision point for role-based access. Every
// mutating or sensitive-read operation names an Action here; handlers and
// services never compare role strings inline.
package policy

import (
	"errors"

	"github.com/mddrc-dev/training-service/internal/models"
)

// ErrForbidden is the uniform denial. Callers never learn whether the static
// role set or the ownership predicate rejected them.
var ErrForbidden = errors.New("forbidden")

// Action identifies one guarded operation.
type Action string

const (
	ActionCreateParticipant Action = "user.create_participant"
	ActionCreateStaff       Action = "user.create_staff"
	ActionDeleteUser        Action = "user.delete"
	ActionViewUsers         Action = "user.view_all"

	ActionCreateCompany Action = "company.create"
	ActionUpdateCompany Action = "company.update"
	ActionDeleteCompany Action = "company.delete"

	ActionCreateProgram Action = "program.create"
	ActionUpdateProgram Action = "program.update"
	ActionDeleteProgram Action = "program.delete"

	ActionCreateSession           Action = "session.create"
	ActionUpdateSession           Action = "session.update"
	ActionDeleteSession           Action = "session.delete"
	ActionToggleSessionStatus     Action = "session.toggle_status"
	ActionViewSessionParticipants Action = "session.view_participants"
	ActionViewSessionStatus       Action = "session.view_status"
	ActionViewResultsSummary      Action = "session.view_results_summary"
	ActionExportResults           Action = "session.export_results"

	ActionCreateTest  Action = "test.create"
	ActionDeleteTest  Action = "test.delete"
	ActionSubmitTest  Action = "test.submit"
	ActionViewResults Action = "test.view_results"

	ActionCreateChecklistTemplate Action = "checklist_template.create"
	ActionUpdateChecklistTemplate Action = "checklist_template.update"
	ActionDeleteChecklistTemplate Action = "checklist_template.delete"

	ActionCreateFeedbackTemplate Action = "feedback_template.create"
	ActionDeleteFeedbackTemplate Action = "feedback_template.delete"

	ActionUpdateParticipantAccess Action = "access.update"
	ActionViewParticipantAccess   Action = "access.view"
	ActionViewOwnAccess           Action = "access.view_own"
	ActionReleaseGate             Action = "access.release"

	ActionSubmitChecklist          Action = "checklist.submit"
	ActionSubmitTrainerChecklist   Action = "checklist.trainer_submit"
	ActionVerifyChecklist          Action = "checklist.verify"
	ActionViewAssignedParticipants Action = "checklist.view_assigned"

	ActionSubmitFeedback      Action = "feedback.submit"
	ActionViewSessionFeedback Action = "feedback.view_session"

	ActionSubmitVehicleDetails Action = "vehicle.submit_details"

	ActionClockIn        Action = "attendance.clock_in"
	ActionClockOut       Action = "attendance.clock_out"
	ActionViewAttendance Action = "attendance.view_session"

	ActionUploadCertificate   Action = "certificate.upload"
	ActionCheckEligibility    Action = "certificate.check_eligibility"
	ActionDownloadCertificate Action = "certificate.download"
	ActionViewCertificateRepo Action = "certificate.view_repository"

	ActionCreateReport   Action = "report.create"
	ActionViewReport     Action = "report.view"
	ActionViewAllReports Action = "report.view_all"
)

// Target carries the ownership facts a predicate may consult. Only the
// fields relevant to the action need to be populated; the zero value is a
// target with no ownership relations.
type Target struct {
	// SessionCoordinatorID is the owning coordinator of the targeted
	// session, empty when the session has none or is irrelevant.
	SessionCoordinatorID string

	// TrainerAssignments is the targeted session's ordered assignment list.
	TrainerAssignments []models.TrainerAssignment

	// SubjectID is the user the operation acts upon (the participant whose
	// record is read, the submitter of an artifact).
	SubjectID string
}

// Actor is the authenticated principal.
type Actor struct {
	ID   string
	Role models.UserRole
}

// ownershipPredicate grants access from a relation between actor and target
// rather than from role membership alone.
type ownershipPredicate func(a Actor, t Target) bool

func isSessionCoordinator(a Actor, t Target) bool {
	return a.Role == models.RoleCoordinator &&
		t.SessionCoordinatorID != "" &&
		t.SessionCoordinatorID == a.ID
}

func isSelf(a Actor, t Target) bool {
	return t.SubjectID != "" && t.SubjectID == a.ID
}

func isAssignedTrainer(a Actor, t Target) bool {
	if a.Role != models.RoleTrainer {
		return false
	}
	for _, ta := range t.TrainerAssignments {
		if ta.TrainerID == a.ID {
			return true
		}
	}
	return false
}

func isChiefTrainer(a Actor, t Target) bool {
	if a.Role != models.RoleTrainer {
		return false
	}
	for _, ta := range t.TrainerAssignments {
		if ta.TrainerID == a.ID && ta.Role == models.TrainerChief {
			return true
		}
	}
	return false
}

// rule pairs a static allowed-role set with an optional dynamic predicate.
// Membership in the role set grants access outright unless ownerOnly marks
// the role as needing the predicate to hold as well.
type rule struct {
	roles     []models.UserRole
	predicate ownershipPredicate

	// ownerOnly lists roles from the static set that additionally require
	// the predicate (the "coordinator only if owning" caveat).
	ownerOnly []models.UserRole
}

func (r rule) allows(a Actor, t Target) bool {
	inSet := false
	for _, role := range r.roles {
		if a.Role == role {
			inSet = true
			break
		}
	}

	if inSet {
		for _, role := range r.ownerOnly {
			if a.Role == role {
				return r.predicate != nil && r.predicate(a, t)
			}
		}
		return true
	}

	// Outside the static set the predicate may still independently grant.
	return r.predicate != nil && r.predicate(a, t)
}

var rules = map[Action]rule{
	ActionCreateParticipant: {roles: []models.UserRole{models.RoleAdmin, models.RoleCoordinator, models.RoleAssistantAdmin}},
	ActionCreateStaff:       {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteUser:        {roles: []models.UserRole{models.RoleAdmin}},

	// assistant_admin cannot browse the directory.
	ActionViewUsers: {roles: []models.UserRole{models.RoleAdmin, models.RolePICSupervisor, models.RoleCoordinator}},

	ActionCreateCompany: {roles: []models.UserRole{models.RoleAdmin}},
	ActionUpdateCompany: {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteCompany: {roles: []models.UserRole{models.RoleAdmin}},

	ActionCreateProgram: {roles: []models.UserRole{models.RoleAdmin}},
	ActionUpdateProgram: {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteProgram: {roles: []models.UserRole{models.RoleAdmin}},

	ActionCreateSession:       {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteSession:       {roles: []models.UserRole{models.RoleAdmin}},
	ActionToggleSessionStatus: {roles: []models.UserRole{models.RoleAdmin}},
	ActionUpdateSession: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		ownerOnly: []models.UserRole{models.RoleCoordinator},
		predicate: isSessionCoordinator,
	},
	ActionViewSessionParticipants: {roles: []models.UserRole{models.RoleAdmin}},
	ActionViewSessionStatus:       {roles: []models.UserRole{models.RoleAdmin, models.RoleCoordinator, models.RoleTrainer}},

	// Widened once for all assigned trainers; the historic chief-only rule
	// survives solely in chief comment submission (see services).
	ActionViewResultsSummary: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		predicate: isAssignedTrainer,
	},
	ActionExportResults: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		predicate: isAssignedTrainer,
	},

	ActionCreateTest: {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteTest: {roles: []models.UserRole{models.RoleAdmin}},
	ActionSubmitTest: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},
	ActionViewResults: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		predicate: isSelf,
	},

	ActionCreateChecklistTemplate: {roles: []models.UserRole{models.RoleAdmin}},
	ActionUpdateChecklistTemplate: {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteChecklistTemplate: {roles: []models.UserRole{models.RoleAdmin}},

	ActionCreateFeedbackTemplate: {roles: []models.UserRole{models.RoleAdmin}},
	ActionDeleteFeedbackTemplate: {roles: []models.UserRole{models.RoleAdmin}},

	ActionUpdateParticipantAccess: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		ownerOnly: []models.UserRole{models.RoleCoordinator},
		predicate: isSessionCoordinator,
	},
	ActionViewParticipantAccess: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		ownerOnly: []models.UserRole{models.RoleCoordinator},
		predicate: isSessionCoordinator,
	},
	ActionViewOwnAccess: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},
	ActionReleaseGate: {roles: []models.UserRole{models.RoleAdmin, models.RoleCoordinator}},

	ActionSubmitChecklist: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},
	ActionSubmitTrainerChecklist:   {roles: []models.UserRole{models.RoleTrainer}},
	ActionVerifyChecklist:          {roles: []models.UserRole{models.RolePICSupervisor, models.RoleAdmin}},
	ActionViewAssignedParticipants: {roles: []models.UserRole{models.RoleTrainer}},

	ActionSubmitFeedback: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},
	ActionViewSessionFeedback: {roles: []models.UserRole{models.RoleAdmin, models.RolePICSupervisor, models.RoleCoordinator}},

	ActionSubmitVehicleDetails: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},

	ActionClockIn: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},
	ActionClockOut: {
		roles:     []models.UserRole{models.RoleParticipant},
		ownerOnly: []models.UserRole{models.RoleParticipant},
		predicate: isSelf,
	},

	// Widened alongside results summary: assigned trainers included.
	ActionViewAttendance: {
		roles:     []models.UserRole{models.RolePICSupervisor, models.RoleCoordinator, models.RoleAdmin},
		predicate: isAssignedTrainer,
	},

	ActionUploadCertificate: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		ownerOnly: []models.UserRole{models.RoleCoordinator},
		predicate: isSessionCoordinator,
	},
	ActionCheckEligibility: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		predicate: isSelf,
	},
	ActionDownloadCertificate: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		predicate: isSelf,
	},
	ActionViewCertificateRepo: {roles: []models.UserRole{models.RoleAdmin}},

	ActionCreateReport: {
		roles:     []models.UserRole{models.RoleAdmin, models.RoleCoordinator},
		ownerOnly: []models.UserRole{models.RoleCoordinator},
		predicate: isSessionCoordinator,
	},
	ActionViewReport: {
		roles:     []models.UserRole{models.RoleAdmin},
		predicate: isSessionCoordinator,
	},
	ActionViewAllReports: {roles: []models.UserRole{models.RoleAdmin}},
}

// Evaluate decides ALLOW or DENY for one operation. It is a pure function of
// the action, the actor's role and id, and the target's ownership facts:
// repeated evaluation with unchanged inputs yields the same decision.
//
// Authorization is always evaluated before any existence lookup so that a
// denied caller cannot distinguish "missing" from "present but off-limits".
func Evaluate(action Action, actor Actor, target Target) error {
	r, ok := rules[action]
	if !ok {
		return ErrForbidden
	}
	if !r.allows(actor, target) {
		return ErrForbidden
	}
	return nil
}

// Allowed is a convenience wrapper for boolean checks.
func Allowed(action Action, actor Actor, target Target) bool {
	return Evaluate(action, actor, target) == nil
}

// IsChief reports whether the actor holds the chief assignment in the
// target session. Not part of the rule table: chief status gates behavior
// inside an already-authorized operation.
func IsChief(actor Actor, target Target) bool {
	return isChiefTrainer(actor, target)
}
