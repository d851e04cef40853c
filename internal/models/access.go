package models

import (
	"time"
)

// AccessGate names one of the four per-participant feature gates.
type AccessGate string

const (
	GatePreTest   AccessGate = "pre_test"
	GatePostTest  AccessGate = "post_test"
	GateChecklist AccessGate = "checklist"
	GateFeedback  AccessGate = "feedback"
)

var ValidGates = []AccessGate{GatePreTest, GatePostTest, GateChecklist, GateFeedback}

func (g AccessGate) Valid() bool {
	for _, v := range ValidGates {
		if g == v {
			return true
		}
	}
	return false
}

// ParticipantAccess is the gate record for one (participant, session) pair.
// Exactly one row exists per pair; rows are created lazily on first
// reference and removed only when the parent session is deleted.
//
// The can_access_* gates control visibility; the *_completed flags are a
// derived summary of the append-only submission history. A gate being closed
// never rolls a completion flag back.
type ParticipantAccess struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string `json:"participant_id" gorm:"not null;size:36;uniqueIndex:idx_access_pair;index"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;uniqueIndex:idx_access_pair;index"`

	CanAccessPreTest   bool `json:"can_access_pre_test" gorm:"not null;default:false"`
	CanAccessPostTest  bool `json:"can_access_post_test" gorm:"not null;default:false"`
	CanAccessChecklist bool `json:"can_access_checklist" gorm:"not null;default:false"`
	CanAccessFeedback  bool `json:"can_access_feedback" gorm:"not null;default:false"`

	PreTestCompleted   bool `json:"pre_test_completed" gorm:"not null;default:false"`
	PostTestCompleted  bool `json:"post_test_completed" gorm:"not null;default:false"`
	ChecklistSubmitted bool `json:"checklist_submitted" gorm:"not null;default:false"`
	FeedbackSubmitted  bool `json:"feedback_submitted" gorm:"not null;default:false"`

	CertificateURL        *string    `json:"certificate_url" gorm:"size:500"`
	CertificateUploadedAt *time.Time `json:"certificate_uploaded_at"`
	CertificateUploadedBy *string    `json:"certificate_uploaded_by" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ParticipantAccess) TableName() string {
	return "participant_access"
}

// GateOpen reports the current state of one gate.
func (a *ParticipantAccess) GateOpen(gate AccessGate) bool {
	switch gate {
	case GatePreTest:
		return a.CanAccessPreTest
	case GatePostTest:
		return a.CanAccessPostTest
	case GateChecklist:
		return a.CanAccessChecklist
	case GateFeedback:
		return a.CanAccessFeedback
	}
	return false
}

// SetGate flips one gate to the given state.
func (a *ParticipantAccess) SetGate(gate AccessGate, open bool) {
	switch gate {
	case GatePreTest:
		a.CanAccessPreTest = open
	case GatePostTest:
		a.CanAccessPostTest = open
	case GateChecklist:
		a.CanAccessChecklist = open
	case GateFeedback:
		a.CanAccessFeedback = open
	}
}

// GateCompleted reports whether a submission has ever been recorded for the
// gate's artifact.
func (a *ParticipantAccess) GateCompleted(gate AccessGate) bool {
	switch gate {
	case GatePreTest:
		return a.PreTestCompleted
	case GatePostTest:
		return a.PostTestCompleted
	case GateChecklist:
		return a.ChecklistSubmitted
	case GateFeedback:
		return a.FeedbackSubmitted
	}
	return false
}

// CompletionColumn maps a gate to its completion column name.
func (g AccessGate) CompletionColumn() string {
	switch g {
	case GatePreTest:
		return "pre_test_completed"
	case GatePostTest:
		return "post_test_completed"
	case GateChecklist:
		return "checklist_submitted"
	case GateFeedback:
		return "feedback_submitted"
	}
	return ""
}

// GateColumn maps a gate to its can_access column name.
func (g AccessGate) GateColumn() string {
	switch g {
	case GatePreTest:
		return "can_access_pre_test"
	case GatePostTest:
		return "can_access_post_test"
	case GateChecklist:
		return "can_access_checklist"
	case GateFeedback:
		return "can_access_feedback"
	}
	return ""
}
