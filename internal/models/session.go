package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionInactive SessionStatus = "inactive"
)

type TrainerRole string

const (
	TrainerChief   TrainerRole = "chief"
	TrainerRegular TrainerRole = "regular"
)

// TrainerAssignment tags a trainer with their role within one session. The
// order of assignments is significant: the participant partition walks the
// list in stored order.
type TrainerAssignment struct {
	TrainerID string      `json:"trainer_id"`
	Role      TrainerRole `json:"role"`
}

type Session struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	Name      string `json:"name" gorm:"not null;size:200;index"`
	ProgramID string `json:"program_id" gorm:"not null;size:36;index"`
	CompanyID string `json:"company_id" gorm:"not null;size:36;index"`
	Location  string `json:"location" gorm:"not null;size:200"`

	StartDate string `json:"start_date" gorm:"not null;size:10;index"`
	EndDate   string `json:"end_date" gorm:"not null;size:10;index"`

	Status SessionStatus `json:"status" gorm:"not null;default:active;index"`

	ParticipantIDs     datatypes.JSONSlice[string]            `json:"participant_ids"`
	SupervisorIDs      datatypes.JSONSlice[string]            `json:"supervisor_ids"`
	TrainerAssignments datatypes.JSONSlice[TrainerAssignment] `json:"trainer_assignments"`

	// At most one coordinator owns a session.
	CoordinatorID *string `json:"coordinator_id" gorm:"size:36;index"`

	// Chief trainer wrap-up, written once by the session's chief.
	ChiefTrainerComments    *string    `json:"chief_trainer_comments" gorm:"type:text"`
	ChiefTrainerID          *string    `json:"chief_trainer_id" gorm:"size:36"`
	ChiefTrainerName        *string    `json:"chief_trainer_name" gorm:"size:100"`
	ChiefCommentsSubmittedAt *time.Time `json:"comments_submitted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}

// HasParticipant reports whether the user is enrolled in this session.
func (s *Session) HasParticipant(userID string) bool {
	for _, id := range s.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasSupervisor reports whether the user supervises this session.
func (s *Session) HasSupervisor(userID string) bool {
	for _, id := range s.SupervisorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TrainerIndex returns the position of a trainer in the assignment list, or
// -1 when the trainer is not assigned.
func (s *Session) TrainerIndex(trainerID string) int {
	for i, t := range s.TrainerAssignments {
		if t.TrainerID == trainerID {
			return i
		}
	}
	return -1
}

// IsChiefTrainer reports whether the user holds the chief assignment.
func (s *Session) IsChiefTrainer(userID string) bool {
	for _, t := range s.TrainerAssignments {
		if t.TrainerID == userID && t.Role == TrainerChief {
			return true
		}
	}
	return false
}
