package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "pending"
	VerificationCompleted VerificationStatus = "completed"
	VerificationRejected  VerificationStatus = "rejected"
)

type ChecklistTemplate struct {
	ID        string                      `json:"id" gorm:"primaryKey;size:36"`
	ProgramID string                      `json:"program_id" gorm:"not null;size:36;index"`
	Items     datatypes.JSONSlice[string] `json:"items"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

type ChecklistItem struct {
	Item     string  `json:"item"`
	Checked  bool    `json:"checked"`
	Comments *string `json:"comments,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// VehicleChecklist stores one submitted inspection, either by the
// participant or by a trainer (interval "trainer_inspection"). Rows are
// append-only history; the access record carries the summary flag.
type VehicleChecklist struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string `json:"participant_id" gorm:"not null;size:36;index:idx_checklist_pair"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;index:idx_checklist_pair"`

	Interval       string                             `json:"interval" gorm:"not null;size:50"`
	ChecklistItems datatypes.JSONSlice[ChecklistItem] `json:"checklist_items"`

	SubmittedAt        time.Time          `json:"submitted_at"`
	VerifiedBy         *string            `json:"verified_by" gorm:"size:36;index"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"not null;default:pending;index"`
}

func (VehicleChecklist) TableName() string {
	return "vehicle_checklists"
}

type VehicleDetails struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string `json:"participant_id" gorm:"not null;size:36;uniqueIndex:idx_vehicle_pair"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;uniqueIndex:idx_vehicle_pair"`

	VehicleModel       string `json:"vehicle_model" gorm:"not null;size:100"`
	RegistrationNumber string `json:"registration_number" gorm:"not null;size:30"`
	RoadtaxExpiry      string `json:"roadtax_expiry" gorm:"not null;size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VehicleDetails) TableName() string {
	return "vehicle_details"
}
