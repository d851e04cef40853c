package models

import "time"

type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
)

// TrainingReport is the coordinator's wrap-up record for a session. Document
// rendering happens outside this service; only the record and its photo
// references live here.
type TrainingReport struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;uniqueIndex"`
	CoordinatorID string `json:"coordinator_id" gorm:"not null;size:36;index"`

	GroupPhoto      *string `json:"group_photo" gorm:"size:500"`
	TheoryPhoto1    *string `json:"theory_photo_1" gorm:"size:500"`
	TheoryPhoto2    *string `json:"theory_photo_2" gorm:"size:500"`
	PracticalPhoto1 *string `json:"practical_photo_1" gorm:"size:500"`
	PracticalPhoto2 *string `json:"practical_photo_2" gorm:"size:500"`
	PracticalPhoto3 *string `json:"practical_photo_3" gorm:"size:500"`
	AdditionalNotes *string `json:"additional_notes" gorm:"type:text"`

	Status      ReportStatus `json:"status" gorm:"not null;default:draft;index"`
	SubmittedAt *time.Time   `json:"submitted_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrainingReport) TableName() string {
	return "training_reports"
}
