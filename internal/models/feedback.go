package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeedbackQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"` // "rating" or "text"
	Options  []string `json:"options,omitempty"`
}

type FeedbackTemplate struct {
	ID        string                                `json:"id" gorm:"primaryKey;size:36"`
	ProgramID string                                `json:"program_id" gorm:"not null;size:36;index"`
	Questions datatypes.JSONSlice[FeedbackQuestion] `json:"questions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (FeedbackTemplate) TableName() string {
	return "feedback_templates"
}

type FeedbackResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CourseFeedback struct {
	ID            string `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string `json:"participant_id" gorm:"not null;size:36;index:idx_feedback_pair"`
	SessionID     string `json:"session_id" gorm:"not null;size:36;index:idx_feedback_pair"`
	ProgramID     string `json:"program_id" gorm:"not null;size:36;index"`

	Responses datatypes.JSONSlice[FeedbackResponse] `json:"responses"`

	SubmittedAt time.Time `json:"submitted_at"`
}

func (CourseFeedback) TableName() string {
	return "course_feedback"
}
