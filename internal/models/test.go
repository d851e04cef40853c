package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TestType string

const (
	TestPre  TestType = "pre"
	TestPost TestType = "post"
)

type TestQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

type Test struct {
	ID        string                            `json:"id" gorm:"primaryKey;size:36"`
	ProgramID string                            `json:"program_id" gorm:"not null;size:36;index"`
	TestType  TestType                          `json:"test_type" gorm:"not null;size:10;index"`
	Questions datatypes.JSONSlice[TestQuestion] `json:"questions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Test) TableName() string {
	return "tests"
}

// TestResult is an append-only history row. Duplicate submissions create
// additional rows; the access record's completion flag is the summary.
type TestResult struct {
	ID            string   `json:"id" gorm:"primaryKey;size:36"`
	TestID        string   `json:"test_id" gorm:"not null;size:36;index"`
	ParticipantID string   `json:"participant_id" gorm:"not null;size:36;index:idx_result_pair"`
	SessionID     string   `json:"session_id" gorm:"not null;size:36;index:idx_result_pair"`
	TestType      TestType `json:"test_type" gorm:"not null;size:10;index"`

	Answers        datatypes.JSONSlice[int] `json:"answers"`
	Score          float64                  `json:"score" gorm:"not null;default:0"`
	TotalQuestions int                      `json:"total_questions" gorm:"not null;default:0"`
	CorrectAnswers int                      `json:"correct_answers" gorm:"not null;default:0"`
	Passed         bool                     `json:"passed" gorm:"not null;default:false"`

	// Original question order for shuffled deliveries; nil when unshuffled.
	QuestionIndices datatypes.JSONSlice[int] `json:"question_indices"`

	SubmittedAt time.Time `json:"submitted_at"`
}

func (TestResult) TableName() string {
	return "test_results"
}
