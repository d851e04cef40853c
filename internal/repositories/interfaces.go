package repositories

import (
	"time"

	"github.com/mddrc-dev/training-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role      *models.UserRole `json:"role"`
	CompanyID *string          `json:"company_id"`
	IsActive  *bool            `json:"is_active"`
	Query     string           `json:"query"` // matches full name, email or id number
	Limit     int              `json:"limit"`
	Offset    int              `json:"offset"`
	SortBy    string           `json:"sort_by"`
	SortOrder string           `json:"sort_order"` // "asc", "desc"
}

type SessionFilters struct {
	Status        *models.SessionStatus `json:"status"`
	CompanyID     *string               `json:"company_id"`
	ProgramID     *string               `json:"program_id"`
	CoordinatorID *string               `json:"coordinator_id"`
	DateFrom      *time.Time            `json:"date_from"`
	DateTo        *time.Time            `json:"date_to"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
	SortBy        string                `json:"sort_by"`
	SortOrder     string                `json:"sort_order"`
}

type TestResultFilters struct {
	SessionID     *string          `json:"session_id"`
	ParticipantID *string          `json:"participant_id"`
	TestType      *models.TestType `json:"test_type"`
	Limit         int              `json:"limit"`
	Offset        int              `json:"offset"`
}

type ChecklistFilters struct {
	SessionID     *string                    `json:"session_id"`
	ParticipantID *string                    `json:"participant_id"`
	Status        *models.VerificationStatus `json:"status"`
	Limit         int                        `json:"limit"`
	Offset        int                        `json:"offset"`
}

type ReportFilters struct {
	SessionID *string              `json:"session_id"`
	Status    *models.ReportStatus `json:"status"`
	CreatedBy *string              `json:"created_by"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type SessionStats struct {
	ParticipantCount   int     `json:"participant_count"`
	PreTestCompleted   int     `json:"pre_test_completed"`
	PostTestCompleted  int     `json:"post_test_completed"`
	ChecklistCompleted int     `json:"checklist_completed"`
	FeedbackSubmitted  int     `json:"feedback_submitted"`
	CertificatesIssued int     `json:"certificates_issued"`
	AveragePreScore    float64 `json:"average_pre_score"`
	AveragePostScore   float64 `json:"average_post_score"`
}

type AttendanceStats struct {
	TotalRecords int `json:"total_records"`
	ClockedIn    int `json:"clocked_in"`
	ClockedOut   int `json:"clocked_out"`
}
