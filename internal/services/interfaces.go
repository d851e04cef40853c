package services

import (
	"context"
	"time"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

// ===== AUTH DTOs =====

type LoginRequest struct {
	// Identifier is an email address or an id number.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	FullName    string  `json:"full_name" validate:"required,max=100"`
	IDNumber    string  `json:"id_number" validate:"required,max=50"`
	Role        string  `json:"role" validate:"required,user_role"`
	Password    string  `json:"password" validate:"required,min=8"`
	CompanyID   *string `json:"company_id"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	IDNumber    string `json:"id_number" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ===== USER DTOs =====

type UpdateUserRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	CompanyID   *string `json:"company_id"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
	IsActive    *bool   `json:"is_active"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ===== CATALOG DTOs =====

type CompanyRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type ProgramRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=2000"`
	PassPercentage float64 `json:"pass_percentage" validate:"omitempty,min=0,max=100"`
}

// ===== SESSION DTOs =====

// SessionParticipant describes one enrollee inline in a session create
// request. Unknown emails create new participant accounts on the fly.
type SessionParticipant struct {
	Email       string  `json:"email" validate:"required,email"`
	FullName    string  `json:"full_name" validate:"required,max=100"`
	IDNumber    string  `json:"id_number" validate:"required,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
}

type TrainerAssignmentRequest struct {
	TrainerID string `json:"trainer_id" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=chief regular"`
}

type CreateSessionRequest struct {
	Name          string                     `json:"name" validate:"required,max=200"`
	ProgramID     string                     `json:"program_id" validate:"required"`
	CompanyID     string                     `json:"company_id" validate:"required"`
	Location      string                     `json:"location" validate:"required,max=200"`
	StartDate     string                     `json:"start_date" validate:"required,date_string"`
	EndDate       string                     `json:"end_date" validate:"required,date_string"`
	CoordinatorID *string                    `json:"coordinator_id"`
	Participants  []SessionParticipant       `json:"participants" validate:"dive"`
	Supervisors   []SessionParticipant       `json:"supervisors" validate:"dive"`
	Trainers      []TrainerAssignmentRequest `json:"trainers" validate:"dive"`
}

type UpdateSessionRequest struct {
	Name          *string                    `json:"name" validate:"omitempty,max=200"`
	Location      *string                    `json:"location" validate:"omitempty,max=200"`
	StartDate     *string                    `json:"start_date" validate:"omitempty,date_string"`
	EndDate       *string                    `json:"end_date" validate:"omitempty,date_string"`
	CoordinatorID *string                    `json:"coordinator_id"`
	Trainers      []TrainerAssignmentRequest `json:"trainers" validate:"omitempty,dive"`
}

type SessionResponse struct {
	*models.Session
	ProgramName string `json:"program_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	Size     int                `json:"size"`
}

type ChiefCommentsRequest struct {
	Comments string `json:"comments" validate:"required,max=5000"`
}

// ParticipantResult is one row of a session results summary.
type ParticipantResult struct {
	ParticipantID   string   `json:"participant_id"`
	FullName        string   `json:"full_name"`
	IDNumber        string   `json:"id_number"`
	PreTestScore    *float64 `json:"pre_test_score"`
	PostTestScore   *float64 `json:"post_test_score"`
	PostTestPassed  *bool    `json:"post_test_passed"`
	ChecklistDone   bool     `json:"checklist_done"`
	FeedbackDone    bool     `json:"feedback_done"`
	ClockedOut      bool     `json:"clocked_out"`
	CertificateURL  *string  `json:"certificate_url"`
}

type ResultsSummaryResponse struct {
	SessionID   string               `json:"session_id"`
	SessionName string               `json:"session_name"`
	ProgramName string               `json:"program_name"`
	Rows        []*ParticipantResult `json:"rows"`
	Stats       *repositories.SessionStats `json:"stats"`
}

// GateRollup is one gate's state across the session: released when any
// access record has it open, completed counting the submissions recorded.
type GateRollup struct {
	Released  bool `json:"released"`
	Completed int  `json:"completed"`
}

type SessionStatusResponse struct {
	SessionID         string     `json:"session_id"`
	SessionName       string     `json:"session_name"`
	TotalParticipants int        `json:"total_participants"`
	PreTest           GateRollup `json:"pre_test"`
	PostTest          GateRollup `json:"post_test"`
	Feedback          GateRollup `json:"feedback"`
}

// ===== ACCESS DTOs =====

type UpdateAccessRequest struct {
	Gate string `json:"gate" validate:"required,access_gate"`
	Open bool   `json:"open"`
}

// BulkToggleRequest flips one gate for several participants. An empty id
// list targets every enrolled participant of the session.
type BulkToggleRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"omitempty,min=1"`
	Gate           string   `json:"gate" validate:"required,access_gate"`
	Open           bool     `json:"open"`
}

// BulkToggleOutcome reports one participant's result. Bulk toggles are not
// atomic: some entries may fail while others succeed.
type BulkToggleOutcome struct {
	ParticipantID string `json:"participant_id"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

type EligibilityResponse struct {
	Eligible           bool `json:"eligible"`
	HasCertificate     bool `json:"has_certificate"`
	FeedbackSubmitted  bool `json:"feedback_submitted"`
	HasClockOut        bool `json:"has_clock_out"`
	SessionActive      bool `json:"session_active"`
}

type UploadCertificateRequest struct {
	ParticipantID  string `json:"participant_id" validate:"required"`
	CertificateURL string `json:"certificate_url" validate:"required,max=500"`
}

// ===== TEST DTOs =====

type CreateTestRequest struct {
	ProgramID string                `json:"program_id" validate:"required"`
	TestType  string                `json:"test_type" validate:"required,test_type"`
	Questions []models.TestQuestion `json:"questions" validate:"required,min=1,dive"`
}

// TestForParticipant is a test with correct answers stripped and, when
// shuffled, the delivery order recorded so the submission can be scored.
type TestForParticipant struct {
	TestID          string                `json:"test_id"`
	TestType        models.TestType       `json:"test_type"`
	Questions       []models.TestQuestion `json:"questions"`
	QuestionIndices []int                 `json:"question_indices"`
}

type SubmitTestRequest struct {
	SessionID       string `json:"session_id" validate:"required"`
	TestType        string `json:"test_type" validate:"required,test_type"`
	Answers         []int  `json:"answers" validate:"required"`
	QuestionIndices []int  `json:"question_indices"`
}

type TestResultResponse struct {
	*models.TestResult
	PassPercentage float64 `json:"pass_percentage"`
}

// ===== CHECKLIST DTOs =====

type ChecklistTemplateRequest struct {
	ProgramID string   `json:"program_id" validate:"required"`
	Items     []string `json:"items" validate:"required,min=1"`
}

type SubmitChecklistRequest struct {
	SessionID string                 `json:"session_id" validate:"required"`
	Interval  string                 `json:"interval" validate:"required,max=50"`
	Items     []models.ChecklistItem `json:"items" validate:"required,min=1,dive"`
}

type TrainerChecklistRequest struct {
	SessionID     string                 `json:"session_id" validate:"required"`
	ParticipantID string                 `json:"participant_id" validate:"required"`
	Items         []models.ChecklistItem `json:"items" validate:"required,min=1,dive"`
	ChiefComments *string                `json:"chief_comments" validate:"omitempty,max=5000"`
}

type VerifyChecklistRequest struct {
	Status string `json:"status" validate:"required,oneof=completed rejected"`
}

type VehicleDetailsRequest struct {
	SessionID          string `json:"session_id" validate:"required"`
	VehicleModel       string `json:"vehicle_model" validate:"required,max=100"`
	RegistrationNumber string `json:"registration_number" validate:"required,max=30"`
	RoadtaxExpiry      string `json:"roadtax_expiry" validate:"required,date_string"`
}

// ===== FEEDBACK DTOs =====

type FeedbackTemplateRequest struct {
	ProgramID string                    `json:"program_id" validate:"required"`
	Questions []models.FeedbackQuestion `json:"questions" validate:"required,min=1,dive"`
}

type SubmitFeedbackRequest struct {
	SessionID string                    `json:"session_id" validate:"required"`
	Responses []models.FeedbackResponse `json:"responses" validate:"required,min=1,dive"`
}

// ===== ATTENDANCE DTOs =====

type ClockRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type AttendanceResponse struct {
	Records []*models.Attendance         `json:"records"`
	Stats   *repositories.AttendanceStats `json:"stats,omitempty"`
}

// ===== REPORT DTOs =====

type ReportRequest struct {
	SessionID       string  `json:"session_id" validate:"required"`
	GroupPhoto      *string `json:"group_photo" validate:"omitempty,max=500"`
	TheoryPhoto1    *string `json:"theory_photo_1" validate:"omitempty,max=500"`
	TheoryPhoto2    *string `json:"theory_photo_2" validate:"omitempty,max=500"`
	PracticalPhoto1 *string `json:"practical_photo_1" validate:"omitempty,max=500"`
	PracticalPhoto2 *string `json:"practical_photo_2" validate:"omitempty,max=500"`
	PracticalPhoto3 *string `json:"practical_photo_3" validate:"omitempty,max=500"`
	AdditionalNotes *string `json:"additional_notes" validate:"omitempty,max=10000"`
	Submit          bool    `json:"submit"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req *RegisterRequest, actor *models.User) (*models.User, error)

	// ForgotPassword acknowledges uniformly whether or not the email is
	// known.
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
}

type UserService interface {
	GetByID(ctx context.Context, id string, actor *models.User) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters, actor *models.User) (*UserListResponse, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest, actor *models.User) (*models.User, error)
	Delete(ctx context.Context, id string, actor *models.User) error
}

type CatalogService interface {
	CreateCompany(ctx context.Context, req *CompanyRequest, actor *models.User) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, req *CompanyRequest, actor *models.User) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string, actor *models.User) error
	ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int64, error)

	CreateProgram(ctx context.Context, req *ProgramRequest, actor *models.User) (*models.Program, error)
	UpdateProgram(ctx context.Context, id string, req *ProgramRequest, actor *models.User) (*models.Program, error)
	DeleteProgram(ctx context.Context, id string, actor *models.User) error
	ListPrograms(ctx context.Context, limit, offset int) ([]*models.Program, int64, error)
	GetProgram(ctx context.Context, id string) (*models.Program, error)
}

type SessionService interface {
	Create(ctx context.Context, req *CreateSessionRequest, actor *models.User) (*SessionResponse, error)
	GetByID(ctx context.Context, id string, actor *models.User) (*SessionResponse, error)
	Update(ctx context.Context, id string, req *UpdateSessionRequest, actor *models.User) (*SessionResponse, error)
	Delete(ctx context.Context, id string, actor *models.User) error
	ToggleStatus(ctx context.Context, id string, actor *models.User) (*models.Session, error)

	// List scopes visibility by the actor's role.
	List(ctx context.Context, filters repositories.SessionFilters, actor *models.User) (*SessionListResponse, error)
	ListMine(ctx context.Context, actor *models.User) ([]*SessionResponse, error)

	GetParticipants(ctx context.Context, sessionID string, actor *models.User) ([]*models.User, error)

	// GetAssignedParticipants returns the caller's deterministic slice of
	// the session's participants.
	GetAssignedParticipants(ctx context.Context, sessionID string, actor *models.User) ([]*models.User, error)

	// GetStatus rolls the session's access records up into per-gate
	// release flags and completion counts.
	GetStatus(ctx context.Context, sessionID string, actor *models.User) (*SessionStatusResponse, error)

	GetResultsSummary(ctx context.Context, sessionID string, actor *models.User) (*ResultsSummaryResponse, error)

	SubmitChiefComments(ctx context.Context, sessionID string, req *ChiefCommentsRequest, actor *models.User) error
}

type AccessService interface {
	GetMyAccess(ctx context.Context, sessionID string, actor *models.User) (*models.ParticipantAccess, error)
	ListForSession(ctx context.Context, sessionID string, actor *models.User) ([]*models.ParticipantAccess, error)
	UpdateGate(ctx context.Context, sessionID, participantID string, req *UpdateAccessRequest, actor *models.User) (*models.ParticipantAccess, error)
	BulkToggle(ctx context.Context, sessionID string, req *BulkToggleRequest, actor *models.User) ([]BulkToggleOutcome, error)

	// ReleaseGate opens a gate for every access record in the session.
	ReleaseGate(ctx context.Context, sessionID string, gate models.AccessGate, actor *models.User) error

	UploadCertificate(ctx context.Context, sessionID string, req *UploadCertificateRequest, actor *models.User) error
	CheckEligibility(ctx context.Context, sessionID, participantID string, actor *models.User) (*EligibilityResponse, error)
	DownloadCertificate(ctx context.Context, sessionID, participantID string, actor *models.User) (string, error)
	ListCertificates(ctx context.Context, limit, offset int, actor *models.User) ([]*models.ParticipantAccess, int64, error)
}

type TestService interface {
	CreateTest(ctx context.Context, req *CreateTestRequest, actor *models.User) (*models.Test, error)
	DeleteTest(ctx context.Context, id string, actor *models.User) error

	// GetTestForParticipant checks the gate, strips answers and shuffles
	// delivery order.
	GetTestForParticipant(ctx context.Context, sessionID string, testType models.TestType, actor *models.User) (*TestForParticipant, error)

	SubmitTest(ctx context.Context, req *SubmitTestRequest, actor *models.User) (*TestResultResponse, error)
	GetResults(ctx context.Context, sessionID, participantID string, actor *models.User) ([]*models.TestResult, error)
}

type ChecklistService interface {
	CreateTemplate(ctx context.Context, req *ChecklistTemplateRequest, actor *models.User) (*models.ChecklistTemplate, error)
	UpdateTemplate(ctx context.Context, id string, req *ChecklistTemplateRequest, actor *models.User) (*models.ChecklistTemplate, error)
	DeleteTemplate(ctx context.Context, id string, actor *models.User) error
	GetTemplateForSession(ctx context.Context, sessionID string, actor *models.User) (*models.ChecklistTemplate, error)

	Submit(ctx context.Context, req *SubmitChecklistRequest, actor *models.User) (*models.VehicleChecklist, error)
	SubmitTrainerChecklist(ctx context.Context, req *TrainerChecklistRequest, actor *models.User) (*models.VehicleChecklist, error)
	Verify(ctx context.Context, checklistID string, req *VerifyChecklistRequest, actor *models.User) error
	ListForSession(ctx context.Context, sessionID string, filters repositories.ChecklistFilters, actor *models.User) ([]*models.VehicleChecklist, int64, error)

	SubmitVehicleDetails(ctx context.Context, req *VehicleDetailsRequest, actor *models.User) (*models.VehicleDetails, error)
	GetVehicleDetails(ctx context.Context, sessionID, participantID string, actor *models.User) (*models.VehicleDetails, error)
}

type FeedbackService interface {
	CreateTemplate(ctx context.Context, req *FeedbackTemplateRequest, actor *models.User) (*models.FeedbackTemplate, error)
	DeleteTemplate(ctx context.Context, id string, actor *models.User) error
	GetTemplateForSession(ctx context.Context, sessionID string, actor *models.User) (*models.FeedbackTemplate, error)

	Submit(ctx context.Context, req *SubmitFeedbackRequest, actor *models.User) (*models.CourseFeedback, error)
	ListForSession(ctx context.Context, sessionID string, actor *models.User) ([]*models.CourseFeedback, error)
}

type AttendanceService interface {
	ClockIn(ctx context.Context, req *ClockRequest, actor *models.User) (*models.Attendance, error)
	ClockOut(ctx context.Context, req *ClockRequest, actor *models.User) (*models.Attendance, error)
	GetSessionAttendance(ctx context.Context, sessionID string, actor *models.User) (*AttendanceResponse, error)
	GetMyAttendance(ctx context.Context, sessionID string, actor *models.User) ([]*models.Attendance, error)
}

type ReportService interface {
	Save(ctx context.Context, req *ReportRequest, actor *models.User) (*models.TrainingReport, error)
	GetBySession(ctx context.Context, sessionID string, actor *models.User) (*models.TrainingReport, error)
	List(ctx context.Context, filters repositories.ReportFilters, actor *models.User) ([]*models.TrainingReport, int64, error)
}

type ExportService interface {
	// ExportResultsXLSX renders a session results summary as an XLSX
	// workbook.
	ExportResultsXLSX(ctx context.Context, sessionID string, actor *models.User) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Catalog() CatalogService
	Session() SessionService
	Access() AccessService
	Test() TestService
	Checklist() ChecklistService
	Feedback() FeedbackService
	Attendance() AttendanceService
	Report() ReportService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
