package repositories

import "context"

// Repository aggregates every sub-repository behind one handle.
type Repository interface {
	// Identity domain
	User() UserRepository

	// Catalogue domain
	Company() CompanyRepository
	Program() ProgramRepository

	// Session domain
	Session() SessionRepository
	ParticipantAccess() ParticipantAccessRepository

	// Test domain
	Test() TestRepository
	TestResult() TestResultRepository

	// Checklist domain
	ChecklistTemplate() ChecklistTemplateRepository
	VehicleChecklist() VehicleChecklistRepository
	VehicleDetails() VehicleDetailsRepository

	// Feedback domain
	FeedbackTemplate() FeedbackTemplateRepository
	CourseFeedback() CourseFeedbackRepository

	// Attendance and reporting
	Attendance() AttendanceRepository
	Report() ReportRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
