package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mddrc-dev/training-service/internal/events"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	jwt       *utils.JWTManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// Service instances
	authService       AuthService
	userService       UserService
	catalogService    CatalogService
	sessionService    SessionService
	accessService     AccessService
	testService       TestService
	checklistService  ChecklistService
	feedbackService   FeedbackService
	attendanceService AttendanceService
	reportService     ReportService
	exportService     ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(repo repositories.Repository, jwt *utils.JWTManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	return &serviceManager{
		repo:      repo,
		jwt:       jwt,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Initialize sets up all services and verifies their shared dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.jwt, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)
	sm.catalogService = NewCatalogService(sm.repo, sm.logger, sm.validator)
	sm.sessionService = NewSessionService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.accessService = NewAccessService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.testService = NewTestService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.checklistService = NewChecklistService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.feedbackService = NewFeedbackService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.logger, sm.validator)
	sm.reportService = NewReportService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.exportService = NewExportService(sm.repo, sm.sessionService, sm.logger)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	return nil
}

// ===== SERVICE ACCESSORS =====

func (sm *serviceManager) Auth() AuthService             { return sm.authService }
func (sm *serviceManager) User() UserService             { return sm.userService }
func (sm *serviceManager) Catalog() CatalogService       { return sm.catalogService }
func (sm *serviceManager) Session() SessionService       { return sm.sessionService }
func (sm *serviceManager) Access() AccessService         { return sm.accessService }
func (sm *serviceManager) Test() TestService             { return sm.testService }
func (sm *serviceManager) Checklist() ChecklistService   { return sm.checklistService }
func (sm *serviceManager) Feedback() FeedbackService     { return sm.feedbackService }
func (sm *serviceManager) Attendance() AttendanceService { return sm.attendanceService }
func (sm *serviceManager) Report() ReportService         { return sm.reportService }
func (sm *serviceManager) Export() ExportService         { return sm.exportService }
