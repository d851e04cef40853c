package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/cache"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user              repositories.UserRepository
	company           repositories.CompanyRepository
	program           repositories.ProgramRepository
	session           repositories.SessionRepository
	participantAccess repositories.ParticipantAccessRepository
	test              repositories.TestRepository
	testResult        repositories.TestResultRepository
	checklistTemplate repositories.ChecklistTemplateRepository
	vehicleChecklist  repositories.VehicleChecklistRepository
	vehicleDetails    repositories.VehicleDetailsRepository
	feedbackTemplate  repositories.FeedbackTemplateRepository
	courseFeedback    repositories.CourseFeedbackRepository
	attendance        repositories.AttendanceRepository
	report            repositories.ReportRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}
	repo.initSubRepositories(config.DB)

	return repo
}

func (r *PostgreSQLRepository) initSubRepositories(db *gorm.DB) {
	r.user = NewUserPostgreSQL(db, r.cacheManager)
	r.company = NewCompanyPostgreSQL(db)
	r.program = NewProgramPostgreSQL(db)
	r.session = NewSessionPostgreSQL(db, r.cacheManager)
	r.participantAccess = NewParticipantAccessPostgreSQL(db)
	r.test = NewTestPostgreSQL(db, r.cacheManager)
	r.testResult = NewTestResultPostgreSQL(db)
	r.checklistTemplate = NewChecklistTemplatePostgreSQL(db, r.cacheManager)
	r.vehicleChecklist = NewVehicleChecklistPostgreSQL(db)
	r.vehicleDetails = NewVehicleDetailsPostgreSQL(db)
	r.feedbackTemplate = NewFeedbackTemplatePostgreSQL(db, r.cacheManager)
	r.courseFeedback = NewCourseFeedbackPostgreSQL(db)
	r.attendance = NewAttendancePostgreSQL(db)
	r.report = NewReportPostgreSQL(db)
}

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Company() repositories.CompanyRepository { return r.company }

func (r *PostgreSQLRepository) Program() repositories.ProgramRepository { return r.program }

func (r *PostgreSQLRepository) Session() repositories.SessionRepository { return r.session }

func (r *PostgreSQLRepository) ParticipantAccess() repositories.ParticipantAccessRepository {
	return r.participantAccess
}

func (r *PostgreSQLRepository) Test() repositories.TestRepository { return r.test }

func (r *PostgreSQLRepository) TestResult() repositories.TestResultRepository { return r.testResult }

func (r *PostgreSQLRepository) ChecklistTemplate() repositories.ChecklistTemplateRepository {
	return r.checklistTemplate
}

func (r *PostgreSQLRepository) VehicleChecklist() repositories.VehicleChecklistRepository {
	return r.vehicleChecklist
}

func (r *PostgreSQLRepository) VehicleDetails() repositories.VehicleDetailsRepository {
	return r.vehicleDetails
}

func (r *PostgreSQLRepository) FeedbackTemplate() repositories.FeedbackTemplateRepository {
	return r.feedbackTemplate
}

func (r *PostgreSQLRepository) CourseFeedback() repositories.CourseFeedbackRepository {
	return r.courseFeedback
}

func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository { return r.attendance }

func (r *PostgreSQLRepository) Report() repositories.ReportRepository { return r.report }

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}
		txRepo.initSubRepositories(tx)

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
