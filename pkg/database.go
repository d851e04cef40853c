package pkg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mddrc-dev/training-service/internal/config"
	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/utils"
)

// InitDatabase opens the Postgres connection, migrates the schema and seeds
// the bootstrap admin account.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.Environment == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := seedDefaultAdmin(db, cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Program{},
		&models.Session{},
		&models.ParticipantAccess{},
		&models.Test{},
		&models.TestResult{},
		&models.ChecklistTemplate{},
		&models.VehicleChecklist{},
		&models.VehicleDetails{},
		&models.FeedbackTemplate{},
		&models.CourseFeedback{},
		&models.Attendance{},
		&models.TrainingReport{},
	)
}

// seedDefaultAdmin upserts the configured admin keyed by id number, so a
// restart with changed credentials converges instead of duplicating.
func seedDefaultAdmin(db *gorm.DB, admin config.AdminConfig) error {
	if admin.Password == "" {
		slog.Warn("No admin password configured, skipping admin seed")
		return nil
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.User
	err = db.WithContext(ctx).Where("id_number = ?", admin.IDNumber).First(&existing).Error
	switch {
	case err == nil:
		existing.Email = admin.Email
		existing.FullName = admin.FullName
		existing.Role = models.RoleAdmin
		existing.PasswordHash = hash
		existing.IsActive = true
		return db.WithContext(ctx).Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := &models.User{
			ID:           uuid.New().String(),
			Email:        admin.Email,
			FullName:     admin.FullName,
			IDNumber:     admin.IDNumber,
			Role:         models.RoleAdmin,
			PasswordHash: hash,
			IsActive:     true,
		}
		return db.WithContext(ctx).Create(user).Error
	default:
		return err
	}
}
