package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	jwt       *utils.JWTManager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, jwt *utils.JWTManager, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		jwt:       jwt,
		logger:    logger,
		validator: validator,
	}
}

// Login accepts an email address or an id number as the identifier. Both
// lookups share one uniform failure so the response never reveals which
// half was wrong.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.lookupByIdentifier(ctx, req.Identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.Expiry()),
		User:      user,
	}, nil
}

func (s *authService) lookupByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.repo.User().GetByEmail(ctx, identifier)
	}
	return s.repo.User().GetByIDNumber(ctx, identifier)
}

// Register creates an account. Participants can be created by admins,
// assistant admins and coordinators; every other role is admin-only.
func (s *authService) Register(ctx context.Context, req *RegisterRequest, actor *models.User) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := models.UserRole(req.Role)
	action := policy.ActionCreateStaff
	if role == models.RoleParticipant {
		action = policy.ActionCreateParticipant
	}
	if err := policy.Evaluate(action, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "user", string(action), "role check failed")
	}

	if taken, err := s.repo.User().ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.repo.User().ExistsByIDNumber(ctx, req.IDNumber); err != nil {
		return nil, fmt.Errorf("failed to check id number: %w", err)
	} else if taken {
		return nil, ErrIDNumberTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     req.FullName,
		IDNumber:     req.IDNumber,
		Role:         role,
		CompanyID:    req.CompanyID,
		Location:     req.Location,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role, "created_by", actor.ID)
	return user, nil
}

// ForgotPassword looks the email up but never reveals whether an account
// exists. Sending the reset instructions is left to the mail pipeline; here
// the lookup only feeds the audit log.
func (s *authService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	s.logger.Info("Password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword verifies the email and id number belong to the same account
// before replacing the password. Mismatches fail uniformly.
func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user.IDNumber != req.IDNumber {
		return ErrInvalidCredentials
	}
	if !user.IsActive {
		return ErrAccountDisabled
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
