package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{repo: repo, logger: logger, validator: validator}
}

func (s *userService) GetByID(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	if actor.ID != id {
		if err := policy.Evaluate(policy.ActionViewUsers, actorOf(actor), policy.Target{SubjectID: id}); err != nil {
			return nil, NewPermissionError(actor.ID, "user", string(policy.ActionViewUsers), "role check failed")
		}
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters, actor *models.User) (*UserListResponse, error) {
	if err := policy.Evaluate(policy.ActionViewUsers, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "user", string(policy.ActionViewUsers), "role check failed")
	}

	filters.Limit, filters.Offset = normalizePage(filters.Limit, filters.Offset)

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page, size := pageOf(filters.Limit, filters.Offset)
	return &UserListResponse{Users: users, Total: total, Page: page, Size: size}, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest, actor *models.User) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Users may edit their own profile; everything else is staff creation
	// territory, gated the same way.
	if actor.ID != id {
		if err := policy.Evaluate(policy.ActionCreateStaff, actorOf(actor), policy.Target{SubjectID: id}); err != nil {
			return nil, NewPermissionError(actor.ID, "user", "user.update", "role check failed")
		}
	} else if req.IsActive != nil {
		// Nobody deactivates themselves through profile edits.
		return nil, NewPermissionError(actor.ID, "user", "user.update", "cannot change own active flag")
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.CompanyID != nil {
		user.CompanyID = req.CompanyID
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", user.ID, "updated_by", actor.ID)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteUser, actorOf(actor), policy.Target{SubjectID: id}); err != nil {
		return NewPermissionError(actor.ID, "user", string(policy.ActionDeleteUser), "role check failed")
	}

	if _, err := s.repo.User().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.repo.User().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted", "user_id", id, "deleted_by", actor.ID)
	return nil
}
