package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/policy"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/validator"
)

// catalogService manages the two reference catalogues: client companies and
// training programs.
type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{repo: repo, logger: logger, validator: validator}
}

// ===== COMPANIES =====

func (s *catalogService) CreateCompany(ctx context.Context, req *CompanyRequest, actor *models.User) (*models.Company, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateCompany, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "company", string(policy.ActionCreateCompany), "role check failed")
	}

	company := &models.Company{ID: uuid.New().String(), Name: req.Name}
	if err := s.repo.Company().Create(ctx, company); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("company %q already exists", req.Name)
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("Company created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

func (s *catalogService) UpdateCompany(ctx context.Context, id string, req *CompanyRequest, actor *models.User) (*models.Company, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionUpdateCompany, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "company", string(policy.ActionUpdateCompany), "role check failed")
	}

	company, err := s.repo.Company().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	company.Name = req.Name
	if err := s.repo.Company().Update(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return company, nil
}

func (s *catalogService) DeleteCompany(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteCompany, actorOf(actor), policy.Target{}); err != nil {
		return NewPermissionError(actor.ID, "company", string(policy.ActionDeleteCompany), "role check failed")
	}

	if _, err := s.repo.Company().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCompanyNotFound
		}
		return fmt.Errorf("failed to load company: %w", err)
	}
	if err := s.repo.Company().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	s.logger.Info("Company deleted", "company_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *catalogService) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.Company().List(ctx, limit, offset)
}

// ===== PROGRAMS =====

func (s *catalogService) CreateProgram(ctx context.Context, req *ProgramRequest, actor *models.User) (*models.Program, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionCreateProgram, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "program", string(policy.ActionCreateProgram), "role check failed")
	}

	program := &models.Program{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		PassPercentage: req.PassPercentage,
	}
	if program.PassPercentage == 0 {
		program.PassPercentage = 70
	}

	if err := s.repo.Program().Create(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	s.logger.Info("Program created", "program_id", program.ID, "name", program.Name)
	return program, nil
}

func (s *catalogService) UpdateProgram(ctx context.Context, id string, req *ProgramRequest, actor *models.User) (*models.Program, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.Evaluate(policy.ActionUpdateProgram, actorOf(actor), policy.Target{}); err != nil {
		return nil, NewPermissionError(actor.ID, "program", string(policy.ActionUpdateProgram), "role check failed")
	}

	program, err := s.repo.Program().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}

	program.Name = req.Name
	program.Description = req.Description
	if req.PassPercentage > 0 {
		program.PassPercentage = req.PassPercentage
	}

	if err := s.repo.Program().Update(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to update program: %w", err)
	}
	return program, nil
}

func (s *catalogService) DeleteProgram(ctx context.Context, id string, actor *models.User) error {
	if err := policy.Evaluate(policy.ActionDeleteProgram, actorOf(actor), policy.Target{}); err != nil {
		return NewPermissionError(actor.ID, "program", string(policy.ActionDeleteProgram), "role check failed")
	}

	if _, err := s.repo.Program().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProgramNotFound
		}
		return fmt.Errorf("failed to load program: %w", err)
	}
	if err := s.repo.Program().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
	}

	s.logger.Info("Program deleted", "program_id", id, "deleted_by", actor.ID)
	return nil
}

func (s *catalogService) ListPrograms(ctx context.Context, limit, offset int) ([]*models.Program, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.repo.Program().List(ctx, limit, offset)
}

func (s *catalogService) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.Program().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	return program, nil
}
