package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
)

type CompanyPostgreSQL struct {
	db *gorm.DB
}

func NewCompanyPostgreSQL(db *gorm.DB) repositories.CompanyRepository {
	return &CompanyPostgreSQL{db: db}
}

func (c *CompanyPostgreSQL) Create(ctx context.Context, company *models.Company) error {
	return c.db.WithContext(ctx).Create(company).Error
}

func (c *CompanyPostgreSQL) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var company models.Company
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *CompanyPostgreSQL) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	if err := c.db.WithContext(ctx).Where("name = ?", name).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (c *CompanyPostgreSQL) Update(ctx context.Context, company *models.Company) error {
	return c.db.WithContext(ctx).Save(company).Error
}

func (c *CompanyPostgreSQL) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Company{}).Error
}

func (c *CompanyPostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.Company, int64, error) {
	var companies []*models.Company
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Company{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&companies).Error; err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

type ProgramPostgreSQL struct {
	db *gorm.DB
}

func NewProgramPostgreSQL(db *gorm.DB) repositories.ProgramRepository {
	return &ProgramPostgreSQL{db: db}
}

func (p *ProgramPostgreSQL) Create(ctx context.Context, program *models.Program) error {
	return p.db.WithContext(ctx).Create(program).Error
}

func (p *ProgramPostgreSQL) GetByID(ctx context.Context, id string) (*models.Program, error) {
	var program models.Program
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (p *ProgramPostgreSQL) Update(ctx context.Context, program *models.Program) error {
	return p.db.WithContext(ctx).Save(program).Error
}

func (p *ProgramPostgreSQL) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Program{}).Error
}

func (p *ProgramPostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.Program, int64, error) {
	var programs []*models.Program
	var total int64

	query := p.db.WithContext(ctx).Model(&models.Program{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&programs).Error; err != nil {
		return nil, 0, err
	}

	return programs, total, nil
}
