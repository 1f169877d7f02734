package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements partner.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	var company partner.Company
	if err := conn(ctx, r.db).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// FindRobotEnabled finds all companies with automatic invoicing switched on
func (r *GormCompanyRepository) FindRobotEnabled(ctx context.Context) ([]partner.Company, error) {
	var companies []partner.Company
	if err := conn(ctx, r.db).
		Where("invoice_robot_enabled = ?", true).
		Order("name ASC").
		Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return conn(ctx, r.db).Save(company).Error
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
