package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/accounting"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalRepository implements accounting.JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByID finds a journal by its ID
func (r *GormJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Journal, error) {
	var journal accounting.Journal
	if err := conn(ctx, r.db).First(&journal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &journal, nil
}

// FindFirstActiveSaleJournal finds the company's first active sale journal
// in configured ordering. Returns shared.ErrNotFound when none exists.
func (r *GormJournalRepository) FindFirstActiveSaleJournal(ctx context.Context, companyID uuid.UUID) (*accounting.Journal, error) {
	var journal accounting.Journal
	if err := conn(ctx, r.db).
		Where("company_id = ? AND type = ? AND active = ?",
			companyID, accounting.JournalTypeSale, true).
		Order("sequence ASC, short_code ASC").
		First(&journal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &journal, nil
}

// Save creates or updates a journal
func (r *GormJournalRepository) Save(ctx context.Context, journal *accounting.Journal) error {
	return conn(ctx, r.db).Save(journal).Error
}

// Ensure GormJournalRepository implements JournalRepository
var _ accounting.JournalRepository = (*GormJournalRepository)(nil)

// GormFiscalPositionRepository implements accounting.FiscalPositionRepository using GORM
type GormFiscalPositionRepository struct {
	db *gorm.DB
}

// NewGormFiscalPositionRepository creates a new GormFiscalPositionRepository
func NewGormFiscalPositionRepository(db *gorm.DB) *GormFiscalPositionRepository {
	return &GormFiscalPositionRepository{db: db}
}

// FindByID finds a fiscal position by its ID
func (r *GormFiscalPositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FiscalPosition, error) {
	var position accounting.FiscalPosition
	if err := conn(ctx, r.db).First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// Save creates or updates a fiscal position
func (r *GormFiscalPositionRepository) Save(ctx context.Context, position *accounting.FiscalPosition) error {
	return conn(ctx, r.db).Save(position).Error
}

// Ensure GormFiscalPositionRepository implements FiscalPositionRepository
var _ accounting.FiscalPositionRepository = (*GormFiscalPositionRepository)(nil)
