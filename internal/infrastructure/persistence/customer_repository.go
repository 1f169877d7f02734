package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := conn(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindInvoiceContact finds the invoicing sub-contact of a customer. Returns
// shared.ErrNotFound when the customer has no dedicated invoicing contact;
// callers then bill the customer directly.
func (r *GormCustomerRepository) FindInvoiceContact(ctx context.Context, customerID uuid.UUID) (*partner.Customer, error) {
	var contact partner.Customer
	if err := conn(ctx, r.db).
		Where("parent_id = ? AND type = ?", customerID, partner.ContactTypeInvoice).
		Order("created_at ASC").
		First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
