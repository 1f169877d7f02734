package catalog

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductCategory groups products and carries the fallback income account
// used when a product has no account of its own.
type ProductCategory struct {
	shared.BaseEntity
	Name            string     `gorm:"not null"`
	IncomeAccountID *uuid.UUID `gorm:"type:uuid"`
}

// Product represents a sellable product.
// Catch-weight products are tracked in a secondary unit (e.g. kilograms for
// items sold by piece) in addition to their standard unit; their invoiced
// quantities are computed in the catch-weight unit.
type Product struct {
	shared.BaseEntity
	Code            string     `gorm:"size:50;uniqueIndex"`
	Name            string     `gorm:"not null"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index"`
	Category        *ProductCategory `gorm:"foreignKey:CategoryID"`
	IncomeAccountID *uuid.UUID `gorm:"type:uuid"`
	Unit            string     `gorm:"size:20;not null;default:'unit'"`
	CatchWeight     bool       `gorm:"not null;default:false"`
	CatchWeightUnit string     `gorm:"size:20"`
}

// NewProduct creates a new product
func NewProduct(code, name, unit string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "unit"
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Unit:       unit,
	}, nil
}

// SetCatchWeight marks the product as catch-weight tracked in the given unit
func (p *Product) SetCatchWeight(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Catch-weight unit cannot be empty")
	}
	p.CatchWeight = true
	p.CatchWeightUnit = unit
	return nil
}

// IsCatchWeight returns true if the product is tracked in a secondary unit
func (p *Product) IsCatchWeight() bool {
	return p.CatchWeight
}

// ResolveIncomeAccount returns the product's income account, falling back to
// the category account. Returns nil when neither is configured.
func (p *Product) ResolveIncomeAccount() *uuid.UUID {
	if p.IncomeAccountID != nil {
		return p.IncomeAccountID
	}
	if p.Category != nil {
		return p.Category.IncomeAccountID
	}
	return nil
}
