package partner

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/shared/valueobject"
)

// Company represents a legal entity the invoice robot can run for.
// The robot only processes companies with InvoiceRobotEnabled set.
type Company struct {
	shared.BaseEntity
	Name                string `gorm:"not null"`
	Code                string `gorm:"size:20;uniqueIndex"`
	Currency            valueobject.Currency `gorm:"size:3;not null;default:'EUR'"`
	InvoiceRobotEnabled bool   `gorm:"not null;default:false;index"`
}

// NewCompany creates a new company
func NewCompany(name, code string, currency valueobject.Currency) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Company{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Code:       code,
		Currency:   currency,
	}, nil
}

// EnableInvoiceRobot turns on automatic invoicing for this company
func (c *Company) EnableInvoiceRobot() {
	c.InvoiceRobotEnabled = true
}

// DisableInvoiceRobot turns off automatic invoicing for this company
func (c *Company) DisableInvoiceRobot() {
	c.InvoiceRobotEnabled = false
}
