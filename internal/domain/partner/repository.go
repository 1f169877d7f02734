package partner

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID finds a company by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindRobotEnabled finds all companies with the invoice robot enabled
	FindRobotEnabled(ctx context.Context) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindInvoiceContact finds the invoicing sub-contact of a customer.
	// Returns shared.ErrNotFound when the customer has no sub-contact of
	// type "invoice"; callers fall back to the customer itself.
	FindInvoiceContact(ctx context.Context, customerID uuid.UUID) (*Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error
}
