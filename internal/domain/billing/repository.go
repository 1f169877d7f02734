package billing

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindRobotDrafts finds robot-generated invoices still in draft for a
	// company, oldest first. Lines are preloaded.
	FindRobotDrafts(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice with its lines
	Save(ctx context.Context, invoice *Invoice) error

	// NextInvoiceNumber generates the next invoice number for a company's
	// journal sequence
	NextInvoiceNumber(ctx context.Context, companyID uuid.UUID, journalCode string) (string, error)
}

// MessagePoster attaches free-text audit messages to invoices
type MessagePoster interface {
	// PostMessage appends a message to the invoice's audit trail
	PostMessage(ctx context.Context, invoiceID uuid.UUID, body string) error
}
