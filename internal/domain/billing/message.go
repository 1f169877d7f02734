package billing

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceMessage is a free-text audit entry attached to an invoice.
// The robot writes one when recovery of a draft invoice fails, so the
// failure is visible to the humans working the invoice.
type InvoiceMessage struct {
	shared.BaseEntity
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Body      string    `gorm:"not null"`
}

// NewInvoiceMessage creates a new audit message for an invoice
func NewInvoiceMessage(invoiceID uuid.UUID, body string) (*InvoiceMessage, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}
	return &InvoiceMessage{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		Body:       body,
	}, nil
}
