package invoicing

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/accounting"
	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceFinalizer advances a newly created or recovered invoice out of
// draft. Finalization may fail, in which case the invoice stays draft and is
// retried by the recovery pass on the next run.
type InvoiceFinalizer interface {
	Finalize(ctx context.Context, invoice *billing.Invoice) error
}

// defaultJournalCode is used for numbering when the invoice carries no journal
const defaultJournalCode = "INV"

// SequenceFinalizer finalizes draft invoices by assigning the next number
// from the company's journal sequence and opening the invoice.
type SequenceFinalizer struct {
	invoices billing.InvoiceRepository
	journals accounting.JournalRepository
	logger   *zap.Logger
}

// NewSequenceFinalizer creates a new SequenceFinalizer
func NewSequenceFinalizer(invoices billing.InvoiceRepository, journals accounting.JournalRepository, logger *zap.Logger) *SequenceFinalizer {
	return &SequenceFinalizer{
		invoices: invoices,
		journals: journals,
		logger:   logger,
	}
}

// Finalize assigns an invoice number and advances DRAFT to OPEN.
// Already-finalized invoices are left untouched.
func (f *SequenceFinalizer) Finalize(ctx context.Context, invoice *billing.Invoice) error {
	if !invoice.IsDraft() {
		return nil
	}

	journalCode := defaultJournalCode
	if invoice.JournalID != nil {
		journal, err := f.journals.FindByID(ctx, *invoice.JournalID)
		switch {
		case err == nil:
			journalCode = journal.ShortCode
		case errors.Is(err, shared.ErrNotFound):
			f.logger.Debug("Invoice references unknown journal, using default sequence",
				zap.String("invoice_id", invoice.ID.String()),
			)
		default:
			return err
		}
	}

	number, err := f.invoices.NextInvoiceNumber(ctx, invoice.CompanyID, journalCode)
	if err != nil {
		return err
	}
	if err := invoice.Finalize(number); err != nil {
		return err
	}
	return f.invoices.Save(ctx, invoice)
}
