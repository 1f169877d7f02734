package invoicing

import (
	"context"
	"testing"

	"github.com/erp/invoicerobot/internal/domain/accounting"
	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func draftInvoiceWithLine(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(uuid.New(), uuid.New())
	require.NoError(t, err)
	inv.RobotGenerated = true
	require.NoError(t, inv.AddLine(billing.InvoiceLine{
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(15),
	}))
	return inv
}

func TestSequenceFinalizer_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns journal sequence number and opens the invoice", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		journals := new(MockJournalRepository)
		finalizer := NewSequenceFinalizer(invoices, journals, zap.NewNop())

		invoice := draftInvoiceWithLine(t)
		journal, err := accounting.NewJournal(invoice.CompanyID, "Customer Invoices", "FAC", accounting.JournalTypeSale)
		require.NoError(t, err)
		journalID := journal.ID
		invoice.JournalID = &journalID

		journals.On("FindByID", ctx, journalID).Return(journal, nil)
		invoices.On("NextInvoiceNumber", ctx, invoice.CompanyID, "FAC").Return("FAC/2024/0042", nil)
		invoices.On("Save", ctx, invoice).Return(nil)

		require.NoError(t, finalizer.Finalize(ctx, invoice))

		assert.Equal(t, "FAC/2024/0042", invoice.Number)
		assert.Equal(t, billing.InvoiceStatusOpen, invoice.Status)
		assert.NotNil(t, invoice.FinalizedAt)
		invoices.AssertExpectations(t)
	})

	t.Run("falls back to default sequence without a journal", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		journals := new(MockJournalRepository)
		finalizer := NewSequenceFinalizer(invoices, journals, zap.NewNop())

		invoice := draftInvoiceWithLine(t)

		invoices.On("NextInvoiceNumber", ctx, invoice.CompanyID, "INV").Return("INV/2024/0001", nil)
		invoices.On("Save", ctx, invoice).Return(nil)

		require.NoError(t, finalizer.Finalize(ctx, invoice))

		assert.Equal(t, "INV/2024/0001", invoice.Number)
		journals.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown journal reference uses default sequence", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		journals := new(MockJournalRepository)
		finalizer := NewSequenceFinalizer(invoices, journals, zap.NewNop())

		invoice := draftInvoiceWithLine(t)
		journalID := uuid.New()
		invoice.JournalID = &journalID

		journals.On("FindByID", ctx, journalID).Return(nil, shared.ErrNotFound)
		invoices.On("NextInvoiceNumber", ctx, invoice.CompanyID, "INV").Return("INV/2024/0002", nil)
		invoices.On("Save", ctx, invoice).Return(nil)

		require.NoError(t, finalizer.Finalize(ctx, invoice))
		assert.Equal(t, "INV/2024/0002", invoice.Number)
	})

	t.Run("non-draft invoice is left untouched", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		journals := new(MockJournalRepository)
		finalizer := NewSequenceFinalizer(invoices, journals, zap.NewNop())

		invoice := draftInvoiceWithLine(t)
		require.NoError(t, invoice.Finalize("FAC/2024/0007"))

		require.NoError(t, finalizer.Finalize(ctx, invoice))

		assert.Equal(t, "FAC/2024/0007", invoice.Number)
		invoices.AssertNotCalled(t, "NextInvoiceNumber", mock.Anything, mock.Anything, mock.Anything)
		invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("sequence error keeps the invoice draft", func(t *testing.T) {
		invoices := new(MockInvoiceRepository)
		journals := new(MockJournalRepository)
		finalizer := NewSequenceFinalizer(invoices, journals, zap.NewNop())

		invoice := draftInvoiceWithLine(t)

		invoices.On("NextInvoiceNumber", ctx, invoice.CompanyID, "INV").
			Return("", shared.NewDomainError("SEQUENCE_EXHAUSTED", "no numbers left"))

		require.Error(t, finalizer.Finalize(ctx, invoice))

		assert.True(t, invoice.IsDraft())
		assert.Empty(t, invoice.Number)
		invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
