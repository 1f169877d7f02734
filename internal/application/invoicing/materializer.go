package invoicing

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/accounting"
	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/catalog"
	"github.com/erp/invoicerobot/internal/domain/inventory"
	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceMaterializer turns one delivery plus its outstanding quantities into
// a persisted draft invoice. It performs no transaction commit; the caller
// owns the transaction boundary.
type InvoiceMaterializer struct {
	invoices  billing.InvoiceRepository
	orders    trade.SaleOrderRepository
	products  catalog.ProductRepository
	customers partner.CustomerRepository
	journals  accounting.JournalRepository
	positions accounting.FiscalPositionRepository
	logger    *zap.Logger
}

// NewInvoiceMaterializer creates a new InvoiceMaterializer
func NewInvoiceMaterializer(
	invoices billing.InvoiceRepository,
	orders trade.SaleOrderRepository,
	products catalog.ProductRepository,
	customers partner.CustomerRepository,
	journals accounting.JournalRepository,
	positions accounting.FiscalPositionRepository,
	logger *zap.Logger,
) *InvoiceMaterializer {
	return &InvoiceMaterializer{
		invoices:  invoices,
		orders:    orders,
		products:  products,
		customers: customers,
		journals:  journals,
		positions: positions,
		logger:    logger,
	}
}

// Materialize creates a draft invoice for the delivery with one line per sale
// order line that still has outstanding quantity. Returns nil (and no side
// effects) when nothing is outstanding. The outstanding argument may arrive
// wrapped in a length-1 slice; see NormalizeOutstanding.
func (m *InvoiceMaterializer) Materialize(ctx context.Context, run RunContext, delivery *inventory.Delivery, outstanding interface{}) (*billing.Invoice, error) {
	notInvoiced := NormalizeOutstanding(outstanding)
	if len(notInvoiced) == 0 {
		return nil, nil
	}
	if delivery.SaleOrderID == nil {
		return nil, shared.NewDomainError("NO_SALE_ORDER", "Delivery has no originating sale order")
	}

	order, err := m.orders.FindByID(ctx, *delivery.SaleOrderID)
	if err != nil {
		return nil, err
	}

	invoice, err := m.prepareInvoice(ctx, run, delivery, order)
	if err != nil {
		return nil, err
	}

	account, err := m.resolveIncomeAccount(ctx, delivery)
	if err != nil {
		return nil, err
	}
	account, err = m.applyFiscalPosition(ctx, order, account)
	if err != nil {
		return nil, err
	}

	productCache := make(map[uuid.UUID]*catalog.Product)
	doneSaleLines := make(map[uuid.UUID]struct{})
	for idx := range delivery.Lines {
		moveLine := &delivery.Lines[idx]
		// The same product can appear on more than one order line; every
		// match is considered, each sale line at most once.
		for _, saleLine := range order.LinesByProduct(moveLine.ProductID) {
			qty, ok := notInvoiced[saleLine.ID]
			if !ok || !qty.IsPositive() {
				continue
			}
			if _, done := doneSaleLines[saleLine.ID]; done {
				continue
			}

			product, err := m.product(ctx, productCache, saleLine.ProductID)
			if err != nil {
				return nil, err
			}

			line := billing.InvoiceLine{
				ProductID:         saleLine.ProductID,
				Description:       saleLine.Description,
				Origin:            order.Number,
				AccountID:         account,
				UnitPrice:         saleLine.UnitPrice,
				Currency:          saleLine.Currency,
				Unit:              moveLine.Unit,
				CatchWeightUnit:   moveLine.CatchWeightUnit,
				Discount:          saleLine.Discount,
				TaxIDs:            saleLine.TaxIDs,
				AnalyticAccountID: order.AnalyticAccountID,
				AnalyticTagIDs:    saleLine.AnalyticTagIDs,
				DisplayType:       saleLine.DisplayType,
			}
			saleLineID := saleLine.ID
			line.SaleLineID = &saleLineID
			if product.IsCatchWeight() {
				line.Quantity = saleLine.OutstandingStandard()
				line.CWQuantity = qty
			} else {
				line.Quantity = qty
			}

			if err := invoice.AddLine(line); err != nil {
				return nil, err
			}
			doneSaleLines[saleLine.ID] = struct{}{}
		}
	}

	if err := m.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}

	m.logger.Debug("Invoice created from done delivery",
		zap.String("delivery", delivery.Reference),
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("lines", len(invoice.Lines)),
	)

	return invoice, nil
}

// prepareInvoice builds the invoice header entirely from the delivery's
// originating sale order and the company being processed.
func (m *InvoiceMaterializer) prepareInvoice(ctx context.Context, run RunContext, delivery *inventory.Delivery, order *trade.SaleOrder) (*billing.Invoice, error) {
	billingCustomer, err := m.customers.FindByID(ctx, order.InvoiceCustomerID)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(delivery.CompanyID, billingCustomer.ID)
	if err != nil {
		return nil, err
	}
	invoice.RobotGenerated = true
	invoice.ShippingCustomerID = order.ShippingCustomerID
	invoice.BillingReference = order.ClientOrderRef
	invoice.Origin = order.Number
	invoice.Comment = delivery.Note
	invoice.ReceivableAccountID = billingCustomer.ReceivableAccountID
	invoice.PaymentTermID = order.PaymentTermID
	invoice.SalespersonID = order.SalespersonID
	invoice.TeamID = order.TeamID
	invoice.TransactionIDs = order.TransactionIDs

	// Order-level global discounts override the customer's defaults
	invoice.GlobalDiscountIDs = billingCustomer.GlobalDiscountIDs
	if len(order.GlobalDiscountIDs) > 0 {
		invoice.GlobalDiscountIDs = order.GlobalDiscountIDs
	}

	if order.FiscalPositionID != nil {
		invoice.FiscalPositionID = order.FiscalPositionID
	} else {
		invoice.FiscalPositionID = billingCustomer.FiscalPositionID
	}

	journal, err := m.journals.FindFirstActiveSaleJournal(ctx, delivery.CompanyID)
	switch {
	case err == nil:
		journalID := journal.ID
		invoice.JournalID = &journalID
	case errors.Is(err, shared.ErrNotFound):
		m.logger.Debug("No active sale journal configured for company",
			zap.String("company_id", delivery.CompanyID.String()),
		)
	default:
		return nil, err
	}

	invoice.Currency = order.PricelistCurrency
	if invoice.Currency == "" {
		invoice.Currency = run.Company.Currency
	}

	return invoice, nil
}

// resolveIncomeAccount resolves the income account from the delivery's
// product: the first movement line's product account, else its category's.
// A missing account is logged at debug level and left nil.
func (m *InvoiceMaterializer) resolveIncomeAccount(ctx context.Context, delivery *inventory.Delivery) (*uuid.UUID, error) {
	if len(delivery.Lines) == 0 {
		return nil, nil
	}
	product, err := m.products.FindByID(ctx, delivery.Lines[0].ProductID)
	if err != nil {
		return nil, err
	}
	account := product.ResolveIncomeAccount()
	if account == nil {
		m.logger.Debug("No income account for product or its category",
			zap.String("product", product.Name),
			zap.String("product_id", product.ID.String()),
		)
	}
	return account, nil
}

// applyFiscalPosition remaps the income account through the sale order's
// fiscal position (order-level override, else the billing customer's
// default). Without both a position and an account, the account passes
// through unchanged.
func (m *InvoiceMaterializer) applyFiscalPosition(ctx context.Context, order *trade.SaleOrder, account *uuid.UUID) (*uuid.UUID, error) {
	if account == nil {
		return nil, nil
	}

	positionID := order.FiscalPositionID
	if positionID == nil {
		customer, err := m.customers.FindByID(ctx, order.InvoiceCustomerID)
		if err != nil {
			return nil, err
		}
		positionID = customer.FiscalPositionID
	}
	if positionID == nil {
		return account, nil
	}

	position, err := m.positions.FindByID(ctx, *positionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return account, nil
		}
		return nil, err
	}
	mapped := position.MapAccount(*account)
	return &mapped, nil
}

func (m *InvoiceMaterializer) product(ctx context.Context, cache map[uuid.UUID]*catalog.Product, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	p, err := m.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = p
	return p, nil
}
