package billing

import (
	"time"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle stage of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusOpen      InvoiceStatus = "OPEN"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// InvoiceType distinguishes customer invoices from vendor bills and refunds
type InvoiceType string

const (
	InvoiceTypeCustomer       InvoiceType = "OUT_INVOICE"
	InvoiceTypeCustomerRefund InvoiceType = "OUT_REFUND"
	InvoiceTypeVendor         InvoiceType = "IN_INVOICE"
)

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// InvoiceLine is one billable line, copied from a sale order line.
// SaleLineID back-references the originating line so the same line is never
// billed twice across robot runs.
type InvoiceLine struct {
	shared.BaseEntity
	InvoiceID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID            `gorm:"type:uuid;not null"`
	Description       string               `gorm:"not null"`
	Origin            string               `gorm:"size:100"`
	AccountID         *uuid.UUID           `gorm:"type:uuid"`
	UnitPrice         decimal.Decimal      `gorm:"type:numeric(14,4);not null;default:0"`
	Currency          valueobject.Currency `gorm:"size:3;not null;default:'EUR'"`
	Quantity          decimal.Decimal      `gorm:"type:numeric(14,4);not null;default:0"`
	CWQuantity        decimal.Decimal      `gorm:"type:numeric(14,4);not null;default:0"`
	Unit              string               `gorm:"size:20"`
	CatchWeightUnit   string               `gorm:"size:20"`
	Discount          decimal.Decimal      `gorm:"type:numeric(6,2);not null;default:0"`
	TaxIDs            shared.UUIDSlice     `gorm:"type:jsonb"`
	AnalyticAccountID *uuid.UUID           `gorm:"type:uuid"`
	AnalyticTagIDs    shared.UUIDSlice     `gorm:"type:jsonb"`
	DisplayType       string               `gorm:"size:20"`
	SaleLineID        *uuid.UUID           `gorm:"type:uuid;index"`
}

// Subtotal returns the line amount after line-level discount
func (l *InvoiceLine) Subtotal() decimal.Decimal {
	gross := l.UnitPrice.Mul(l.Quantity)
	if l.Discount.IsZero() {
		return gross
	}
	factor := decimal.NewFromInt(100).Sub(l.Discount).Div(decimal.NewFromInt(100))
	return gross.Mul(factor)
}

// Invoice is a customer invoice. Invoices created by the automated delivery
// invoicing run carry RobotGenerated=true and start in DRAFT; a separate
// finalization step advances them to OPEN and assigns the number.
type Invoice struct {
	shared.CompanyEntity
	Number              string               `gorm:"size:50;index"`
	Status              InvoiceStatus        `gorm:"size:20;not null;default:'DRAFT';index"`
	Type                InvoiceType          `gorm:"size:20;not null;default:'OUT_INVOICE'"`
	RobotGenerated      bool                 `gorm:"not null;default:false;index"`
	CustomerID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	ShippingCustomerID  uuid.UUID            `gorm:"type:uuid;not null"`
	ReceivableAccountID *uuid.UUID           `gorm:"type:uuid"`
	JournalID           *uuid.UUID           `gorm:"type:uuid"`
	Currency            valueobject.Currency `gorm:"size:3;not null;default:'EUR'"`
	BillingReference    string               `gorm:"size:100"`
	Origin              string               `gorm:"size:100"`
	Comment             string
	PaymentTermID       *uuid.UUID           `gorm:"type:uuid"`
	FiscalPositionID    *uuid.UUID           `gorm:"type:uuid"`
	SalespersonID       *uuid.UUID           `gorm:"type:uuid"`
	TeamID              *uuid.UUID           `gorm:"type:uuid"`
	GlobalDiscountIDs   shared.UUIDSlice     `gorm:"type:jsonb"`
	TransactionIDs      shared.UUIDSlice     `gorm:"type:jsonb"`
	FinalizedAt         *time.Time
	Lines               []InvoiceLine        `gorm:"foreignKey:InvoiceID"`
}

// NewInvoice creates a new draft customer invoice
func NewInvoice(companyID, customerID uuid.UUID) (*Invoice, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &Invoice{
		CompanyEntity:      shared.NewCompanyEntity(companyID),
		Status:             InvoiceStatusDraft,
		Type:               InvoiceTypeCustomer,
		CustomerID:         customerID,
		ShippingCustomerID: customerID,
		Currency:           valueobject.DefaultCurrency,
		Lines:              make([]InvoiceLine, 0),
	}, nil
}

// AddLine appends a line to a draft invoice
func (i *Invoice) AddLine(line InvoiceLine) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft invoice")
	}
	line.InvoiceID = i.ID
	if line.ID == uuid.Nil {
		line.BaseEntity = shared.NewBaseEntity()
		line.InvoiceID = i.ID
	}
	i.Lines = append(i.Lines, line)
	i.UpdatedAt = time.Now()
	return nil
}

// HasSaleLine reports whether any line back-references the given sale line
func (i *Invoice) HasSaleLine(saleLineID uuid.UUID) bool {
	for idx := range i.Lines {
		if i.Lines[idx].SaleLineID != nil && *i.Lines[idx].SaleLineID == saleLineID {
			return true
		}
	}
	return false
}

// Total returns the invoice total after line-level discounts
func (i *Invoice) Total() valueobject.Money {
	total := decimal.Zero
	for idx := range i.Lines {
		total = total.Add(i.Lines[idx].Subtotal())
	}
	m, _ := valueobject.NewMoney(total, i.Currency)
	return m
}

// Finalize advances a draft invoice to OPEN, assigning its number.
// Only draft invoices with at least one line can be finalized.
func (i *Invoice) Finalize(number string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be finalized")
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot finalize an invoice without lines")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	now := time.Now()
	i.Number = number
	i.Status = InvoiceStatusOpen
	i.FinalizedAt = &now
	i.UpdatedAt = now
	return nil
}

// IsDraft returns true if the invoice is still in draft
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}
