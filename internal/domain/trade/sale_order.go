package trade

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleOrderLine represents one line of a sale order.
// Delivered and invoiced quantities are maintained upstream by order
// fulfillment; the invoice robot only reads them. Catch-weight products
// carry a second pair of quantities in the catch-weight unit.
type SaleOrderLine struct {
	shared.BaseEntity
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Description    string           `gorm:"not null"`
	QtyDelivered   decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	QtyInvoiced    decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	CWQtyDelivered decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	CWQtyInvoiced  decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	UnitPrice      decimal.Decimal  `gorm:"type:numeric(14,4);not null;default:0"`
	Currency       valueobject.Currency `gorm:"size:3;not null;default:'EUR'"`
	Discount       decimal.Decimal  `gorm:"type:numeric(6,2);not null;default:0"`
	TaxIDs         shared.UUIDSlice `gorm:"type:jsonb"`
	AnalyticTagIDs shared.UUIDSlice `gorm:"type:jsonb"`
	DisplayType    string           `gorm:"size:20"`
}

// OutstandingStandard returns delivered minus invoiced in the standard unit
func (l *SaleOrderLine) OutstandingStandard() decimal.Decimal {
	return l.QtyDelivered.Sub(l.QtyInvoiced)
}

// OutstandingCatchWeight returns delivered minus invoiced in the catch-weight unit
func (l *SaleOrderLine) OutstandingCatchWeight() decimal.Decimal {
	return l.CWQtyDelivered.Sub(l.CWQtyInvoiced)
}

// SaleOrder represents a confirmed customer order whose deliveries the
// invoice robot turns into invoices. Billing and shipping may resolve to
// different sub-contacts of the ordering customer.
type SaleOrder struct {
	shared.CompanyEntity
	Number             string               `gorm:"size:50;not null;uniqueIndex"`
	ClientOrderRef     string               `gorm:"size:100"`
	CustomerID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	InvoiceCustomerID  uuid.UUID            `gorm:"type:uuid;not null"`
	ShippingCustomerID uuid.UUID            `gorm:"type:uuid;not null"`
	PricelistCurrency  valueobject.Currency `gorm:"size:3"`
	PaymentTermID      *uuid.UUID           `gorm:"type:uuid"`
	FiscalPositionID   *uuid.UUID           `gorm:"type:uuid"`
	SalespersonID      *uuid.UUID           `gorm:"type:uuid"`
	TeamID             *uuid.UUID           `gorm:"type:uuid"`
	AnalyticAccountID  *uuid.UUID           `gorm:"type:uuid"`
	GlobalDiscountIDs  shared.UUIDSlice     `gorm:"type:jsonb"`
	TransactionIDs     shared.UUIDSlice     `gorm:"type:jsonb"`
	Lines              []SaleOrderLine      `gorm:"foreignKey:OrderID"`
}

// NewSaleOrder creates a new sale order
func NewSaleOrder(companyID uuid.UUID, number string, customerID uuid.UUID) (*SaleOrder, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &SaleOrder{
		CompanyEntity:      shared.NewCompanyEntity(companyID),
		Number:             number,
		CustomerID:         customerID,
		InvoiceCustomerID:  customerID,
		ShippingCustomerID: customerID,
		Lines:              make([]SaleOrderLine, 0),
	}, nil
}

// AddLine appends a line to the order
func (o *SaleOrder) AddLine(productID uuid.UUID, description string, unitPrice decimal.Decimal) (*SaleOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	line := SaleOrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ProductID:   productID,
		Description: description,
		UnitPrice:   unitPrice,
		Currency:    valueobject.DefaultCurrency,
	}
	o.Lines = append(o.Lines, line)
	return &o.Lines[len(o.Lines)-1], nil
}

// LinesByProduct returns all lines referencing the given product.
// The same product may legitimately appear on more than one line.
func (o *SaleOrder) LinesByProduct(productID uuid.UUID) []*SaleOrderLine {
	var matches []*SaleOrderLine
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			matches = append(matches, &o.Lines[idx])
		}
	}
	return matches
}

// GetLine returns a line by its ID
func (o *SaleOrder) GetLine(lineID uuid.UUID) *SaleOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}
