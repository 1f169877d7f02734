package inventory

import (
	"time"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryState represents the lifecycle state of a delivery
type DeliveryState string

const (
	DeliveryStateDraft     DeliveryState = "draft"
	DeliveryStateWaiting   DeliveryState = "waiting"
	DeliveryStateDone      DeliveryState = "done"
	DeliveryStateCancelled DeliveryState = "cancelled"
)

// IsValid checks if the state is a valid DeliveryState
func (s DeliveryState) IsValid() bool {
	switch s {
	case DeliveryStateDraft, DeliveryStateWaiting, DeliveryStateDone, DeliveryStateCancelled:
		return true
	}
	return false
}

// String returns the string representation of DeliveryState
func (s DeliveryState) String() string {
	return string(s)
}

// DeliveryType distinguishes the direction of a stock movement
type DeliveryType string

const (
	DeliveryTypeIncoming DeliveryType = "incoming"
	DeliveryTypeOutgoing DeliveryType = "outgoing"
	DeliveryTypeInternal DeliveryType = "internal"
)

// String returns the string representation of DeliveryType
func (t DeliveryType) String() string {
	return string(t)
}

// DeliveryLine is one product movement within a delivery
type DeliveryLine struct {
	shared.BaseEntity
	DeliveryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityDone   decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	CWQuantityDone decimal.Decimal `gorm:"type:numeric(14,4);not null;default:0"`
	Unit           string          `gorm:"size:20;not null;default:'unit'"`
	CatchWeightUnit string         `gorm:"size:20"`
}

// Delivery represents an outbound stock movement. Completed outgoing
// deliveries that are not yet invoiced are the robot's work queue; the
// Invoiced flag guarantees each delivery is billed at most once.
type Delivery struct {
	shared.CompanyEntity
	Reference     string         `gorm:"size:50;not null;uniqueIndex"`
	CustomerID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	State         DeliveryState  `gorm:"size:20;not null;default:'draft';index"`
	TypeCode      DeliveryType   `gorm:"size:20;not null;index"`
	ScheduledDate time.Time      `gorm:"not null;index"`
	Invoiced      bool           `gorm:"not null;default:false;index"`
	SaleOrderID   *uuid.UUID     `gorm:"type:uuid;index"`
	Note          string
	Lines         []DeliveryLine `gorm:"foreignKey:DeliveryID"`
}

// NewDelivery creates a new outbound delivery
func NewDelivery(companyID uuid.UUID, reference string, customerID uuid.UUID, scheduledDate time.Time) (*Delivery, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Delivery reference cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	return &Delivery{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Reference:     reference,
		CustomerID:    customerID,
		State:         DeliveryStateDraft,
		TypeCode:      DeliveryTypeOutgoing,
		ScheduledDate: scheduledDate,
		Lines:         make([]DeliveryLine, 0),
	}, nil
}

// AddLine appends a movement line to the delivery
func (d *Delivery) AddLine(productID uuid.UUID, quantityDone, cwQuantityDone decimal.Decimal, unit string) (*DeliveryLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	line := DeliveryLine{
		BaseEntity:     shared.NewBaseEntity(),
		DeliveryID:     d.ID,
		ProductID:      productID,
		QuantityDone:   quantityDone,
		CWQuantityDone: cwQuantityDone,
		Unit:           unit,
	}
	d.Lines = append(d.Lines, line)
	return &d.Lines[len(d.Lines)-1], nil
}

// LinkSaleOrder attaches the originating sale order
func (d *Delivery) LinkSaleOrder(orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "Sale order ID cannot be empty")
	}
	d.SaleOrderID = &orderID
	return nil
}

// MarkDone completes the delivery
func (d *Delivery) MarkDone() error {
	if d.State == DeliveryStateCancelled {
		return shared.ErrInvalidState
	}
	d.State = DeliveryStateDone
	d.UpdatedAt = time.Now()
	return nil
}

// MarkInvoiced flags the delivery as billed. A delivery is billed at most
// once; a second attempt is a programming error upstream.
func (d *Delivery) MarkInvoiced() error {
	if d.Invoiced {
		return shared.ErrAlreadyInvoiced
	}
	d.Invoiced = true
	d.UpdatedAt = time.Now()
	return nil
}

// IsEligibleForInvoicing reports whether the robot should consider this
// delivery: completed, outgoing, linked to a sale order, not yet invoiced.
func (d *Delivery) IsEligibleForInvoicing() bool {
	return d.State == DeliveryStateDone &&
		d.TypeCode == DeliveryTypeOutgoing &&
		!d.Invoiced &&
		d.SaleOrderID != nil
}
