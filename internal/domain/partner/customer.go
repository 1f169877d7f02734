package partner

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactType classifies a contact within a customer's contact hierarchy
type ContactType string

const (
	ContactTypeContact  ContactType = "contact"
	ContactTypeInvoice  ContactType = "invoice"
	ContactTypeDelivery ContactType = "delivery"
)

// IsValid checks if the contact type is valid
func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypeContact, ContactTypeInvoice, ContactTypeDelivery:
		return true
	}
	return false
}

// String returns the string representation of ContactType
func (t ContactType) String() string {
	return string(t)
}

// Customer represents a business partner (or one of its sub-contacts).
// Sub-contacts reference their parent via ParentID; a sub-contact of type
// "invoice" is the designated invoicing address for the parent.
type Customer struct {
	shared.BaseEntity
	Name                 string       `gorm:"not null"`
	ParentID             *uuid.UUID   `gorm:"type:uuid;index"`
	Type                 ContactType  `gorm:"size:20;not null;default:'contact'"`
	ReceivableAccountID  *uuid.UUID   `gorm:"type:uuid"`
	FiscalPositionID     *uuid.UUID   `gorm:"type:uuid"`
	GlobalDiscountIDs    shared.UUIDSlice `gorm:"type:jsonb"`
}

// NewCustomer creates a new top-level customer
func NewCustomer(name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       ContactTypeContact,
	}, nil
}

// NewSubContact creates a sub-contact attached to a parent customer
func NewSubContact(parentID uuid.UUID, name string, contactType ContactType) (*Customer, error) {
	if parentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent customer ID cannot be empty")
	}
	if !contactType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONTACT_TYPE", "Unknown contact type")
	}
	c, err := NewCustomer(name)
	if err != nil {
		return nil, err
	}
	c.ParentID = &parentID
	c.Type = contactType
	return c, nil
}

// IsSubContact returns true if this customer is attached to a parent
func (c *Customer) IsSubContact() bool {
	return c.ParentID != nil
}

// IsInvoiceContact returns true if this is a designated invoicing sub-contact
func (c *Customer) IsInvoiceContact() bool {
	return c.IsSubContact() && c.Type == ContactTypeInvoice
}
