package accounting

import (
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
)

// JournalType classifies an accounting journal
type JournalType string

const (
	JournalTypeSale     JournalType = "sale"
	JournalTypePurchase JournalType = "purchase"
	JournalTypeCash     JournalType = "cash"
	JournalTypeBank     JournalType = "bank"
	JournalTypeGeneral  JournalType = "general"
)

// IsValid checks if the journal type is valid
func (t JournalType) IsValid() bool {
	switch t {
	case JournalTypeSale, JournalTypePurchase, JournalTypeCash, JournalTypeBank, JournalTypeGeneral:
		return true
	}
	return false
}

// String returns the string representation of JournalType
func (t JournalType) String() string {
	return string(t)
}

// Journal represents an accounting journal. Robot invoices are booked on the
// first active sale journal of the invoice's company.
type Journal struct {
	shared.CompanyEntity
	Name      string      `gorm:"not null"`
	ShortCode string      `gorm:"size:10;not null"`
	Type      JournalType `gorm:"size:20;not null;index"`
	Active    bool        `gorm:"not null;default:true"`
	Sequence  int         `gorm:"not null;default:10"`
}

// NewJournal creates a new journal
func NewJournal(companyID uuid.UUID, name, shortCode string, journalType JournalType) (*Journal, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Company ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Journal name cannot be empty")
	}
	if shortCode == "" {
		return nil, shared.NewDomainError("INVALID_SHORT_CODE", "Journal short code cannot be empty")
	}
	if !journalType.IsValid() {
		return nil, shared.NewDomainError("INVALID_JOURNAL_TYPE", "Unknown journal type")
	}
	return &Journal{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		Name:          name,
		ShortCode:     shortCode,
		Type:          journalType,
		Active:        true,
		Sequence:      10,
	}, nil
}
