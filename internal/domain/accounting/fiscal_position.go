package accounting

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountMapping remaps one income account to another under a fiscal position
type AccountMapping struct {
	SourceAccountID uuid.UUID `json:"source_account_id"`
	TargetAccountID uuid.UUID `json:"target_account_id"`
}

// AccountMappings is stored as JSONB inside the fiscal position row
type AccountMappings []AccountMapping

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m AccountMappings) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *AccountMappings) Scan(value interface{}) error {
	if value == nil {
		*m = AccountMappings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan AccountMappings: unsupported type")
	}

	if len(bytes) == 0 {
		*m = AccountMappings{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// FiscalPosition is a rule set remapping accounts based on the customer's
// jurisdiction. A sale order may carry its own fiscal position; otherwise the
// billing customer's default applies.
type FiscalPosition struct {
	shared.CompanyEntity
	Name            string          `gorm:"not null"`
	AccountMappings AccountMappings `gorm:"type:jsonb"`
}

// NewFiscalPosition creates a new fiscal position
func NewFiscalPosition(companyID uuid.UUID, name string) (*FiscalPosition, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Fiscal position name cannot be empty")
	}
	return &FiscalPosition{
		CompanyEntity:   shared.NewCompanyEntity(companyID),
		Name:            name,
		AccountMappings: AccountMappings{},
	}, nil
}

// AddAccountMapping registers a source-to-target account remap
func (f *FiscalPosition) AddAccountMapping(source, target uuid.UUID) error {
	if source == uuid.Nil || target == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account IDs cannot be empty")
	}
	f.AccountMappings = append(f.AccountMappings, AccountMapping{
		SourceAccountID: source,
		TargetAccountID: target,
	})
	return nil
}

// MapAccount remaps an account through the position's mappings.
// Accounts without a mapping pass through unchanged.
func (f *FiscalPosition) MapAccount(accountID uuid.UUID) uuid.UUID {
	for _, m := range f.AccountMappings {
		if m.SourceAccountID == accountID {
			return m.TargetAccountID
		}
	}
	return accountID
}
