package sysparam

import (
	"context"

	"github.com/erp/invoicerobot/internal/domain/shared"
)

// KeyInvoiceRobotStartDate holds the date (YYYY-MM-DD) from which the robot
// considers deliveries for invoicing. The batch refuses to run without it.
const KeyInvoiceRobotStartDate = "invoice_robot.start_date"

// Parameter is a system-wide key-value configuration entry
type Parameter struct {
	shared.BaseEntity
	Key   string `gorm:"size:100;not null;uniqueIndex"`
	Value string `gorm:"not null"`
}

// NewParameter creates a new system parameter
func NewParameter(key, value string) (*Parameter, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Parameter key cannot be empty")
	}
	return &Parameter{
		BaseEntity: shared.NewBaseEntity(),
		Key:        key,
		Value:      value,
	}, nil
}

// Repository defines the interface for system parameter persistence
type Repository interface {
	// Get returns the value for a key. Returns shared.ErrParameterNotSet
	// when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for a key
	Set(ctx context.Context, key, value string) error
}
