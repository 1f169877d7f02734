package trade

import (
	"context"

	"github.com/google/uuid"
)

// SaleOrderRepository defines the interface for sale order persistence
type SaleOrderRepository interface {
	// FindByID finds a sale order by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*SaleOrder, error)

	// Save creates or updates a sale order with its lines
	Save(ctx context.Context, order *SaleOrder) error

	// SaveLine updates a single order line (invoiced quantity bookkeeping)
	SaveLine(ctx context.Context, line *SaleOrderLine) error
}
