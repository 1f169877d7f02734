package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeliveryRepository defines the interface for delivery persistence
type DeliveryRepository interface {
	// FindByID finds a delivery by ID with its lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Delivery, error)

	// FindInvoiceable finds completed outgoing deliveries not yet invoiced
	// with a scheduled date on or after the given start date, for a company.
	// Lines are preloaded.
	FindInvoiceable(ctx context.Context, companyID uuid.UUID, startDate time.Time) ([]Delivery, error)

	// Save creates or updates a delivery with its lines
	Save(ctx context.Context, delivery *Delivery) error
}
