package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/invoicerobot/internal/domain/inventory"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDeliveryRepository implements inventory.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// FindByID finds a delivery by its ID with its movement lines loaded
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Delivery, error) {
	var delivery inventory.Delivery
	if err := conn(ctx, r.db).
		Preload("Lines").
		First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindInvoiceable finds done outgoing deliveries not yet invoiced, scheduled
// on or after the start date, for one company. Ordered by scheduled date so
// invoices come out in delivery order.
func (r *GormDeliveryRepository) FindInvoiceable(ctx context.Context, companyID uuid.UUID, startDate time.Time) ([]inventory.Delivery, error) {
	var deliveries []inventory.Delivery
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("company_id = ? AND state = ? AND type_code = ? AND invoiced = ? AND scheduled_date >= ?",
			companyID, inventory.DeliveryStateDone, inventory.DeliveryTypeOutgoing, false, startDate).
		Order("scheduled_date ASC, reference ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save creates or updates a delivery with its lines
func (r *GormDeliveryRepository) Save(ctx context.Context, delivery *inventory.Delivery) error {
	return conn(ctx, r.db).Save(delivery).Error
}

// Ensure GormDeliveryRepository implements DeliveryRepository
var _ inventory.DeliveryRepository = (*GormDeliveryRepository)(nil)
