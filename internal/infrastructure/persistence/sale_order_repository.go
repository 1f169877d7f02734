package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleOrderRepository implements trade.SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

// FindByID finds a sale order by its ID with its lines loaded
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	var order trade.SaleOrder
	if err := conn(ctx, r.db).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Save creates or updates a sale order with its lines
func (r *GormSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	return conn(ctx, r.db).Save(order).Error
}

// SaveLine updates a single order line. Used when invoicing bumps the
// invoiced quantities without rewriting the whole order.
func (r *GormSaleOrderRepository) SaveLine(ctx context.Context, line *trade.SaleOrderLine) error {
	return conn(ctx, r.db).Save(line).Error
}

// Ensure GormSaleOrderRepository implements SaleOrderRepository
var _ trade.SaleOrderRepository = (*GormSaleOrderRepository)(nil)
