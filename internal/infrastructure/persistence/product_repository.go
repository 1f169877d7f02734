package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/catalog"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID with its category loaded, so income
// account resolution can fall back to the category without another query
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := conn(ctx, r.db).
		Preload("Category").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
