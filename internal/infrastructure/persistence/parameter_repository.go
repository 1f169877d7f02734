package persistence

import (
	"context"
	"errors"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/erp/invoicerobot/internal/domain/sysparam"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormParameterRepository implements sysparam.Repository using GORM
type GormParameterRepository struct {
	db *gorm.DB
}

// NewGormParameterRepository creates a new GormParameterRepository
func NewGormParameterRepository(db *gorm.DB) *GormParameterRepository {
	return &GormParameterRepository{db: db}
}

// Get returns the value for a key
func (r *GormParameterRepository) Get(ctx context.Context, key string) (string, error) {
	var param sysparam.Parameter
	if err := conn(ctx, r.db).First(&param, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrParameterNotSet
		}
		return "", err
	}
	return param.Value, nil
}

// Set creates or replaces the value for a key
func (r *GormParameterRepository) Set(ctx context.Context, key, value string) error {
	param, err := sysparam.NewParameter(key, value)
	if err != nil {
		return err
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(param).Error
}

// Ensure GormParameterRepository implements sysparam.Repository
var _ sysparam.Repository = (*GormParameterRepository)(nil)
