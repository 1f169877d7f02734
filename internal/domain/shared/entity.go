package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CompanyEntity extends BaseEntity with company scoping.
// Every record the invoicing batch touches belongs to exactly one company.
type CompanyEntity struct {
	BaseEntity
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewCompanyEntity creates a new company-scoped entity
func NewCompanyEntity(companyID uuid.UUID) CompanyEntity {
	return CompanyEntity{
		BaseEntity: NewBaseEntity(),
		CompanyID:  companyID,
	}
}
