package accounting

import (
	"context"

	"github.com/google/uuid"
)

// JournalRepository defines the interface for journal persistence
type JournalRepository interface {
	// FindByID finds a journal by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Journal, error)

	// FindFirstActiveSaleJournal finds the first active sale journal for a
	// company, ordered by sequence. Returns shared.ErrNotFound when the
	// company has no active sale journal.
	FindFirstActiveSaleJournal(ctx context.Context, companyID uuid.UUID) (*Journal, error)

	// Save creates or updates a journal
	Save(ctx context.Context, journal *Journal) error
}

// FiscalPositionRepository defines the interface for fiscal position persistence
type FiscalPositionRepository interface {
	// FindByID finds a fiscal position by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FiscalPosition, error)

	// Save creates or updates a fiscal position
	Save(ctx context.Context, position *FiscalPosition) error
}
