package invoicing

import (
	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/google/uuid"
)

// RunContext carries the company being processed and the acting robot user
// through every operation of a batch run. It replaces any ambient notion of
// "current company" - operations only see what they are handed.
type RunContext struct {
	Company *partner.Company
	UserID  uuid.UUID
}

// NewRunContext creates a run context for one company
func NewRunContext(company *partner.Company, userID uuid.UUID) RunContext {
	return RunContext{
		Company: company,
		UserID:  userID,
	}
}
