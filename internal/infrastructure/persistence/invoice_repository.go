package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID with its lines loaded
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := conn(ctx, r.db).
		Preload("Lines").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindRobotDrafts finds robot-generated invoices still in draft for a
// company, oldest first so recovery replays them in creation order
func (r *GormInvoiceRepository) FindRobotDrafts(ctx context.Context, companyID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := conn(ctx, r.db).
		Preload("Lines").
		Where("company_id = ? AND robot_generated = ? AND status = ?",
			companyID, true, billing.InvoiceStatusDraft).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice with its lines
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return conn(ctx, r.db).Save(invoice).Error
}

// NextInvoiceNumber generates the next number in the company's journal
// sequence. Format: CODE/YYYY/NNNNN (e.g., INV/2024/00042). The sequence
// restarts every year per journal code.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID, journalCode string) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s/%d/", journalCode, year)

	var last billing.Invoice
	err := conn(ctx, r.db).
		Model(&billing.Invoice{}).
		Where("company_id = ? AND number LIKE ?", companyID, prefix+"%").
		Order("number DESC").
		First(&last).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.Number != "" {
		parts := strings.Split(last.Number, "/")
		if len(parts) == 3 {
			if n, parseErr := strconv.ParseInt(parts[2], 10, 64); parseErr == nil {
				nextNum = n + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// GormMessagePoster implements billing.MessagePoster using GORM
type GormMessagePoster struct {
	db *gorm.DB
}

// NewGormMessagePoster creates a new GormMessagePoster
func NewGormMessagePoster(db *gorm.DB) *GormMessagePoster {
	return &GormMessagePoster{db: db}
}

// PostMessage attaches a free-text audit message to an invoice
func (p *GormMessagePoster) PostMessage(ctx context.Context, invoiceID uuid.UUID, body string) error {
	message, err := billing.NewInvoiceMessage(invoiceID, body)
	if err != nil {
		return err
	}
	return conn(ctx, p.db).Create(message).Error
}

// Ensure GormMessagePoster implements MessagePoster
var _ billing.MessagePoster = (*GormMessagePoster)(nil)
