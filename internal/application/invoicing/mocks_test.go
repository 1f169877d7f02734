package invoicing

import (
	"context"
	"time"

	"github.com/erp/invoicerobot/internal/domain/accounting"
	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/catalog"
	"github.com/erp/invoicerobot/internal/domain/inventory"
	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/erp/invoicerobot/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockParameterRepository is a mock implementation of sysparam.Repository
type MockParameterRepository struct {
	mock.Mock
}

func (m *MockParameterRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockParameterRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockCompanyRepository is a mock implementation of partner.CompanyRepository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindRobotEnabled(ctx context.Context) ([]partner.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindInvoiceContact(ctx context.Context, customerID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockSaleOrderRepository is a mock implementation of trade.SaleOrderRepository
type MockSaleOrderRepository struct {
	mock.Mock
}

func (m *MockSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SaleOrder), args.Error(1)
}

func (m *MockSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSaleOrderRepository) SaveLine(ctx context.Context, line *trade.SaleOrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// MockDeliveryRepository is a mock implementation of inventory.DeliveryRepository
type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) FindInvoiceable(ctx context.Context, companyID uuid.UUID, startDate time.Time) ([]inventory.Delivery, error) {
	args := m.Called(ctx, companyID, startDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) Save(ctx context.Context, delivery *inventory.Delivery) error {
	args := m.Called(ctx, delivery)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindRobotDrafts(ctx context.Context, companyID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, companyID uuid.UUID, journalCode string) (string, error) {
	args := m.Called(ctx, companyID, journalCode)
	return args.String(0), args.Error(1)
}

// MockJournalRepository is a mock implementation of accounting.JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Journal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindFirstActiveSaleJournal(ctx context.Context, companyID uuid.UUID) (*accounting.Journal, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Journal), args.Error(1)
}

func (m *MockJournalRepository) Save(ctx context.Context, journal *accounting.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

// MockFiscalPositionRepository is a mock implementation of accounting.FiscalPositionRepository
type MockFiscalPositionRepository struct {
	mock.Mock
}

func (m *MockFiscalPositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FiscalPosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.FiscalPosition), args.Error(1)
}

func (m *MockFiscalPositionRepository) Save(ctx context.Context, position *accounting.FiscalPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

// MockMessagePoster is a mock implementation of billing.MessagePoster
type MockMessagePoster struct {
	mock.Mock
}

func (m *MockMessagePoster) PostMessage(ctx context.Context, invoiceID uuid.UUID, body string) error {
	args := m.Called(ctx, invoiceID, body)
	return args.Error(0)
}

// MockFinalizer is a mock implementation of InvoiceFinalizer
type MockFinalizer struct {
	mock.Mock
}

func (m *MockFinalizer) Finalize(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

// passthroughTxRunner executes the function directly, without a transaction
type passthroughTxRunner struct{}

func (passthroughTxRunner) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
