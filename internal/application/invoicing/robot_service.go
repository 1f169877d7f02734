package invoicing

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/invoicerobot/internal/domain/billing"
	"github.com/erp/invoicerobot/internal/domain/inventory"
	"github.com/erp/invoicerobot/internal/domain/partner"
	"github.com/erp/invoicerobot/internal/domain/sysparam"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// startDateLayout is the wire format of the start-date system parameter
const startDateLayout = "2006-01-02"

// TxRunner runs a function inside a single persisted transaction. The robot
// commits once per successfully created invoice so a mid-batch fault loses at
// most the invoice being built, never the ones already committed.
type TxRunner interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// RobotService is the batch orchestrator: it reads the configured start date,
// recovers draft invoices left over from interrupted runs, and turns eligible
// deliveries into invoices company by company.
type RobotService struct {
	params       sysparam.Repository
	companies    partner.CompanyRepository
	customers    partner.CustomerRepository
	deliveries   inventory.DeliveryRepository
	invoices     billing.InvoiceRepository
	messages     billing.MessagePoster
	calculator   *OutstandingCalculator
	materializer *InvoiceMaterializer
	finalizer    InvoiceFinalizer
	tx           TxRunner
	robotUserID  uuid.UUID
	logger       *zap.Logger
}

// NewRobotService creates a new RobotService
func NewRobotService(
	params sysparam.Repository,
	companies partner.CompanyRepository,
	customers partner.CustomerRepository,
	deliveries inventory.DeliveryRepository,
	invoices billing.InvoiceRepository,
	messages billing.MessagePoster,
	calculator *OutstandingCalculator,
	materializer *InvoiceMaterializer,
	finalizer InvoiceFinalizer,
	tx TxRunner,
	robotUserID uuid.UUID,
	logger *zap.Logger,
) *RobotService {
	return &RobotService{
		params:       params,
		companies:    companies,
		customers:    customers,
		deliveries:   deliveries,
		invoices:     invoices,
		messages:     messages,
		calculator:   calculator,
		materializer: materializer,
		finalizer:    finalizer,
		tx:           tx,
		robotUserID:  robotUserID,
		logger:       logger,
	}
}

// Run executes one batch. A missing or malformed start-date parameter aborts
// the whole run before any company is touched. Per-company failures are
// logged and do not stop the remaining companies.
func (s *RobotService) Run(ctx context.Context) (*RunResult, error) {
	startDate, err := s.startDate(ctx)
	if err != nil {
		s.logger.Error("Error reading invoice_robot.start_date system parameter",
			zap.Error(err),
		)
		return nil, err
	}

	companies, err := s.companies.FindRobotEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to load robot-enabled companies", zap.Error(err))
		return nil, err
	}

	result := &RunResult{}
	for idx := range companies {
		company := &companies[idx]
		companyResult := s.runCompany(ctx, company, startDate)

		result.CompaniesProcessed++
		result.InvoicesCreated += companyResult.InvoicesCreated
		result.DeliveriesSkipped += companyResult.DeliveriesSkipped
		result.FinalizeFailures += companyResult.FinalizeFailures
		if !companyResult.RecoverySucceeded {
			result.RecoveryFailures++
		}
	}

	s.logger.Info("Invoice robot run completed",
		zap.Int("companies", result.CompaniesProcessed),
		zap.Int("invoices_created", result.InvoicesCreated),
		zap.Int("deliveries_skipped", result.DeliveriesSkipped),
		zap.Int("recovery_failures", result.RecoveryFailures),
	)
	return result, nil
}

// runCompany processes one company: recovery first, then discovery and
// invoice creation. Recovery failure is observed but never gates discovery.
func (s *RobotService) runCompany(ctx context.Context, company *partner.Company, startDate time.Time) CompanyRunResult {
	result := CompanyRunResult{RecoverySucceeded: true}
	run := NewRunContext(company, s.robotUserID)

	if ok := s.ProcessDraftInvoices(ctx, company.ID); !ok {
		result.RecoverySucceeded = false
	}

	deliveries, err := s.deliveries.FindInvoiceable(ctx, company.ID, startDate)
	if err != nil {
		s.logger.Error("Failed to load invoiceable deliveries",
			zap.String("company", company.Name),
			zap.Error(err),
		)
		return result
	}

	groups := s.groupByInvoiceCustomer(ctx, deliveries)
	for customerID, customerDeliveries := range groups {
		s.logger.Debug("Processing deliveries for customer",
			zap.String("customer_id", customerID.String()),
			zap.Int("deliveries", len(customerDeliveries)),
		)
		for _, delivery := range customerDeliveries {
			if !delivery.IsEligibleForInvoicing() {
				continue
			}
			created, err := s.invoiceDelivery(ctx, run, delivery)
			if err != nil {
				s.logger.Error("Failed to create invoice for delivery",
					zap.String("delivery", delivery.Reference),
					zap.Error(err),
				)
				continue
			}
			if created == nil {
				// Nothing outstanding: silent skip, flag untouched
				result.DeliveriesSkipped++
				continue
			}
			result.InvoicesCreated++
			if err := s.finalizer.Finalize(ctx, created); err != nil {
				// The invoice stays draft; the recovery pass picks it
				// up on the next run.
				result.FinalizeFailures++
				s.logger.Warn("Failed to finalize invoice, left in draft",
					zap.String("invoice_id", created.ID.String()),
					zap.Error(err),
				)
			}
		}
	}

	return result
}

// invoiceDelivery computes outstanding quantities, materializes the invoice,
// marks the delivery invoiced and commits, all in one transaction. Returns
// nil when nothing was outstanding.
func (s *RobotService) invoiceDelivery(ctx context.Context, run RunContext, delivery *inventory.Delivery) (*billing.Invoice, error) {
	outstanding, err := s.calculator.Compute(ctx, delivery)
	if err != nil {
		return nil, err
	}
	if len(outstanding) == 0 {
		return nil, nil
	}

	var invoice *billing.Invoice
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		created, err := s.materializer.Materialize(txCtx, run, delivery, outstanding)
		if err != nil {
			return err
		}
		if created == nil {
			return nil
		}
		if err := delivery.MarkInvoiced(); err != nil {
			return err
		}
		if err := s.deliveries.Save(txCtx, delivery); err != nil {
			return err
		}
		invoice = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ProcessDraftInvoices re-runs finalization for robot-generated invoices
// still in draft for a company. The first failure stops the loop: a warning
// is logged, an audit message naming the invoice is posted on it, and false
// is returned. Returns true only when every draft finalized. Partial
// progress persists; this is best-effort recovery, not a transaction.
func (s *RobotService) ProcessDraftInvoices(ctx context.Context, companyID uuid.UUID) bool {
	if companyID == uuid.Nil {
		return false
	}

	drafts, err := s.invoices.FindRobotDrafts(ctx, companyID)
	if err != nil {
		s.logger.Warn("Failed to load robot draft invoices", zap.Error(err))
		return false
	}

	for idx := range drafts {
		invoice := &drafts[idx]
		if err := s.finalizer.Finalize(ctx, invoice); err != nil {
			s.logger.Warn("Draft invoice recovery stopped",
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
			msg := fmt.Sprintf("ERROR: Failed to process draft invoice %s (%s):\n%v",
				invoice.Number, invoice.ID, err)
			if postErr := s.messages.PostMessage(ctx, invoice.ID, msg); postErr != nil {
				s.logger.Warn("Failed to post audit message on invoice",
					zap.String("invoice_id", invoice.ID.String()),
					zap.Error(postErr),
				)
			}
			return false
		}
	}
	return true
}

// groupByInvoiceCustomer partitions deliveries by resolved customer: the
// customer's invoicing sub-contact when one exists, else the customer itself.
func (s *RobotService) groupByInvoiceCustomer(ctx context.Context, deliveries []inventory.Delivery) map[uuid.UUID][]*inventory.Delivery {
	groups := make(map[uuid.UUID][]*inventory.Delivery)
	resolved := make(map[uuid.UUID]uuid.UUID)

	for idx := range deliveries {
		delivery := &deliveries[idx]
		invoiceCustomerID, ok := resolved[delivery.CustomerID]
		if !ok {
			invoiceCustomerID = s.resolveInvoiceCustomer(ctx, delivery.CustomerID)
			resolved[delivery.CustomerID] = invoiceCustomerID
		}
		groups[invoiceCustomerID] = append(groups[invoiceCustomerID], delivery)
	}
	return groups
}

// resolveInvoiceCustomer returns the invoicing sub-contact of a customer,
// falling back to the customer itself
func (s *RobotService) resolveInvoiceCustomer(ctx context.Context, customerID uuid.UUID) uuid.UUID {
	contact, err := s.customers.FindInvoiceContact(ctx, customerID)
	if err != nil {
		return customerID
	}
	return contact.ID
}

// startDate reads and parses the start-date system parameter
func (s *RobotService) startDate(ctx context.Context) (time.Time, error) {
	value, err := s.params.Get(ctx, sysparam.KeyInvoiceRobotStartDate)
	if err != nil {
		return time.Time{}, err
	}
	startDate, err := time.Parse(startDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed start date %q: %w", value, err)
	}
	return startDate, nil
}
