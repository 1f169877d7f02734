package invoicing

import (
	"context"

	"github.com/erp/invoicerobot/internal/domain/catalog"
	"github.com/erp/invoicerobot/internal/domain/inventory"
	"github.com/erp/invoicerobot/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutstandingMap maps a sale order line ID to its not-yet-invoiced quantity.
// Catch-weight products are counted in the catch-weight unit, everything else
// in the standard unit. Absence of a key means the line is fully invoiced;
// values are always strictly positive.
type OutstandingMap map[uuid.UUID]decimal.Decimal

// NormalizeOutstanding unwraps an outstanding mapping that an upstream caller
// delivered wrapped in a length-1 slice. The legacy scheduler serialized the
// mapping as a single-element list on some code paths; until that producer is
// fixed the consumer side stays tolerant. Anything else comes back as an
// empty mapping.
func NormalizeOutstanding(v interface{}) OutstandingMap {
	switch m := v.(type) {
	case OutstandingMap:
		return m
	case map[uuid.UUID]decimal.Decimal:
		return m
	case []OutstandingMap:
		if len(m) == 1 {
			return m[0]
		}
	}
	return OutstandingMap{}
}

// OutstandingCalculator computes not-yet-invoiced quantities per sale order
// line for one or more deliveries.
type OutstandingCalculator struct {
	orders   trade.SaleOrderRepository
	products catalog.ProductRepository
}

// NewOutstandingCalculator creates a new OutstandingCalculator
func NewOutstandingCalculator(orders trade.SaleOrderRepository, products catalog.ProductRepository) *OutstandingCalculator {
	return &OutstandingCalculator{
		orders:   orders,
		products: products,
	}
}

// Compute walks the originating sale order of each delivery (not the
// delivery's own movement lines) and returns the outstanding quantity per
// sale line. Lines with non-positive outstanding are omitted entirely.
func (c *OutstandingCalculator) Compute(ctx context.Context, deliveries ...*inventory.Delivery) (OutstandingMap, error) {
	outstanding := make(OutstandingMap)
	productCache := make(map[uuid.UUID]*catalog.Product)

	for _, delivery := range deliveries {
		if delivery.SaleOrderID == nil {
			continue
		}
		order, err := c.orders.FindByID(ctx, *delivery.SaleOrderID)
		if err != nil {
			return nil, err
		}

		for idx := range order.Lines {
			line := &order.Lines[idx]
			product, err := c.product(ctx, productCache, line.ProductID)
			if err != nil {
				return nil, err
			}

			var qty decimal.Decimal
			if product.IsCatchWeight() {
				qty = line.OutstandingCatchWeight()
			} else {
				qty = line.OutstandingStandard()
			}
			if qty.IsPositive() {
				outstanding[line.ID] = qty
			}
		}
	}

	return outstanding, nil
}

func (c *OutstandingCalculator) product(ctx context.Context, cache map[uuid.UUID]*catalog.Product, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	p, err := c.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = p
	return p, nil
}
