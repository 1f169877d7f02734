package inventory

import (
	"testing"
	"time"

	"github.com/erp/invoicerobot/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoneDelivery(t *testing.T) *Delivery {
	t.Helper()
	d, err := NewDelivery(uuid.New(), "WH/OUT/0001", uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, d.LinkSaleOrder(uuid.New()))
	require.NoError(t, d.MarkDone())
	return d
}

func TestDelivery_MarkInvoiced(t *testing.T) {
	t.Run("marks once", func(t *testing.T) {
		d := newDoneDelivery(t)

		require.NoError(t, d.MarkInvoiced())
		assert.True(t, d.Invoiced)
	})

	t.Run("second attempt fails", func(t *testing.T) {
		d := newDoneDelivery(t)
		require.NoError(t, d.MarkInvoiced())

		err := d.MarkInvoiced()
		assert.ErrorIs(t, err, shared.ErrAlreadyInvoiced)
	})
}

func TestDelivery_IsEligibleForInvoicing(t *testing.T) {
	t.Run("done outgoing uninvoiced with order is eligible", func(t *testing.T) {
		d := newDoneDelivery(t)
		assert.True(t, d.IsEligibleForInvoicing())
	})

	t.Run("draft delivery is not eligible", func(t *testing.T) {
		d, err := NewDelivery(uuid.New(), "WH/OUT/0002", uuid.New(), time.Now())
		require.NoError(t, err)
		require.NoError(t, d.LinkSaleOrder(uuid.New()))

		assert.False(t, d.IsEligibleForInvoicing())
	})

	t.Run("invoiced delivery is not eligible", func(t *testing.T) {
		d := newDoneDelivery(t)
		require.NoError(t, d.MarkInvoiced())

		assert.False(t, d.IsEligibleForInvoicing())
	})

	t.Run("delivery without sale order is not eligible", func(t *testing.T) {
		d, err := NewDelivery(uuid.New(), "WH/OUT/0003", uuid.New(), time.Now())
		require.NoError(t, err)
		require.NoError(t, d.MarkDone())

		assert.False(t, d.IsEligibleForInvoicing())
	})

	t.Run("incoming delivery is not eligible", func(t *testing.T) {
		d := newDoneDelivery(t)
		d.TypeCode = DeliveryTypeIncoming

		assert.False(t, d.IsEligibleForInvoicing())
	})
}

func TestDelivery_AddLine(t *testing.T) {
	d, err := NewDelivery(uuid.New(), "WH/OUT/0004", uuid.New(), time.Now())
	require.NoError(t, err)

	line, err := d.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.Zero, "box")
	require.NoError(t, err)
	assert.Equal(t, d.ID, line.DeliveryID)
	assert.Len(t, d.Lines, 1)

	_, err = d.AddLine(uuid.Nil, decimal.NewFromInt(1), decimal.Zero, "box")
	assert.Error(t, err)
}

func TestDelivery_MarkDone(t *testing.T) {
	t.Run("cancelled delivery cannot be completed", func(t *testing.T) {
		d, err := NewDelivery(uuid.New(), "WH/OUT/0005", uuid.New(), time.Now())
		require.NoError(t, err)
		d.State = DeliveryStateCancelled

		assert.ErrorIs(t, d.MarkDone(), shared.ErrInvalidState)
	})
}
