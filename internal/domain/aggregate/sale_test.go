package aggregate

import (
	"testing"
	"time"

	"salesdesk/internal/domain/event"
	"salesdesk/internal/domain/valueobject"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomer() valueobject.CustomerInfo {
	return valueobject.NewCustomerInfo("c-1", "Alice Costa", "alice@example.com")
}

func testProduct() valueobject.ProductInfo {
	return valueobject.NewProductInfo("p-1", "Lager 350ml")
}

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	return NewSale("S-0001", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), testCustomer(), "Centro")
}

func TestNewSaleQueuesCreatedEvent(t *testing.T) {
	sale := newTestSale(t)

	events := sale.GetUncommittedEvents()
	require.Len(t, events, 1)

	created, ok := events[0].(*event.SaleCreated)
	require.True(t, ok, "first event must be SaleCreated")
	assert.Equal(t, sale.ID(), created.SaleID)
	assert.False(t, created.Timestamp.IsZero())

	assert.False(t, sale.IsCancelled())
	assert.Zero(t, sale.TotalAmount())
	assert.Empty(t, sale.Lines())
}

func TestAddLineDiscountTiers(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		unitPrice    float64
		wantDiscount float64
		wantTotal    float64
	}{
		{"single item no discount", 1, 100, 0, 100},
		{"three items no discount", 3, 100, 0, 300},
		{"four items ten percent", 4, 100, 0.10, 360},
		{"five items ten percent", 5, 100, 0.10, 450},
		{"nine items ten percent", 9, 100, 0.10, 810},
		{"ten items twenty percent", 10, 100, 0.20, 800},
		{"twelve items twenty percent", 12, 50, 0.20, 480},
		{"twenty items twenty percent", 20, 100, 0.20, 1600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := newTestSale(t)

			line, err := sale.AddLine(testProduct(), tt.quantity, tt.unitPrice)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantDiscount, line.DiscountRate(), 1e-9)
			assert.InDelta(t, tt.wantTotal, line.Total(), 1e-9)
			assert.InDelta(t, tt.wantTotal, sale.TotalAmount(), 1e-9)
		})
	}
}

func TestAddLineRejectsQuantityOutOfBounds(t *testing.T) {
	for _, quantity := range []int{0, -1, 21, 100} {
		sale := newTestSale(t)

		line, err := sale.AddLine(testProduct(), quantity, 10)
		require.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", quantity)
		assert.Nil(t, line)

		// Failed insertion leaves the sale untouched.
		assert.Empty(t, sale.Lines())
		assert.Zero(t, sale.TotalAmount())
	}
}

func TestTotalAmountSumsAllLines(t *testing.T) {
	sale := newTestSale(t)

	_, err := sale.AddLine(testProduct(), 2, 100)
	require.NoError(t, err)
	_, err = sale.AddLine(valueobject.NewProductInfo("p-2", "IPA 500ml"), 10, 50)
	require.NoError(t, err)

	assert.InDelta(t, 600.0, sale.TotalAmount(), 1e-9) // 200 + 400
	require.Len(t, sale.Lines(), 2)
}

func TestTotalAmountKeepsCancelledLines(t *testing.T) {
	sale := newTestSale(t)

	line, err := sale.AddLine(testProduct(), 2, 100)
	require.NoError(t, err)
	_, err = sale.AddLine(valueobject.NewProductInfo("p-2", "IPA 500ml"), 1, 50)
	require.NoError(t, err)

	require.NoError(t, sale.CancelLine(line.ID()))

	// Cancelling a line does not remove it from the recorded amount.
	assert.InDelta(t, 250.0, sale.TotalAmount(), 1e-9)
	assert.True(t, sale.Lines()[0].IsCancelled())
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	sale := newTestSale(t)

	first, err := sale.AddLine(valueobject.NewProductInfo("p-1", "A"), 1, 10)
	require.NoError(t, err)
	second, err := sale.AddLine(valueobject.NewProductInfo("p-2", "B"), 1, 20)
	require.NoError(t, err)

	lines := sale.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, first.ID(), lines[0].ID())
	assert.Equal(t, second.ID(), lines[1].ID())
}

func TestCancelAlwaysAppendsEvent(t *testing.T) {
	sale := newTestSale(t)
	sale.ClearUncommittedEvents()

	sale.Cancel()
	sale.Cancel()

	assert.True(t, sale.IsCancelled())

	events := sale.GetUncommittedEvents()
	require.Len(t, events, 2, "each Cancel call emits its own event")
	for _, ev := range events {
		cancelled, ok := ev.(*event.SaleCancelled)
		require.True(t, ok)
		assert.Equal(t, sale.ID(), cancelled.SaleID)
	}
}

func TestCancelThenEventOrder(t *testing.T) {
	sale := newTestSale(t)
	sale.Cancel()

	events := sale.GetUncommittedEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "SaleCreated", events[0].EventType())
	assert.Equal(t, "SaleCancelled", events[1].EventType())
}

func TestMarkModifiedOnlyAppendsEvent(t *testing.T) {
	sale := newTestSale(t)
	_, err := sale.AddLine(testProduct(), 2, 100)
	require.NoError(t, err)
	sale.ClearUncommittedEvents()

	sale.MarkModified()

	assert.InDelta(t, 200.0, sale.TotalAmount(), 1e-9)
	assert.False(t, sale.IsCancelled())

	events := sale.GetUncommittedEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "SaleModified", events[0].EventType())
}

func TestCancelLineUnknownID(t *testing.T) {
	sale := newTestSale(t)
	_, err := sale.AddLine(testProduct(), 2, 100)
	require.NoError(t, err)

	err = sale.CancelLine("does-not-exist")
	require.ErrorIs(t, err, ErrLineNotFound)

	for _, line := range sale.Lines() {
		assert.False(t, line.IsCancelled())
		assert.Empty(t, line.GetUncommittedEvents())
	}
}

func TestClearLinesResetsTotal(t *testing.T) {
	sale := newTestSale(t)
	_, err := sale.AddLine(testProduct(), 5, 100)
	require.NoError(t, err)
	require.InDelta(t, 450.0, sale.TotalAmount(), 1e-9)

	sale.ClearLines()

	assert.Empty(t, sale.Lines())
	assert.Zero(t, sale.TotalAmount())
}

func TestUpdateDetailsOverwritesHeader(t *testing.T) {
	sale := newTestSale(t)
	newDate := time.Date(2025, 7, 2, 15, 0, 0, 0, time.UTC)

	sale.UpdateDetails("S-0002", newDate, "Norte")

	assert.Equal(t, "S-0002", sale.SaleNumber())
	assert.Equal(t, newDate, sale.Date())
	assert.Equal(t, "Norte", sale.Branch())
}

func TestReplaceAllLinesWorkflow(t *testing.T) {
	sale := newTestSale(t)
	_, err := sale.AddLine(testProduct(), 3, 10)
	require.NoError(t, err)
	sale.ClearUncommittedEvents()

	// Replace the lines, cancel one of the new ones, mark the batch.
	sale.ClearLines()
	kept, err := sale.AddLine(valueobject.NewProductInfo("p-2", "B"), 2, 100)
	require.NoError(t, err)
	dropped, err := sale.AddLine(valueobject.NewProductInfo("p-3", "C"), 10, 50)
	require.NoError(t, err)
	dropped.Cancel(sale.ID())
	sale.MarkModified()

	assert.InDelta(t, 600.0, sale.TotalAmount(), 1e-9)
	assert.False(t, kept.IsCancelled())
	assert.True(t, dropped.IsCancelled())

	saleEvents := sale.GetUncommittedEvents()
	require.Len(t, saleEvents, 1)
	assert.Equal(t, "SaleModified", saleEvents[0].EventType())

	lineEvents := dropped.GetUncommittedEvents()
	require.Len(t, lineEvents, 1)
	item, ok := lineEvents[0].(*event.ItemCancelled)
	require.True(t, ok)
	assert.Equal(t, sale.ID(), item.SaleID)
	assert.Equal(t, dropped.ID(), item.ItemID)
}

func TestClearUncommittedEvents(t *testing.T) {
	sale := newTestSale(t)
	require.NotEmpty(t, sale.GetUncommittedEvents())

	sale.ClearUncommittedEvents()
	assert.Empty(t, sale.GetUncommittedEvents())

	// Clearing does not suppress later events.
	sale.Cancel()
	assert.Len(t, sale.GetUncommittedEvents(), 1)
}

func TestRehydrateSaleRaisesNoEvents(t *testing.T) {
	lines := []*SaleLine{
		RehydrateSaleLine("l-1", testProduct(), 5, 100, 0.10, 450, false),
	}
	sale := RehydrateSale("s-1", "S-0009", time.Now().UTC(), testCustomer(), "Centro", lines, 450, false)

	assert.Empty(t, sale.GetUncommittedEvents())
	assert.Equal(t, "s-1", sale.ID())
	assert.InDelta(t, 450.0, sale.TotalAmount(), 1e-9)
	require.Len(t, sale.Lines(), 1)
}
