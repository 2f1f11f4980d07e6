package aggregate

import (
	"time"

	"salesdesk/internal/domain/event"
	"salesdesk/internal/domain/valueobject"

	"github.com/google/uuid"
)

// SaleLine is one product line within a sale. Quantity, unit price and
// discount rate are fixed at construction; the total is derived from them
// once and never recomputed. Changing a line means replacing it through
// Sale.ClearLines and Sale.AddLine, not editing it in place.
type SaleLine struct {
	id           string
	product      valueobject.ProductInfo
	quantity     int
	unitPrice    float64
	discountRate float64
	total        float64
	cancelled    bool

	uncommittedEvents []event.DomainEvent
}

// NewSaleLine creates a sale line and derives its total. Quantity bounds and
// the discount rate are the owning Sale's responsibility; no validation
// happens here.
func NewSaleLine(product valueobject.ProductInfo, quantity int, unitPrice, discountRate float64) *SaleLine {
	return &SaleLine{
		id:           uuid.New().String(),
		product:      product,
		quantity:     quantity,
		unitPrice:    unitPrice,
		discountRate: discountRate,
		total:        float64(quantity) * unitPrice * (1 - discountRate),
		cancelled:    false,
	}
}

// RehydrateSaleLine rebuilds a line from persisted state without raising events.
func RehydrateSaleLine(id string, product valueobject.ProductInfo, quantity int, unitPrice, discountRate, total float64, cancelled bool) *SaleLine {
	return &SaleLine{
		id:           id,
		product:      product,
		quantity:     quantity,
		unitPrice:    unitPrice,
		discountRate: discountRate,
		total:        total,
		cancelled:    cancelled,
	}
}

// Cancel marks the line as cancelled and raises an ItemCancelled event on the
// line's own event log. There is no guard against cancelling twice: the state
// transition is idempotent, the event emission is not.
func (l *SaleLine) Cancel(saleID string) {
	l.cancelled = true
	l.raiseEvent(&event.ItemCancelled{
		SaleID:    saleID,
		ItemID:    l.id,
		Timestamp: time.Now().UTC(),
	})
}

func (l *SaleLine) ID() string                       { return l.id }
func (l *SaleLine) Product() valueobject.ProductInfo { return l.product }
func (l *SaleLine) Quantity() int                    { return l.quantity }
func (l *SaleLine) UnitPrice() float64               { return l.unitPrice }
func (l *SaleLine) DiscountRate() float64            { return l.discountRate }
func (l *SaleLine) Total() float64                   { return l.total }
func (l *SaleLine) IsCancelled() bool                { return l.cancelled }

// GetUncommittedEvents returns the events raised on this line since the last
// clear. The returned slice is a copy.
func (l *SaleLine) GetUncommittedEvents() []event.DomainEvent {
	events := make([]event.DomainEvent, len(l.uncommittedEvents))
	copy(events, l.uncommittedEvents)
	return events
}

// ClearUncommittedEvents empties the event log after dispatch.
func (l *SaleLine) ClearUncommittedEvents() {
	l.uncommittedEvents = nil
}

func (l *SaleLine) raiseEvent(ev event.DomainEvent) {
	l.uncommittedEvents = append(l.uncommittedEvents, ev)
}
