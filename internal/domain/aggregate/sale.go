package aggregate

import (
	"errors"
	"fmt"
	"time"

	"salesdesk/internal/domain/event"
	"salesdesk/internal/domain/valueobject"

	"github.com/google/uuid"
)

var (
	// ErrInvalidQuantity is raised by AddLine when the quantity is outside [1, 20].
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrLineNotFound is raised by CancelLine when no line carries the given ID.
	ErrLineNotFound = errors.New("sale line not found")
)

// maxIdenticalItems is the upper bound on how many identical items a single
// line may sell.
const maxIdenticalItems = 20

// Sale is the aggregate root for a sales transaction. It owns its line
// collection, enforces the quantity-based discount policy on insertion, and
// records structural changes as domain events for the persistence boundary
// to dispatch.
type Sale struct {
	id          string
	saleNumber  string
	date        time.Time
	customer    valueobject.CustomerInfo
	branch      string
	lines       []*SaleLine
	totalAmount float64
	cancelled   bool

	uncommittedEvents []event.DomainEvent
}

// NewSale creates a sale with an empty line collection and queues the
// SaleCreated event. saleNumber and branch are not validated here; request
// validation owns that.
func NewSale(saleNumber string, date time.Time, customer valueobject.CustomerInfo, branch string) *Sale {
	sale := &Sale{
		id:         uuid.New().String(),
		saleNumber: saleNumber,
		date:       date,
		customer:   customer,
		branch:     branch,
		cancelled:  false,
	}

	sale.raiseEvent(&event.SaleCreated{
		SaleID:    sale.id,
		Timestamp: time.Now().UTC(),
	})

	return sale
}

// RehydrateSale rebuilds a sale from persisted state without raising events.
func RehydrateSale(id, saleNumber string, date time.Time, customer valueobject.CustomerInfo, branch string, lines []*SaleLine, totalAmount float64, cancelled bool) *Sale {
	return &Sale{
		id:          id,
		saleNumber:  saleNumber,
		date:        date,
		customer:    customer,
		branch:      branch,
		lines:       lines,
		totalAmount: totalAmount,
		cancelled:   cancelled,
	}
}

// AddLine validates the quantity, derives the discount tier, appends a new
// line and recomputes the total. The created line is returned so callers can
// address it afterwards by identity instead of by position. On failure the
// sale is left untouched.
//
// Discount tiers: 10-20 items 20%, 4-9 items 10%, 1-3 items none.
func (s *Sale) AddLine(product valueobject.ProductInfo, quantity int, unitPrice float64) (*SaleLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidQuantity)
	}
	if quantity > maxIdenticalItems {
		return nil, fmt.Errorf("%w: cannot sell more than %d identical items", ErrInvalidQuantity, maxIdenticalItems)
	}

	line := NewSaleLine(product, quantity, unitPrice, discountForQuantity(quantity))
	s.lines = append(s.lines, line)
	s.recalculateTotal()

	return line, nil
}

func discountForQuantity(quantity int) float64 {
	switch {
	case quantity >= 10:
		return 0.20
	case quantity >= 4:
		return 0.10
	default:
		return 0
	}
}

// Cancel marks the sale as cancelled and always raises a SaleCancelled event,
// even when the sale is already cancelled. Lines are not cancelled.
func (s *Sale) Cancel() {
	s.cancelled = true
	s.raiseEvent(&event.SaleCancelled{
		SaleID:    s.id,
		Timestamp: time.Now().UTC(),
	})
}

// MarkModified raises a single SaleModified event for a batch of structural
// edits. No other state changes.
func (s *Sale) MarkModified() {
	s.raiseEvent(&event.SaleModified{
		SaleID:    s.id,
		Timestamp: time.Now().UTC(),
	})
}

// UpdateDetails overwrites the sale's header fields during an update batch.
func (s *Sale) UpdateDetails(saleNumber string, date time.Time, branch string) {
	s.saleNumber = saleNumber
	s.date = date
	s.branch = branch
}

// ClearLines empties the line collection and resets the total. Used by the
// replace-all-lines update workflow before the incoming lines are re-added.
func (s *Sale) ClearLines() {
	s.lines = nil
	s.recalculateTotal()
}

// CancelLine cancels the line carrying the given ID. The ItemCancelled event
// lands on the line's own event log.
func (s *Sale) CancelLine(lineID string) error {
	for _, line := range s.lines {
		if line.ID() == lineID {
			line.Cancel(s.id)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
}

// recalculateTotal sums every line's total. Cancelled lines stay in the sum:
// a cancelled line keeps contributing to the recorded amount until the sale
// is re-issued without it.
func (s *Sale) recalculateTotal() {
	total := 0.0
	for _, line := range s.lines {
		total += line.Total()
	}
	s.totalAmount = total
}

func (s *Sale) ID() string                         { return s.id }
func (s *Sale) SaleNumber() string                 { return s.saleNumber }
func (s *Sale) Date() time.Time                    { return s.date }
func (s *Sale) Customer() valueobject.CustomerInfo { return s.customer }
func (s *Sale) Branch() string                     { return s.branch }
func (s *Sale) TotalAmount() float64               { return s.totalAmount }
func (s *Sale) IsCancelled() bool                  { return s.cancelled }

// Lines returns the sale's lines in insertion order. The slice is a copy; the
// lines themselves are the aggregate's own entities.
func (s *Sale) Lines() []*SaleLine {
	lines := make([]*SaleLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// GetUncommittedEvents returns the events raised on the sale since the last
// clear. Line events live on each line's own log. The returned slice is a copy.
func (s *Sale) GetUncommittedEvents() []event.DomainEvent {
	events := make([]event.DomainEvent, len(s.uncommittedEvents))
	copy(events, s.uncommittedEvents)
	return events
}

// ClearUncommittedEvents empties the event log after dispatch.
func (s *Sale) ClearUncommittedEvents() {
	s.uncommittedEvents = nil
}

func (s *Sale) raiseEvent(ev event.DomainEvent) {
	s.uncommittedEvents = append(s.uncommittedEvents, ev)
}
