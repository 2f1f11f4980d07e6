package event

import "time"

// SaleCreated event
type SaleCreated struct {
	SaleID    string    `json:"sale_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *SaleCreated) EventType() string     { return "SaleCreated" }
func (e *SaleCreated) AggregateID() string   { return e.SaleID }
func (e *SaleCreated) OccurredAt() time.Time { return e.Timestamp }
func (e *SaleCreated) Version() int          { return 1 }

// SaleCancelled event
type SaleCancelled struct {
	SaleID    string    `json:"sale_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *SaleCancelled) EventType() string     { return "SaleCancelled" }
func (e *SaleCancelled) AggregateID() string   { return e.SaleID }
func (e *SaleCancelled) OccurredAt() time.Time { return e.Timestamp }
func (e *SaleCancelled) Version() int          { return 1 }

// SaleModified event. Raised once per batch of structural edits, not per line.
type SaleModified struct {
	SaleID    string    `json:"sale_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *SaleModified) EventType() string     { return "SaleModified" }
func (e *SaleModified) AggregateID() string   { return e.SaleID }
func (e *SaleModified) OccurredAt() time.Time { return e.Timestamp }
func (e *SaleModified) Version() int          { return 1 }

// ItemCancelled event. Raised on the line's own event log, carrying the
// owning sale's identifier.
type ItemCancelled struct {
	SaleID    string    `json:"sale_id"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ItemCancelled) EventType() string     { return "ItemCancelled" }
func (e *ItemCancelled) AggregateID() string   { return e.SaleID }
func (e *ItemCancelled) OccurredAt() time.Time { return e.Timestamp }
func (e *ItemCancelled) Version() int          { return 1 }
