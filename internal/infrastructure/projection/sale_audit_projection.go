package projection

import (
	"context"
	"fmt"
	"time"

	"salesdesk/internal/domain/event"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const auditCollection = "sale_audit"

type auditRecord struct {
	EventType  string    `bson:"event_type"`
	SaleID     string    `bson:"sale_id"`
	ItemID     string    `bson:"item_id,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// SaleAuditProjection records every dispatched sale domain event into an
// append-only audit collection.
type SaleAuditProjection struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewSaleAuditProjection(database *mongo.Database, logger *zap.Logger) *SaleAuditProjection {
	return &SaleAuditProjection{
		collection: database.Collection(auditCollection),
		logger:     logger,
	}
}

// HandleSaleEvent appends an audit record for any of the four sale event
// kinds.
func (p *SaleAuditProjection) HandleSaleEvent(ctx context.Context, ev event.DomainEvent) error {
	record := auditRecord{
		EventType:  ev.EventType(),
		SaleID:     ev.AggregateID(),
		OccurredAt: ev.OccurredAt(),
		RecordedAt: time.Now().UTC(),
	}

	if item, ok := ev.(*event.ItemCancelled); ok {
		record.ItemID = item.ItemID
	}

	if _, err := p.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}

	p.logger.Debug("audit event recorded",
		zap.String("event_type", record.EventType),
		zap.String("sale_id", record.SaleID),
	)
	return nil
}
