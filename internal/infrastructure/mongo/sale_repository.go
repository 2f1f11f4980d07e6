package mongo

import (
	"context"
	"fmt"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"
	"salesdesk/internal/domain/valueobject"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const salesCollection = "sales"

type saleLineDocument struct {
	ID           string                  `bson:"_id"`
	Product      valueobject.ProductInfo `bson:"product"`
	Quantity     int                     `bson:"quantity"`
	UnitPrice    float64                 `bson:"unit_price"`
	DiscountRate float64                 `bson:"discount_rate"`
	Total        float64                 `bson:"total"`
	Cancelled    bool                    `bson:"cancelled"`
}

type saleDocument struct {
	ID          string                   `bson:"_id"`
	SaleNumber  string                   `bson:"sale_number"`
	Date        time.Time                `bson:"date"`
	Customer    valueobject.CustomerInfo `bson:"customer"`
	Branch      string                   `bson:"branch"`
	Lines       []saleLineDocument       `bson:"lines"`
	TotalAmount float64                  `bson:"total_amount"`
	Cancelled   bool                     `bson:"cancelled"`
	UpdatedAt   time.Time                `bson:"updated_at"`
}

// SaleRepository persists sale aggregates as state documents. Domain events
// are not stored here; command handlers dispatch them after a save.
type SaleRepository struct {
	collection *mongo.Collection
}

func NewSaleRepository(database *mongo.Database) *SaleRepository {
	return &SaleRepository{
		collection: database.Collection(salesCollection),
	}
}

func (r *SaleRepository) Add(ctx context.Context, sale *aggregate.Sale) error {
	if _, err := r.collection.InsertOne(ctx, toSaleDocument(sale)); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepository) Update(ctx context.Context, sale *aggregate.Sale) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": sale.ID()}, toSaleDocument(sale))
	if err != nil {
		return fmt.Errorf("failed to replace sale: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*aggregate.Sale, error) {
	var doc saleDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}
	return fromSaleDocument(&doc), nil
}

func (r *SaleRepository) GetAll(ctx context.Context) ([]*aggregate.Sale, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []*aggregate.Sale
	for cursor.Next(ctx) {
		var doc saleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode sale: %w", err)
		}
		sales = append(sales, fromSaleDocument(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return sales, nil
}

func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrSaleNotFound
	}
	return nil
}

func toSaleDocument(sale *aggregate.Sale) *saleDocument {
	lines := make([]saleLineDocument, 0, len(sale.Lines()))
	for _, line := range sale.Lines() {
		lines = append(lines, saleLineDocument{
			ID:           line.ID(),
			Product:      line.Product(),
			Quantity:     line.Quantity(),
			UnitPrice:    line.UnitPrice(),
			DiscountRate: line.DiscountRate(),
			Total:        line.Total(),
			Cancelled:    line.IsCancelled(),
		})
	}

	return &saleDocument{
		ID:          sale.ID(),
		SaleNumber:  sale.SaleNumber(),
		Date:        sale.Date(),
		Customer:    sale.Customer(),
		Branch:      sale.Branch(),
		Lines:       lines,
		TotalAmount: sale.TotalAmount(),
		Cancelled:   sale.IsCancelled(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func fromSaleDocument(doc *saleDocument) *aggregate.Sale {
	lines := make([]*aggregate.SaleLine, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, aggregate.RehydrateSaleLine(
			l.ID, l.Product, l.Quantity, l.UnitPrice, l.DiscountRate, l.Total, l.Cancelled,
		))
	}

	return aggregate.RehydrateSale(
		doc.ID, doc.SaleNumber, doc.Date, doc.Customer, doc.Branch,
		lines, doc.TotalAmount, doc.Cancelled,
	)
}
