package query

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"
	"salesdesk/pkg/errors"
)

// GetSale query
type GetSale struct {
	SaleID string
}

// ListSales query
type ListSales struct{}

// SaleLineReadModel is the read-side shape of one sale line.
type SaleLineReadModel struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	DiscountRate float64 `json:"discount_rate"`
	Total        float64 `json:"total"`
	Cancelled    bool    `json:"cancelled"`
}

// SaleReadModel is the read-side shape of a sale.
type SaleReadModel struct {
	ID            string              `json:"id"`
	SaleNumber    string              `json:"sale_number"`
	Date          time.Time           `json:"date"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Branch        string              `json:"branch"`
	TotalAmount   float64             `json:"total_amount"`
	Cancelled     bool                `json:"cancelled"`
	Lines         []SaleLineReadModel `json:"lines"`
}

// NewSaleReadModel maps an aggregate to its read model.
func NewSaleReadModel(sale *aggregate.Sale) *SaleReadModel {
	lines := make([]SaleLineReadModel, 0, len(sale.Lines()))
	for _, line := range sale.Lines() {
		lines = append(lines, SaleLineReadModel{
			ID:           line.ID(),
			ProductID:    line.Product().ID,
			ProductName:  line.Product().Name,
			Quantity:     line.Quantity(),
			UnitPrice:    line.UnitPrice(),
			DiscountRate: line.DiscountRate(),
			Total:        line.Total(),
			Cancelled:    line.IsCancelled(),
		})
	}

	return &SaleReadModel{
		ID:            sale.ID(),
		SaleNumber:    sale.SaleNumber(),
		Date:          sale.Date(),
		CustomerID:    sale.Customer().ID,
		CustomerName:  sale.Customer().Name,
		CustomerEmail: sale.Customer().Email,
		Branch:        sale.Branch(),
		TotalAmount:   sale.TotalAmount(),
		Cancelled:     sale.IsCancelled(),
		Lines:         lines,
	}
}

// GetSaleHandler resolves a single sale by ID.
type GetSaleHandler struct {
	sales repository.SaleRepository
}

func NewGetSaleHandler(sales repository.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{sales: sales}
}

func (h *GetSaleHandler) Handle(ctx context.Context, q GetSale) (*SaleReadModel, error) {
	sale, err := h.sales.GetByID(ctx, q.SaleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrSaleNotFound) {
			return nil, errors.NewNotFoundError("sale")
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	return NewSaleReadModel(sale), nil
}

// ListSalesHandler returns all sales.
type ListSalesHandler struct {
	sales repository.SaleRepository
}

func NewListSalesHandler(sales repository.SaleRepository) *ListSalesHandler {
	return &ListSalesHandler{sales: sales}
}

func (h *ListSalesHandler) Handle(ctx context.Context, _ ListSales) ([]*SaleReadModel, error) {
	sales, err := h.sales.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	models := make([]*SaleReadModel, 0, len(sales))
	for _, sale := range sales {
		models = append(models, NewSaleReadModel(sale))
	}
	return models, nil
}
