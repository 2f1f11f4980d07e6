package query

import (
	"context"
	"testing"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"
	"salesdesk/internal/domain/valueobject"
	apperrors "salesdesk/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSaleRepo struct {
	sales map[string]*aggregate.Sale
}

func newMemSaleRepo(sales ...*aggregate.Sale) *memSaleRepo {
	repo := &memSaleRepo{sales: make(map[string]*aggregate.Sale)}
	for _, s := range sales {
		repo.sales[s.ID()] = s
	}
	return repo
}

func (r *memSaleRepo) Add(_ context.Context, sale *aggregate.Sale) error {
	r.sales[sale.ID()] = sale
	return nil
}

func (r *memSaleRepo) Update(_ context.Context, sale *aggregate.Sale) error {
	r.sales[sale.ID()] = sale
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*aggregate.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, repository.ErrSaleNotFound
	}
	return sale, nil
}

func (r *memSaleRepo) GetAll(_ context.Context) ([]*aggregate.Sale, error) {
	all := make([]*aggregate.Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		all = append(all, sale)
	}
	return all, nil
}

func (r *memSaleRepo) Delete(_ context.Context, id string) error {
	delete(r.sales, id)
	return nil
}

func sampleSale(t *testing.T) *aggregate.Sale {
	t.Helper()
	customer := valueobject.NewCustomerInfo("c-1", "Alice Costa", "alice@example.com")
	sale := aggregate.NewSale("S-0001", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), customer, "Centro")
	line, err := sale.AddLine(valueobject.NewProductInfo("p-1", "Lager"), 5, 100)
	require.NoError(t, err)
	require.NoError(t, sale.CancelLine(line.ID()))
	_, err = sale.AddLine(valueobject.NewProductInfo("p-2", "IPA"), 2, 30)
	require.NoError(t, err)
	sale.ClearUncommittedEvents()
	return sale
}

func TestGetSaleReturnsReadModel(t *testing.T) {
	sale := sampleSale(t)
	handler := NewGetSaleHandler(newMemSaleRepo(sale))

	model, err := handler.Handle(context.Background(), GetSale{SaleID: sale.ID()})
	require.NoError(t, err)

	assert.Equal(t, sale.ID(), model.ID)
	assert.Equal(t, "S-0001", model.SaleNumber)
	assert.Equal(t, "c-1", model.CustomerID)
	assert.Equal(t, "Alice Costa", model.CustomerName)
	assert.Equal(t, "alice@example.com", model.CustomerEmail)
	assert.Equal(t, "Centro", model.Branch)
	assert.False(t, model.Cancelled)
	assert.InDelta(t, 510.0, model.TotalAmount, 1e-9)

	require.Len(t, model.Lines, 2)
	first := model.Lines[0]
	assert.Equal(t, "p-1", first.ProductID)
	assert.Equal(t, 5, first.Quantity)
	assert.InDelta(t, 0.10, first.DiscountRate, 1e-9)
	assert.InDelta(t, 450.0, first.Total, 1e-9)
	assert.True(t, first.Cancelled)
	assert.False(t, model.Lines[1].Cancelled)
}

func TestGetSaleNotFound(t *testing.T) {
	handler := NewGetSaleHandler(newMemSaleRepo())

	_, err := handler.Handle(context.Background(), GetSale{SaleID: "missing"})

	var appErr *apperrors.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}

func TestListSales(t *testing.T) {
	first := sampleSale(t)
	second := sampleSale(t)
	handler := NewListSalesHandler(newMemSaleRepo(first, second))

	models, err := handler.Handle(context.Background(), ListSales{})
	require.NoError(t, err)
	require.Len(t, models, 2)

	ids := []string{models[0].ID, models[1].ID}
	assert.Contains(t, ids, first.ID())
	assert.Contains(t, ids, second.ID())
}

func TestListSalesEmptyStore(t *testing.T) {
	handler := NewListSalesHandler(newMemSaleRepo())

	models, err := handler.Handle(context.Background(), ListSales{})
	require.NoError(t, err)
	assert.Empty(t, models)
}
