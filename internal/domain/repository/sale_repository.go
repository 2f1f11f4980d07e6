package repository

import (
	"context"
	"errors"

	"salesdesk/internal/domain/aggregate"
)

// ErrSaleNotFound is returned when no sale exists for the given identifier.
var ErrSaleNotFound = errors.New("sale not found")

// SaleRepository defines persistence operations for the sale aggregate. The
// aggregate never calls these itself; command and query handlers orchestrate
// load, mutate and save.
type SaleRepository interface {
	Add(ctx context.Context, sale *aggregate.Sale) error
	Update(ctx context.Context, sale *aggregate.Sale) error
	GetByID(ctx context.Context, id string) (*aggregate.Sale, error)
	GetAll(ctx context.Context) ([]*aggregate.Sale, error)
	Delete(ctx context.Context, id string) error
}
