package cache

import (
	"context"
	"sync"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"

	"go.uber.org/zap"
)

type cachedSale struct {
	sale      *aggregate.Sale
	expiresAt time.Time
}

type cachedList struct {
	sales     []*aggregate.Sale
	expiresAt time.Time
}

// CachedSaleRepository is a read-through decorator over a SaleRepository.
// Reads are served from an in-memory TTL cache; every write invalidates the
// affected entry and the list cache, the same cache-aside discipline the
// backing store's callers would otherwise reimplement.
//
// The cache never hands out its own aggregates: entries are deep-copied on
// fill and again on every hit, so a caller mutating a loaded sale (or
// abandoning a half-applied update) cannot corrupt what later reads see.
type CachedSaleRepository struct {
	inner  repository.SaleRepository
	ttl    time.Duration
	logger *zap.Logger

	mu   sync.RWMutex
	byID map[string]cachedSale
	all  *cachedList
}

func NewCachedSaleRepository(inner repository.SaleRepository, ttl time.Duration, logger *zap.Logger) *CachedSaleRepository {
	return &CachedSaleRepository{
		inner:  inner,
		ttl:    ttl,
		logger: logger,
		byID:   make(map[string]cachedSale),
	}
}

func (c *CachedSaleRepository) GetByID(ctx context.Context, id string) (*aggregate.Sale, error) {
	c.mu.RLock()
	entry, ok := c.byID[id]
	c.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return cloneSale(entry.sale), nil
	}

	sale, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byID[id] = cachedSale{sale: cloneSale(sale), expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return sale, nil
}

func (c *CachedSaleRepository) GetAll(ctx context.Context) ([]*aggregate.Sale, error) {
	c.mu.RLock()
	list := c.all
	c.mu.RUnlock()

	if list != nil && time.Now().Before(list.expiresAt) {
		return cloneSales(list.sales), nil
	}

	sales, err := c.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.all = &cachedList{sales: cloneSales(sales), expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return sales, nil
}

func (c *CachedSaleRepository) Add(ctx context.Context, sale *aggregate.Sale) error {
	if err := c.inner.Add(ctx, sale); err != nil {
		return err
	}
	c.invalidate(sale.ID())
	return nil
}

func (c *CachedSaleRepository) Update(ctx context.Context, sale *aggregate.Sale) error {
	if err := c.inner.Update(ctx, sale); err != nil {
		return err
	}
	c.invalidate(sale.ID())
	return nil
}

func (c *CachedSaleRepository) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(id)
	return nil
}

func (c *CachedSaleRepository) invalidate(id string) {
	c.mu.Lock()
	delete(c.byID, id)
	c.all = nil
	c.mu.Unlock()
	c.logger.Debug("sale cache invalidated", zap.String("sale_id", id))
}

// cloneSale rebuilds an independent copy through the rehydration
// constructors. Cached sales are stored post-dispatch, so dropping the
// (empty) event logs loses nothing.
func cloneSale(sale *aggregate.Sale) *aggregate.Sale {
	lines := make([]*aggregate.SaleLine, 0, len(sale.Lines()))
	for _, line := range sale.Lines() {
		lines = append(lines, aggregate.RehydrateSaleLine(
			line.ID(), line.Product(), line.Quantity(), line.UnitPrice(),
			line.DiscountRate(), line.Total(), line.IsCancelled(),
		))
	}
	return aggregate.RehydrateSale(
		sale.ID(), sale.SaleNumber(), sale.Date(), sale.Customer(), sale.Branch(),
		lines, sale.TotalAmount(), sale.IsCancelled(),
	)
}

func cloneSales(sales []*aggregate.Sale) []*aggregate.Sale {
	cloned := make([]*aggregate.Sale, 0, len(sales))
	for _, sale := range sales {
		cloned = append(cloned, cloneSale(sale))
	}
	return cloned
}
