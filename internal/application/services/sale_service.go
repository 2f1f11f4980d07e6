package services

import (
	"context"

	"salesdesk/internal/application/command"
	"salesdesk/internal/application/query"
)

// SaleService orchestrates sale operations
type SaleService struct {
	createSaleHandler *command.CreateSaleHandler
	updateSaleHandler *command.UpdateSaleHandler
	deleteSaleHandler *command.DeleteSaleHandler

	getSaleHandler   *query.GetSaleHandler
	listSalesHandler *query.ListSalesHandler
}

func NewSaleService(
	createSaleHandler *command.CreateSaleHandler,
	updateSaleHandler *command.UpdateSaleHandler,
	deleteSaleHandler *command.DeleteSaleHandler,
	getSaleHandler *query.GetSaleHandler,
	listSalesHandler *query.ListSalesHandler,
) *SaleService {
	return &SaleService{
		createSaleHandler: createSaleHandler,
		updateSaleHandler: updateSaleHandler,
		deleteSaleHandler: deleteSaleHandler,
		getSaleHandler:    getSaleHandler,
		listSalesHandler:  listSalesHandler,
	}
}

// Command operations
func (s *SaleService) CreateSale(ctx context.Context, cmd command.CreateSale) (*query.SaleReadModel, error) {
	sale, err := s.createSaleHandler.Handle(ctx, &cmd)
	if err != nil {
		return nil, err
	}
	return query.NewSaleReadModel(sale), nil
}

func (s *SaleService) UpdateSale(ctx context.Context, cmd command.UpdateSale) (*query.SaleReadModel, error) {
	sale, err := s.updateSaleHandler.Handle(ctx, &cmd)
	if err != nil {
		return nil, err
	}
	return query.NewSaleReadModel(sale), nil
}

func (s *SaleService) DeleteSale(ctx context.Context, cmd command.DeleteSale) error {
	return s.deleteSaleHandler.Handle(ctx, &cmd)
}

// Query operations
func (s *SaleService) GetSale(ctx context.Context, q query.GetSale) (*query.SaleReadModel, error) {
	return s.getSaleHandler.Handle(ctx, q)
}

func (s *SaleService) ListSales(ctx context.Context, q query.ListSales) ([]*query.SaleReadModel, error) {
	return s.listSalesHandler.Handle(ctx, q)
}
