package command

import (
	"context"
	stderrors "errors"
	"fmt"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"
	"salesdesk/internal/domain/valueobject"
	"salesdesk/internal/infrastructure/bus"
	"salesdesk/pkg/errors"

	"go.uber.org/zap"
)

// CreateSaleHandler handles sale creation. It validates the referenced
// customer against the user store before any Sale is constructed.
type CreateSaleHandler struct {
	sales    repository.SaleRepository
	users    repository.UserRepository
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewCreateSaleHandler(sales repository.SaleRepository, users repository.UserRepository, eventBus bus.EventBus, logger *zap.Logger) *CreateSaleHandler {
	return &CreateSaleHandler{
		sales:    sales,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (h *CreateSaleHandler) Handle(ctx context.Context, cmd *CreateSale) (*aggregate.Sale, error) {
	user, err := h.users.GetByID(ctx, cmd.CustomerID)
	if err != nil {
		if stderrors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.NewInvalidCustomerError("customer does not exist or does not hold the Customer role")
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if user.Role() != aggregate.RoleCustomer || !user.IsActive() {
		return nil, errors.NewInvalidCustomerError("customer does not exist or does not hold the Customer role")
	}

	customer := valueobject.NewCustomerInfo(user.ID(), user.Name(), user.Email())
	sale := aggregate.NewSale(cmd.SaleNumber, cmd.Date, customer, cmd.Branch)

	for _, line := range cmd.Lines {
		product := valueobject.NewProductInfo(line.ProductID, line.ProductName)
		if _, err := sale.AddLine(product, line.Quantity, line.UnitPrice); err != nil {
			return nil, errors.NewInvalidQuantityError(err.Error())
		}
	}

	if err := h.sales.Add(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	h.dispatchEvents(ctx, sale)

	h.logger.Info("sale created",
		zap.String("sale_id", sale.ID()),
		zap.String("sale_number", sale.SaleNumber()),
		zap.Float64("total_amount", sale.TotalAmount()),
	)
	return sale, nil
}

// dispatchEvents publishes then clears the event logs of the sale and its
// lines. Events are observational: a handler failure is logged, never rolled
// back into the already-committed save.
func (h *CreateSaleHandler) dispatchEvents(ctx context.Context, sale *aggregate.Sale) {
	dispatchSaleEvents(ctx, h.eventBus, h.logger, sale)
}

func dispatchSaleEvents(ctx context.Context, eventBus bus.EventBus, logger *zap.Logger, sale *aggregate.Sale) {
	for _, ev := range sale.GetUncommittedEvents() {
		if err := eventBus.Publish(ctx, ev); err != nil {
			logger.Warn("event dispatch failed",
				zap.String("event_type", ev.EventType()),
				zap.String("sale_id", sale.ID()),
				zap.Error(err),
			)
		}
	}
	sale.ClearUncommittedEvents()

	for _, line := range sale.Lines() {
		for _, ev := range line.GetUncommittedEvents() {
			if err := eventBus.Publish(ctx, ev); err != nil {
				logger.Warn("event dispatch failed",
					zap.String("event_type", ev.EventType()),
					zap.String("line_id", line.ID()),
					zap.Error(err),
				)
			}
		}
		line.ClearUncommittedEvents()
	}
}

// UpdateSaleHandler handles the replace-all-lines update workflow.
type UpdateSaleHandler struct {
	sales    repository.SaleRepository
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewUpdateSaleHandler(sales repository.SaleRepository, eventBus bus.EventBus, logger *zap.Logger) *UpdateSaleHandler {
	return &UpdateSaleHandler{
		sales:    sales,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (h *UpdateSaleHandler) Handle(ctx context.Context, cmd *UpdateSale) (*aggregate.Sale, error) {
	sale, err := h.sales.GetByID(ctx, cmd.SaleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrSaleNotFound) {
			return nil, errors.NewNotFoundError("sale")
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}

	sale.UpdateDetails(cmd.SaleNumber, cmd.Date, cmd.Branch)
	sale.ClearLines()

	for _, input := range cmd.Lines {
		product := valueobject.NewProductInfo(input.ProductID, input.ProductName)
		line, err := sale.AddLine(product, input.Quantity, input.UnitPrice)
		if err != nil {
			return nil, errors.NewInvalidQuantityError(err.Error())
		}
		// Lines flagged cancelled in the incoming batch are cancelled on the
		// freshly created line itself, not located by position afterwards.
		if input.Cancelled {
			line.Cancel(sale.ID())
		}
	}

	sale.MarkModified()

	if err := h.sales.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	dispatchSaleEvents(ctx, h.eventBus, h.logger, sale)

	h.logger.Info("sale updated",
		zap.String("sale_id", sale.ID()),
		zap.Float64("total_amount", sale.TotalAmount()),
	)
	return sale, nil
}

// DeleteSaleHandler cancels a sale and removes it from the store. The
// SaleCancelled event is dispatched before deletion so the audit trail keeps
// the terminal state.
type DeleteSaleHandler struct {
	sales    repository.SaleRepository
	eventBus bus.EventBus
	logger   *zap.Logger
}

func NewDeleteSaleHandler(sales repository.SaleRepository, eventBus bus.EventBus, logger *zap.Logger) *DeleteSaleHandler {
	return &DeleteSaleHandler{
		sales:    sales,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (h *DeleteSaleHandler) Handle(ctx context.Context, cmd *DeleteSale) error {
	sale, err := h.sales.GetByID(ctx, cmd.SaleID)
	if err != nil {
		if stderrors.Is(err, repository.ErrSaleNotFound) {
			return errors.NewNotFoundError("sale")
		}
		return fmt.Errorf("failed to load sale: %w", err)
	}

	sale.Cancel()
	dispatchSaleEvents(ctx, h.eventBus, h.logger, sale)

	if err := h.sales.Delete(ctx, cmd.SaleID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	h.logger.Info("sale deleted", zap.String("sale_id", cmd.SaleID))
	return nil
}
