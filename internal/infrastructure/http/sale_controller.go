package http

import (
	"encoding/json"
	"net/http"
	"time"

	"salesdesk/internal/application/command"
	"salesdesk/internal/application/query"
	"salesdesk/internal/application/services"
	"salesdesk/pkg/errors"
	"salesdesk/pkg/middleware"
	"salesdesk/pkg/response"

	"github.com/go-chi/chi/v5"
)

// SaleController exposes the sale CRUD workflows over HTTP
type SaleController struct {
	saleService *services.SaleService
}

func NewSaleController(saleService *services.SaleService) *SaleController {
	return &SaleController{saleService: saleService}
}

type saleLineRequest struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Cancelled   bool    `json:"cancelled,omitempty"`
}

type createSaleRequest struct {
	SaleNumber string            `json:"sale_number"`
	Date       time.Time         `json:"date"`
	CustomerID string            `json:"customer_id"`
	Branch     string            `json:"branch"`
	Lines      []saleLineRequest `json:"lines"`
}

type updateSaleRequest struct {
	SaleNumber string            `json:"sale_number"`
	Date       time.Time         `json:"date"`
	Branch     string            `json:"branch"`
	Lines      []saleLineRequest `json:"lines"`
}

// CreateSale handles POST /sales
func (c *SaleController) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}
	if req.SaleNumber == "" || req.CustomerID == "" || req.Branch == "" {
		middleware.HandleError(w, r, errors.NewValidationError("sale_number, customer_id and branch are required"))
		return
	}
	if len(req.Lines) == 0 {
		middleware.HandleError(w, r, errors.NewValidationError("at least one line is required"))
		return
	}

	cmd := command.CreateSale{
		SaleNumber: req.SaleNumber,
		Date:       req.Date,
		CustomerID: req.CustomerID,
		Branch:     req.Branch,
		Lines:      toLineInputs(req.Lines),
	}

	sale, err := c.saleService.CreateSale(r.Context(), cmd)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendCreated(w, r, sale)
}

// GetSale handles GET /sales/{id}
func (c *SaleController) GetSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		middleware.HandleError(w, r, errors.NewValidationError("sale ID is required"))
		return
	}

	sale, err := c.saleService.GetSale(r.Context(), query.GetSale{SaleID: id})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, sale)
}

// ListSales handles GET /sales
func (c *SaleController) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := c.saleService.ListSales(r.Context(), query.ListSales{})
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccessWithMeta(w, r, sales, &response.Meta{Total: len(sales)})
}

// UpdateSale handles PUT /sales/{id}
func (c *SaleController) UpdateSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		middleware.HandleError(w, r, errors.NewValidationError("sale ID is required"))
		return
	}

	var req updateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.HandleError(w, r, errors.NewValidationError("Invalid JSON format"))
		return
	}

	cmd := command.UpdateSale{
		SaleID:     id,
		SaleNumber: req.SaleNumber,
		Date:       req.Date,
		Branch:     req.Branch,
		Lines:      toLineInputs(req.Lines),
	}

	sale, err := c.saleService.UpdateSale(r.Context(), cmd)
	if err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, sale)
}

// DeleteSale handles DELETE /sales/{id}
func (c *SaleController) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		middleware.HandleError(w, r, errors.NewValidationError("sale ID is required"))
		return
	}

	if err := c.saleService.DeleteSale(r.Context(), command.DeleteSale{SaleID: id}); err != nil {
		middleware.HandleError(w, r, err)
		return
	}

	response.SendSuccess(w, r, map[string]interface{}{
		"id":      id,
		"message": "Sale cancelled and deleted",
	})
}

func toLineInputs(lines []saleLineRequest) []command.SaleLineInput {
	inputs := make([]command.SaleLineInput, 0, len(lines))
	for _, l := range lines {
		inputs = append(inputs, command.SaleLineInput{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Cancelled:   l.Cancelled,
		})
	}
	return inputs
}
