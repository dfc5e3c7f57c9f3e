package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/service/pos"
	"github.com/odenstall/pos/internal/service/reporting"
)

// POSService describes the point-of-sale operations the HTTP layer can perform.
type POSService interface {
	Ingredients() []models.Ingredient
	Products() []models.Product
	Product(id string) (models.Product, error)
	Sales() []models.SaleRecord
	StockLogs() []models.StockInRecord
	Cart() []models.CartLine

	StockIn(ctx context.Context, ingredientID string, amount float64, unitCost *float64) (models.StockInRecord, error)
	Convert(ctx context.Context, productID string, ingredientAmount float64) (models.ConversionRecord, error)
	SetPrice(ctx context.Context, productID string, price float64) (models.Product, error)

	AddToCart(productID string) ([]models.CartLine, error)
	AdjustQty(lineID string, delta int) ([]models.CartLine, error)
	RemoveLine(lineID string) []models.CartLine
	ClearCart()
	Checkout(ctx context.Context) (models.SaleRecord, error)
}

// ReportService computes daily figures.
type ReportService interface {
	Daily(date string) (models.DailyStats, error)
}

// POSHandler adapts the point-of-sale service to HTTP.
type POSHandler struct {
	svc     POSService
	reports ReportService
	logger  *zap.Logger
}

// NewPOSHandler constructs the HTTP handler adapter.
func NewPOSHandler(svc POSService, reports ReportService, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{svc: svc, reports: reports, logger: logger}
}

type stockInRequest struct {
	Amount   models.NumericInput `json:"amount"`
	UnitCost models.NumericInput `json:"unitCost"`
}

type convertRequest struct {
	Amount models.NumericInput `json:"amount"`
}

type priceRequest struct {
	Price models.NumericInput `json:"price"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type adjustQtyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type cartResponse struct {
	Lines []models.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

// ListProducts serves the sell and price-settings views.
func (h *POSHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.svc.Products()})
}

// ListIngredients serves the inventory view.
func (h *POSHandler) ListIngredients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ingredients": h.svc.Ingredients()})
}

// ListSales returns the sales ledger.
func (h *POSHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sales": h.svc.Sales()})
}

// ListStockLogs returns the stock-in ledger.
func (h *POSHandler) ListStockLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stockLogs": h.svc.StockLogs()})
}

// StockIn receives raw material into inventory.
func (h *POSHandler) StockIn(c *gin.Context) {
	var req stockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	amount, err := req.Amount.Float()
	if err != nil {
		h.badRequest(c, "amount: "+err.Error(), err)
		return
	}

	var unitCost *float64
	if req.UnitCost.Provided() {
		cost, err := req.UnitCost.Float()
		if err != nil {
			h.badRequest(c, "unitCost: "+err.Error(), err)
			return
		}
		unitCost = &cost
	}

	record, err := h.svc.StockIn(c.Request.Context(), c.Param("id"), amount, unitCost)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"record":  record,
		"message": fmt.Sprintf("received %g of %s", record.Amount, record.Name),
	})
}

// Convert turns ingredient stock into product units.
func (h *POSHandler) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	amount, err := req.Amount.Float()
	if err != nil {
		h.badRequest(c, "amount: "+err.Error(), err)
		return
	}

	record, err := h.svc.Convert(c.Request.Context(), c.Param("id"), amount)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversion": record,
		"message":    fmt.Sprintf("converted into %d x %s", record.Amount, record.Product),
	})
}

// SetPrice overwrites a product price.
func (h *POSHandler) SetPrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body", err)
		return
	}

	price, err := req.Price.Float()
	if err != nil {
		h.badRequest(c, "price: "+err.Error(), err)
		return
	}

	product, err := h.svc.SetPrice(c.Request.Context(), c.Param("id"), price)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product, "message": "price updated"})
}

// GetCart returns the cart lines and running total.
func (h *POSHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(h.svc.Cart()))
}

// AddToCart adds one unit of a product. Products without stock cannot be
// picked from the sell screen.
func (h *POSHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "productId is required", err)
		return
	}

	product, err := h.svc.Product(req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !product.InStock() {
		c.JSON(http.StatusConflict, gin.H{"error": "product is out of stock"})
		return
	}

	lines, err := h.svc.AddToCart(req.ProductID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(lines))
}

// AdjustQty changes a line's quantity by delta.
func (h *POSHandler) AdjustQty(c *gin.Context) {
	var req adjustQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "delta must be a non-zero integer", err)
		return
	}

	lines, err := h.svc.AdjustQty(c.Param("id"), req.Delta)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(lines))
}

// RemoveLine deletes a cart line.
func (h *POSHandler) RemoveLine(c *gin.Context) {
	c.JSON(http.StatusOK, newCartResponse(h.svc.RemoveLine(c.Param("id"))))
}

// ClearCart empties the cart.
func (h *POSHandler) ClearCart(c *gin.Context) {
	h.svc.ClearCart()
	c.Status(http.StatusNoContent)
}

// Checkout records the sale.
func (h *POSHandler) Checkout(c *gin.Context) {
	sale, err := h.svc.Checkout(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sale":    sale,
		"message": fmt.Sprintf("sale recorded ฿%g", sale.Total),
	})
}

// DailyReport returns revenue, cost and profit for ?date= (default today).
func (h *POSHandler) DailyReport(c *gin.Context) {
	stats, err := h.reports.Daily(c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *POSHandler) badRequest(c *gin.Context, message string, err error) {
	h.logger.Debug("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (h *POSHandler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "unable to save changes"})
		return
	}

	h.logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, pos.ErrInvalidCost),
		errors.Is(err, pos.ErrInvalidPrice),
		errors.Is(err, pos.ErrNoRecipe),
		errors.Is(err, reporting.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, pos.ErrIngredientNotFound),
		errors.Is(err, pos.ErrProductNotFound),
		errors.Is(err, pos.ErrCartLineNotFound):
		return http.StatusNotFound
	case errors.Is(err, pos.ErrInsufficientStock),
		errors.Is(err, pos.ErrEmptyCart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newCartResponse(lines []models.CartLine) cartResponse {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return cartResponse{Lines: lines, Total: models.CartTotal(lines)}
}
