// Package pos owns the stall's catalog, ledgers and cart and applies every
// point-of-sale operation to them.
package pos

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/metrics"
	"github.com/odenstall/pos/internal/repository/snapshot"
)

// Publisher mirrors events to external systems without blocking.
type Publisher interface {
	Publish(eventType models.EventType, data any) bool
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(models.EventType, any) bool { return false }

// Service holds the application state. Mutations are staged on a copy,
// persisted as a full snapshot, and only then made visible.
type Service struct {
	repo      snapshot.Repository
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time

	mu     sync.Mutex
	state  models.State
	cart   []models.CartLine
	lastID int64
}

// NewService loads the persisted state and returns a ready service.
func NewService(ctx context.Context, repo snapshot.Repository, publisher Publisher, m *metrics.Metrics, loc *time.Location, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if loc == nil {
		loc = time.Local
	}

	state, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	svc := &Service{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
		state:     state,
	}
	for _, p := range state.Products {
		m.UpdateProductStock(p.ID, p.Stock)
	}
	return svc, nil
}

// Ingredients returns a copy of the ingredient catalog.
func (s *Service) Ingredients() []models.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Ingredient{}, s.state.Ingredients...)
}

// Products returns a copy of the product catalog.
func (s *Service) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone().Products
}

// Product returns a single product.
func (s *Service) Product(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.ProductIndex(id)
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}
	return s.state.Clone().Products[idx], nil
}

// Sales returns the sales ledger, most recent first.
func (s *Service) Sales() []models.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SaleRecord{}, s.state.Sales...)
}

// StockLogs returns the stock-in ledger, most recent first.
func (s *Service) StockLogs() []models.StockInRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.StockInRecord{}, s.state.StockLogs...)
}

// Snapshot returns a deep copy of the whole state.
func (s *Service) Snapshot() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Today returns the current local calendar date.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(models.DateLayout)
}

// StockIn adds amount units to an ingredient. A positive unitCost replaces the
// ingredient's standing base cost; nil or zero keeps it.
func (s *Service) StockIn(ctx context.Context, ingredientID string, amount float64, unitCost *float64) (models.StockInRecord, error) {
	if !isPositive(amount) {
		s.metrics.RecordRejected("stock_in", "invalid_amount")
		return models.StockInRecord{}, ErrInvalidAmount
	}
	if unitCost != nil && (!isFinite(*unitCost) || *unitCost < 0) {
		s.metrics.RecordRejected("stock_in", "invalid_cost")
		return models.StockInRecord{}, ErrInvalidCost
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.IngredientIndex(ingredientID)
	if idx < 0 {
		return models.StockInRecord{}, ErrIngredientNotFound
	}

	next := s.state.Clone()
	ing := &next.Ingredients[idx]

	cost := ing.BaseCost
	if unitCost != nil && *unitCost != 0 {
		cost = *unitCost
	}

	ing.Stock += amount
	ing.BaseCost = cost

	record := models.StockInRecord{
		ID:     s.nextID(),
		Date:   s.Today(),
		Name:   ing.Name,
		Amount: amount,
		Cost:   cost * amount,
	}
	next.StockLogs = append([]models.StockInRecord{record}, next.StockLogs...)

	if err := s.commit(ctx, next); err != nil {
		return models.StockInRecord{}, err
	}

	s.metrics.RecordStockIn(record.Cost)
	s.logger.Info("stock received",
		zap.String("ingredient_id", ingredientID),
		zap.Float64("amount", amount),
		zap.Float64("unit_cost", cost))
	s.publisher.Publish(models.EventStockIn, record)

	return record, nil
}

// Convert turns ingredientAmount units of the product's recipe ingredient into
// floor(ingredientAmount * ratio) product units.
func (s *Service) Convert(ctx context.Context, productID string, ingredientAmount float64) (models.ConversionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pIdx := s.state.ProductIndex(productID)
	if pIdx < 0 {
		return models.ConversionRecord{}, ErrProductNotFound
	}

	next := s.state.Clone()
	product := &next.Products[pIdx]
	if product.Recipe == nil {
		s.metrics.RecordRejected("convert", "no_recipe")
		return models.ConversionRecord{}, ErrNoRecipe
	}

	if !isPositive(ingredientAmount) {
		s.metrics.RecordRejected("convert", "invalid_amount")
		return models.ConversionRecord{}, ErrInvalidAmount
	}

	iIdx := next.IngredientIndex(product.Recipe.IngredientID)
	if iIdx < 0 {
		return models.ConversionRecord{}, ErrIngredientNotFound
	}
	ing := &next.Ingredients[iIdx]

	if ing.Stock < ingredientAmount {
		s.metrics.RecordRejected("convert", "insufficient_stock")
		return models.ConversionRecord{}, fmt.Errorf("%w: %s has %g %s, need %g", ErrInsufficientStock, ing.Name, ing.Stock, ing.Unit, ingredientAmount)
	}

	yield := int(math.Floor(ingredientAmount * product.Recipe.Ratio))
	ing.Stock -= ingredientAmount
	product.Stock += yield

	record := models.ConversionRecord{
		Type:    string(models.EventConversion),
		Product: product.Name,
		Amount:  yield,
		Date:    s.Today(),
	}

	if err := s.commit(ctx, next); err != nil {
		return models.ConversionRecord{}, err
	}

	s.metrics.RecordConversion()
	s.metrics.UpdateProductStock(product.ID, product.Stock)
	s.logger.Info("ingredient converted",
		zap.String("product_id", productID),
		zap.String("ingredient_id", ing.ID),
		zap.Float64("ingredient_amount", ingredientAmount),
		zap.Int("yield", yield))
	s.publisher.Publish(models.EventConversion, record)

	return record, nil
}

// SetPrice overwrites the product price. Any finite value is accepted,
// including one below cost or below zero.
func (s *Service) SetPrice(ctx context.Context, productID string, price float64) (models.Product, error) {
	if !isFinite(price) {
		s.metrics.RecordRejected("set_price", "invalid_price")
		return models.Product{}, ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.ProductIndex(productID)
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}

	next := s.state.Clone()
	previous := next.Products[idx].Price
	next.Products[idx].Price = price

	if err := s.commit(ctx, next); err != nil {
		return models.Product{}, err
	}

	s.logger.Info("price updated",
		zap.String("product_id", productID),
		zap.Float64("old_price", previous),
		zap.Float64("new_price", price))

	return next.Clone().Products[idx], nil
}

// Checkout records the cart as a sale, decrements product stock (clamped at
// zero, never rejected) and clears the cart.
func (s *Service) Checkout(ctx context.Context) (models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cart) == 0 {
		return models.SaleRecord{}, ErrEmptyCart
	}

	next := s.state.Clone()
	items := make([]string, 0, len(s.cart))
	for _, line := range s.cart {
		items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Qty))
		if idx := next.ProductIndex(line.ID); idx >= 0 {
			next.Products[idx].Stock = max(0, next.Products[idx].Stock-line.Qty)
		}
	}

	record := models.SaleRecord{
		ID:    s.nextID(),
		Date:  s.Today(),
		Items: strings.Join(items, ", "),
		Total: models.CartTotal(s.cart),
	}
	next.Sales = append([]models.SaleRecord{record}, next.Sales...)

	if err := s.commit(ctx, next); err != nil {
		return models.SaleRecord{}, err
	}

	for _, line := range s.cart {
		if idx := next.ProductIndex(line.ID); idx >= 0 {
			s.metrics.UpdateProductStock(line.ID, next.Products[idx].Stock)
		}
	}
	s.cart = nil

	s.metrics.RecordSale(record.Total)
	s.logger.Info("sale recorded", zap.Int64("sale_id", record.ID), zap.Float64("total", record.Total), zap.String("items", record.Items))
	s.publisher.Publish(models.EventSale, record)

	return record, nil
}

func (s *Service) commit(ctx context.Context, next models.State) error {
	if err := s.repo.Save(ctx, next); err != nil {
		s.logger.Error("state not persisted", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.state = next
	return nil
}

// nextID derives a millisecond timestamp id that is strictly increasing
// within the process.
func (s *Service) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isPositive(v float64) bool {
	return isFinite(v) && v > 0
}
