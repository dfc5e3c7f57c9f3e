// Package snapshot persists the point-of-sale state as four whole-collection
// entries in a key-value store.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/odenstall/pos/internal/domain/models"
	"github.com/odenstall/pos/internal/repository/kv"
)

const (
	ingredientsSuffix = "-ing"
	productsSuffix    = "-prod"
	salesSuffix       = "-sales"
	stockLogsSuffix   = "-logs"
)

// Repository loads and saves models.State.
type Repository interface {
	Load(ctx context.Context) (models.State, error)
	Save(ctx context.Context, state models.State) error
}

// KVRepository stores each collection under "<namespace><suffix>".
type KVRepository struct {
	store     kv.Store
	namespace string
	logger    *zap.Logger
}

// NewKVRepository builds a repository over store.
func NewKVRepository(store kv.Store, namespace string, logger *zap.Logger) (*KVRepository, error) {
	if store == nil {
		return nil, errors.New("snapshot store must not be nil")
	}
	if namespace == "" {
		return nil, errors.New("snapshot namespace must not be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVRepository{store: store, namespace: namespace, logger: logger}, nil
}

// Load reads all four collections. Missing catalog entries fall back to the
// seed dataset and missing ledgers start empty.
func (r *KVRepository) Load(ctx context.Context) (models.State, error) {
	state := models.SeedState()

	var err error
	if state.Ingredients, err = readCollection(ctx, r, ingredientsSuffix, state.Ingredients); err != nil {
		return models.State{}, err
	}
	if state.Products, err = readCollection(ctx, r, productsSuffix, state.Products); err != nil {
		return models.State{}, err
	}
	if state.Sales, err = readCollection(ctx, r, salesSuffix, state.Sales); err != nil {
		return models.State{}, err
	}
	if state.StockLogs, err = readCollection(ctx, r, stockLogsSuffix, state.StockLogs); err != nil {
		return models.State{}, err
	}

	if err := state.Validate(); err != nil {
		return models.State{}, fmt.Errorf("stored catalog is inconsistent: %w", err)
	}

	r.logger.Info("state loaded",
		zap.Int("ingredients", len(state.Ingredients)),
		zap.Int("products", len(state.Products)),
		zap.Int("sales", len(state.Sales)),
		zap.Int("stock_logs", len(state.StockLogs)))

	return state, nil
}

// Save overwrites every collection with the provided state in a single
// all-or-nothing store write.
func (r *KVRepository) Save(ctx context.Context, state models.State) error {
	collections := []struct {
		suffix string
		value  any
	}{
		{ingredientsSuffix, nonNil(state.Ingredients)},
		{productsSuffix, nonNil(state.Products)},
		{salesSuffix, nonNil(state.Sales)},
		{stockLogsSuffix, nonNil(state.StockLogs)},
	}

	entries := make([]kv.Entry, 0, len(collections))
	for _, c := range collections {
		payload, err := json.Marshal(c.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.key(c.suffix), err)
		}
		entries = append(entries, kv.Entry{Key: r.key(c.suffix), Value: payload})
	}

	if err := r.store.SetAll(ctx, entries); err != nil {
		return fmt.Errorf("save %s snapshot: %w", r.namespace, err)
	}

	r.logger.Debug("state saved", zap.String("namespace", r.namespace))
	return nil
}

// readCollection decodes one entry into a fresh slice, returning fallback when
// the key is absent.
func readCollection[T any](ctx context.Context, r *KVRepository, suffix string, fallback []T) ([]T, error) {
	key := r.key(suffix)
	payload, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		r.logger.Debug("snapshot entry missing, using default", zap.String("key", key))
		return fallback, nil
	}

	items := []T{}
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

func (r *KVRepository) key(suffix string) string {
	return r.namespace + suffix
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
