package models

import "fmt"

// State is the full catalog and ledger owned by the point-of-sale service.
// Ledgers are ordered most recent first.
type State struct {
	Ingredients []Ingredient
	Products    []Product
	Sales       []SaleRecord
	StockLogs   []StockInRecord
}

// SeedState returns the catalog a fresh installation starts with.
func SeedState() State {
	return State{
		Ingredients: SeedIngredients(),
		Products:    SeedProducts(),
		Sales:       []SaleRecord{},
		StockLogs:   []StockInRecord{},
	}
}

// Clone returns a deep copy so mutations can be staged before they are persisted.
func (s State) Clone() State {
	out := State{
		Ingredients: append([]Ingredient{}, s.Ingredients...),
		Products:    make([]Product, len(s.Products)),
		Sales:       append([]SaleRecord{}, s.Sales...),
		StockLogs:   append([]StockInRecord{}, s.StockLogs...),
	}
	for i, p := range s.Products {
		if p.Recipe != nil {
			recipe := *p.Recipe
			p.Recipe = &recipe
		}
		out.Products[i] = p
	}
	return out
}

// Validate checks the catalog invariants: unique ids, non-negative stock and
// recipes that point at a known ingredient with a positive ratio.
func (s State) Validate() error {
	ingredients := make(map[string]struct{}, len(s.Ingredients))
	for _, ing := range s.Ingredients {
		if ing.ID == "" {
			return fmt.Errorf("ingredient %q has an empty id", ing.Name)
		}
		if _, dup := ingredients[ing.ID]; dup {
			return fmt.Errorf("duplicate ingredient id %s", ing.ID)
		}
		if ing.Stock < 0 {
			return fmt.Errorf("ingredient %s has negative stock", ing.ID)
		}
		ingredients[ing.ID] = struct{}{}
	}

	products := make(map[string]struct{}, len(s.Products))
	for _, p := range s.Products {
		if p.ID == "" {
			return fmt.Errorf("product %q has an empty id", p.Name)
		}
		if _, dup := products[p.ID]; dup {
			return fmt.Errorf("duplicate product id %s", p.ID)
		}
		if p.Stock < 0 {
			return fmt.Errorf("product %s has negative stock", p.ID)
		}
		if p.Recipe != nil {
			if _, ok := ingredients[p.Recipe.IngredientID]; !ok {
				return fmt.Errorf("product %s recipe references unknown ingredient %q", p.ID, p.Recipe.IngredientID)
			}
			if p.Recipe.Ratio <= 0 {
				return fmt.Errorf("product %s recipe ratio must be positive", p.ID)
			}
		}
		products[p.ID] = struct{}{}
	}

	return nil
}

// IngredientIndex returns the slice position of the ingredient with id, or -1.
func (s State) IngredientIndex(id string) int {
	for i := range s.Ingredients {
		if s.Ingredients[i].ID == id {
			return i
		}
	}
	return -1
}

// ProductIndex returns the slice position of the product with id, or -1.
func (s State) ProductIndex(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}
