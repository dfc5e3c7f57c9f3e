package models

import "encoding/json"

// Ingredient is a raw material held in the stall's inventory.
type Ingredient struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stock    float64 `json:"stock"`
	Unit     string  `json:"unit"`
	BaseCost float64 `json:"baseCost"`
}

// Recipe converts one unit of an ingredient into Ratio units of a product.
type Recipe struct {
	IngredientID string  `json:"ingId"`
	Ratio        float64 `json:"ratio"`
}

// UnmarshalJSON accepts the legacy "id" field for the ingredient reference.
// Older saved catalogs stored one recipe that way.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw struct {
		IngredientID string  `json:"ingId"`
		LegacyID     string  `json:"id"`
		Ratio        float64 `json:"ratio"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.IngredientID = raw.IngredientID
	if r.IngredientID == "" {
		r.IngredientID = raw.LegacyID
	}
	r.Ratio = raw.Ratio
	return nil
}

// Product is a sellable unit, optionally produced from an ingredient.
type Product struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Stock  int     `json:"stock"`
	Recipe *Recipe `json:"recipe,omitempty"`
}

// InStock reports whether the product can be offered on the sell screen.
func (p Product) InStock() bool {
	return p.Stock > 0
}
