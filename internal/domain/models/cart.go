package models

// CartLine is one product entry in the current sales session.
type CartLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Subtotal returns price times quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Qty)
}

// CartTotal sums the subtotals of all lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}
