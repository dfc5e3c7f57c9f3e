package pos

import "github.com/odenstall/pos/internal/domain/models"

// Cart returns the current cart lines.
func (s *Service) Cart() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartLine{}, s.cart...)
}

// AddToCart increments the product's line or appends a new one with qty 1.
// The price is captured when the line is created. Stock is not checked here;
// callers decide whether an out-of-stock product may be offered.
func (s *Service) AddToCart(productID string) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ID == productID {
			s.cart[i].Qty++
			return append([]models.CartLine{}, s.cart...), nil
		}
	}

	idx := s.state.ProductIndex(productID)
	if idx < 0 {
		return nil, ErrProductNotFound
	}
	p := s.state.Products[idx]
	s.cart = append(s.cart, models.CartLine{ID: p.ID, Name: p.Name, Price: p.Price, Qty: 1})

	return append([]models.CartLine{}, s.cart...), nil
}

// AdjustQty adds delta to a line's quantity without letting it drop below one.
func (s *Service) AdjustQty(lineID string, delta int) ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].ID == lineID {
			s.cart[i].Qty = max(1, s.cart[i].Qty+delta)
			return append([]models.CartLine{}, s.cart...), nil
		}
	}
	return nil, ErrCartLineNotFound
}

// RemoveLine deletes the line if present.
func (s *Service) RemoveLine(lineID string) []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	for _, line := range s.cart {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	s.cart = kept
	return append([]models.CartLine{}, s.cart...)
}

// ClearCart empties the cart.
func (s *Service) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}
