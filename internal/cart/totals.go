// Package cart derives totals from cart lines. The snapshot price stored
// on each line is authoritative; product records are never consulted.
package cart

import "github.com/Skotchmaster/farm_market/internal/models"

type Totals struct {
	TotalItems uint    `json:"total_items"`
	Subtotal   float64 `json:"subtotal"`
}

// Compute sums quantities and line totals over all lines. An empty or nil
// slice yields zero totals.
func Compute(items []models.CartItem) Totals {
	var t Totals
	for i := range items {
		t.TotalItems += items[i].Quantity
		t.Subtotal += items[i].Price * float64(items[i].Quantity)
	}
	return t
}
