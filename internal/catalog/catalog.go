// Package catalog implements the client-local product filtering and
// ordering applied on top of an already-fetched product set. Everything
// here is pure and allocation-light; persistence lives elsewhere.
package catalog

import (
	"sort"
	"strings"

	"github.com/Skotchmaster/farm_market/internal/models"
)

type Filter struct {
	Search     string
	CategoryID uint
	MinPrice   *float64
	MaxPrice   *float64
	Organic    *bool
}

// Matches reports whether the product passes the whole predicate chain:
// text match against name/description, category equality, price-range
// membership and the organic flag.
func (f Filter) Matches(p *models.Product) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Organic != nil && p.IsOrganic != *f.Organic {
		return false
	}
	return true
}

func (f Filter) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if f.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
	SortFeatured  = "featured"
)

// Sort orders products in place. Unknown keys fall back to the default
// featured-first order, with ties broken by name ascending.
func Sort(products []models.Product, key string) {
	var less func(a, b *models.Product) bool

	switch key {
	case SortPriceAsc:
		less = func(a, b *models.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *models.Product) bool { return a.Price > b.Price }
	case SortNameAsc:
		less = func(a, b *models.Product) bool { return a.Name < b.Name }
	case SortNameDesc:
		less = func(a, b *models.Product) bool { return a.Name > b.Name }
	default:
		less = func(a, b *models.Product) bool {
			if a.IsFeatured != b.IsFeatured {
				return a.IsFeatured
			}
			return a.Name < b.Name
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}
