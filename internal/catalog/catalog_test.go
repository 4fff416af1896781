package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/farm_market/internal/models"
)

func sample() []models.Product {
	return []models.Product{
		{ID: 1, Name: "carrots", Description: "sweet winter carrots", Price: 3, CategoryID: 1, IsOrganic: true},
		{ID: 2, Name: "apples", Description: "orchard apples", Price: 1, CategoryID: 2},
		{ID: 3, Name: "beets", Description: "red beets", Price: 2, CategoryID: 1, IsFeatured: true},
	}
}

func names(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i := range ps {
		out[i] = ps[i].Name
	}
	return out
}

func TestFilterSearchMatchesNameAndDescription(t *testing.T) {
	f := Filter{Search: "CARR"}
	require.Equal(t, []string{"carrots"}, names(f.Apply(sample())))

	f = Filter{Search: "orchard"}
	require.Equal(t, []string{"apples"}, names(f.Apply(sample())))

	f = Filter{Search: "quinoa"}
	require.Empty(t, f.Apply(sample()))
}

func TestFilterCategory(t *testing.T) {
	f := Filter{CategoryID: 1}
	require.Equal(t, []string{"carrots", "beets"}, names(f.Apply(sample())))
}

func TestFilterPriceRange(t *testing.T) {
	min, max := 1.5, 2.5
	f := Filter{MinPrice: &min, MaxPrice: &max}
	require.Equal(t, []string{"beets"}, names(f.Apply(sample())))
}

func TestFilterOrganic(t *testing.T) {
	organic := true
	f := Filter{Organic: &organic}
	require.Equal(t, []string{"carrots"}, names(f.Apply(sample())))

	organic = false
	require.Equal(t, []string{"apples", "beets"}, names(f.Apply(sample())))
}

func TestFilterChain(t *testing.T) {
	organic := false
	f := Filter{Search: "be", CategoryID: 1, Organic: &organic}
	require.Equal(t, []string{"beets"}, names(f.Apply(sample())))
}

func TestSortPriceAsc(t *testing.T) {
	ps := []models.Product{{Price: 3}, {Price: 1}, {Price: 2}}
	Sort(ps, SortPriceAsc)
	require.Equal(t, []models.Product{{Price: 1}, {Price: 2}, {Price: 3}}, ps)
}

func TestSortPriceDesc(t *testing.T) {
	ps := sample()
	Sort(ps, SortPriceDesc)
	require.Equal(t, []string{"carrots", "beets", "apples"}, names(ps))
}

func TestSortName(t *testing.T) {
	ps := sample()
	Sort(ps, SortNameAsc)
	require.Equal(t, []string{"apples", "beets", "carrots"}, names(ps))

	Sort(ps, SortNameDesc)
	require.Equal(t, []string{"carrots", "beets", "apples"}, names(ps))
}

func TestSortFeaturedFirstFallsBackToName(t *testing.T) {
	ps := sample()
	Sort(ps, SortFeatured)
	require.Equal(t, []string{"beets", "apples", "carrots"}, names(ps))

	// with no featured products the order is purely name ascending
	flat := []models.Product{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	Sort(flat, "")
	require.Equal(t, []string{"a", "b", "c"}, names(flat))
}
