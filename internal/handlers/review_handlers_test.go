package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/farm_market/internal/models"
)

func TestCreateAndListReviews(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	env.createProduct("apples", 4.00, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/products/apples/reviews", map[string]any{
		"rating":  5,
		"comment": "crisp and sweet",
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, "/api/products/apples/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []models.Review
	decodeJSON(t, rec, &reviews)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Rating)
	require.Equal(t, "crisp and sweet", reviews[0].Comment)
}

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	env.createProduct("apples", 4.00, 10, farmer.ID)

	for _, rating := range []int{0, 6, -1} {
		rec := env.do(http.MethodPost, "/api/products/apples/reviews", map[string]any{
			"rating": rating,
		}, cookies...)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	rec := env.do(http.MethodPost, "/api/products/nope/reviews", map[string]any{
		"rating": 4,
	}, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// anonymous
	rec = env.do(http.MethodPost, "/api/products/apples/reviews", map[string]any{
		"rating": 4,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
