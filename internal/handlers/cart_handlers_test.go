package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/farm_market/internal/models"
)

type cartBody struct {
	ID         uint              `json:"id"`
	UserID     uint              `json:"user_id"`
	Items      []models.CartItem `json:"items"`
	TotalItems uint              `json:"total_items"`
	Subtotal   float64           `json:"subtotal"`
}

func TestGetCartUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartEmptyWithoutRow(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")

	rec := env.do(http.MethodGet, "/api/cart", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	var body cartBody
	decodeJSON(t, rec, &body)
	require.Empty(t, body.Items)
	require.Equal(t, uint(0), body.TotalItems)
	require.Equal(t, 0.0, body.Subtotal)
}

func TestAddToCartCreatesCartLazily(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("carrots", 2.50, 10, farmer.ID)

	var count int64
	env.DB.Model(&models.Cart{}).Count(&count)
	require.Zero(t, count)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   2,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	env.DB.Model(&models.Cart{}).Count(&count)
	require.Equal(t, int64(1), count)

	var item models.CartItem
	decodeJSON(t, rec, &item)
	require.Equal(t, p.ID, item.ProductID)
	require.Equal(t, uint(2), item.Quantity)
	require.Equal(t, 2.50, item.Price)
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("carrots", 2.50, 10, farmer.ID)

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
			"product_id": p.ID,
			"quantity":   3,
		}, cookies...)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Len(t, body.Items, 1)
	require.Equal(t, uint(6), body.Items[0].Quantity)
	require.Equal(t, uint(6), body.TotalItems)
}

func TestAddToCartValidation(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("carrots", 2.50, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   0,
	}, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": 9999,
		"quantity":   1,
	}, cookies...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPriceSnapshotSurvivesProductPriceChange(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("carrots", 2.50, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   2,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, env.DB.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", 9.99).Error)

	rec = env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Equal(t, 2.50, body.Items[0].Price)
	require.Equal(t, 5.00, body.Subtotal)
}

func TestUpdateQuantity(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("apples", 4.00, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   1,
	}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	decodeJSON(t, rec, &item)

	rec = env.do(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", item.ID), map[string]any{
		"quantity": 3,
	}, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Equal(t, uint(3), body.TotalItems)
	require.Equal(t, 12.00, body.Subtotal)
}

func TestUpdateQuantityBelowOneRejected(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("apples", 4.00, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   2,
	}, cookies...)
	var item models.CartItem
	decodeJSON(t, rec, &item)

	rec = env.do(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", item.ID), map[string]any{
		"quantity": 0,
	}, cookies...)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Equal(t, uint(2), body.Items[0].Quantity)
}

func TestUpdateForeignItemNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.login("alice")
	bob := env.login("bob")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("apples", 4.00, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   1,
	}, alice...)
	var item models.CartItem
	decodeJSON(t, rec, &item)

	rec = env.do(http.MethodPut, fmt.Sprintf("/api/cart/items/%d", item.ID), map[string]any{
		"quantity": 5,
	}, bob...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveLastItemLeavesEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p := env.createProduct("apples", 4.00, 10, farmer.ID)

	rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
		"product_id": p.ID,
		"quantity":   3,
	}, cookies...)
	var item models.CartItem
	decodeJSON(t, rec, &item)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", item.ID), nil, cookies...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Empty(t, body.Items)
	require.Equal(t, uint(0), body.TotalItems)
	require.Equal(t, 0.0, body.Subtotal)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login("alice")
	farmer := env.createFarmer("greenacres")
	p1 := env.createProduct("apples", 4.00, 10, farmer.ID)
	p2 := env.createProduct("pears", 3.00, 10, farmer.ID)

	for _, p := range []models.Product{p1, p2} {
		rec := env.do(http.MethodPost, "/api/cart/items", map[string]any{
			"product_id": p.ID,
			"quantity":   2,
		}, cookies...)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodDelete, "/api/cart", nil, cookies...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/api/cart", nil, cookies...)
	var body cartBody
	decodeJSON(t, rec, &body)
	require.Empty(t, body.Items)
}
