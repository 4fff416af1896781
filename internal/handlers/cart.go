package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/cart"
	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type cartResponse struct {
	ID         uint              `json:"id"`
	UserID     uint              `json:"user_id"`
	Items      []models.CartItem `json:"items"`
	TotalItems uint              `json:"total_items"`
	Subtotal   float64           `json:"subtotal"`
}

func cartToResponse(crt *models.Cart) cartResponse {
	items := crt.Items
	if items == nil {
		items = []models.CartItem{}
	}
	t := cart.Compute(items)
	return cartResponse{
		ID:         crt.ID,
		UserID:     crt.UserID,
		Items:      items,
		TotalItems: t.TotalItems,
		Subtotal:   t.Subtotal,
	}
}

// findCart loads the caller's cart with its lines. A user who has never
// added anything has no cart row yet; that reads as an empty cart, not an
// error.
func (h *CartHandler) findCart(uid uint) (*models.Cart, error) {
	var crt models.Cart
	err := h.DB.Preload("Items").Where("user_id = ?", uid).First(&crt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: uid, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &crt, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	crt, err := h.findCart(uid)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, cartToResponse(crt))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 || req.ProductID == 0 {
		return errorResponse(c, http.StatusBadRequest, "product_id and quantity>=1 are required")
	}

	var item models.CartItem
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "product not found")
			}
			return err
		}

		// Cart is created lazily on the first add.
		var crt models.Cart
		if err := tx.Where("user_id = ?", uid).First(&crt).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			crt = models.Cart{UserID: uid}
			if err := tx.Create(&crt).Error; err != nil {
				return err
			}
		}

		err := tx.Where("cart_id = ? AND product_id = ?", crt.ID, req.ProductID).First(&item).Error
		if err == nil {
			// Existing line keeps its original price snapshot.
			item.Quantity += req.Quantity
			return tx.Save(&item).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item = models.CartItem{
			CartID:    crt.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     product.Price,
		}
		return tx.Create(&item).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":      "cart_item_added",
		"userID":    uid,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		return errorResponse(c, http.StatusBadRequest, "quantity must be >= 1")
	}

	item, err := h.ownedItem(uid, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "item not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	item.Quantity = req.Quantity
	if err := h.DB.Save(item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":     "cart_item_updated",
		"userID":   uid,
		"itemID":   item.ID,
		"quantity": item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	item, err := h.ownedItem(uid, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "item not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if err := h.DB.Delete(item).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_item_removed",
		"userID": uid,
		"itemID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var crt models.Cart
	if err := h.DB.Where("user_id = ?", uid).First(&crt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.NoContent(http.StatusNoContent)
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if err := h.DB.Where("cart_id = ?", crt.ID).Delete(&models.CartItem{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "cart_events", map[string]any{
		"type":   "cart_cleared",
		"userID": uid,
	})

	return c.NoContent(http.StatusNoContent)
}

// ownedItem resolves a cart line by id, scoped to the caller's cart.
func (h *CartHandler) ownedItem(uid, itemID uint) (*models.CartItem, error) {
	var crt models.Cart
	if err := h.DB.Where("user_id = ?", uid).First(&crt).Error; err != nil {
		return nil, err
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND cart_id = ?", itemID, crt.ID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
