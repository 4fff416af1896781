package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

var validStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// MakeOrder turns the caller's cart into an order. Stock decrements, order
// creation and cart clearing happen in one transaction; a line that cannot
// be covered by stock rolls the whole order back.
func (h *OrderHandler) MakeOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req struct {
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Address == "" {
		return errorResponse(c, http.StatusBadRequest, "address is required")
	}

	var order models.Order
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var crt models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", uid).First(&crt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
			}
			return err
		}
		if len(crt.Items) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}

		var total float64
		orderItems := make([]models.OrderItem, 0, len(crt.Items))
		for _, it := range crt.Items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, "product no longer available")
				}
				return err
			}

			// Guarded decrement keeps stock from going negative.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return echo.NewHTTPError(http.StatusConflict, "insufficient stock for "+p.Name)
			}

			total += it.Price * float64(it.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: it.ProductID,
				FarmerID:  p.FarmerID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}

		order = models.Order{
			UserID:  uid,
			Status:  models.OrderStatusPending,
			Total:   total,
			Address: req.Address,
			Phone:   req.Phone,
			Items:   orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", crt.ID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_created",
		"userID":  uid,
		"orderID": order.ID,
		"total":   order.Total,
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("Items").Where("user_id = ?", uid).Order("id DESC").Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.DB.Preload("Items").Where("id = ? AND user_id = ?", id, uid).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus is the admin transition endpoint. Delivered and cancelled
// are terminal.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if !validStatuses[req.Status] {
		return errorResponse(c, http.StatusBadRequest, "invalid status")
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if order.Status == models.OrderStatusDelivered || order.Status == models.OrderStatusCancelled {
		return errorResponse(c, http.StatusConflict, "order is in a terminal status")
	}

	order.Status = req.Status
	if err := h.DB.Save(&order).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "order_events", map[string]any{
		"type":    "order_status_changed",
		"userID":  order.UserID,
		"orderID": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, order)
}
