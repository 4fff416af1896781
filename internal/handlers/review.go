package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *ReviewHandler) productBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := h.DB.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	product, err := h.productBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	var reviews []models.Review
	if err := h.DB.Where("product_id = ?", product.ID).Order("id DESC").Find(&reviews).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	product, err := h.productBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return errorResponse(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review := models.Review{
		UserID:    uid,
		ProductID: product.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "review_events", map[string]any{
		"type":      "review_created",
		"userID":    uid,
		"productID": product.ID,
		"rating":    review.Rating,
	})

	return c.JSON(http.StatusCreated, review)
}
