package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/models"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, "name is required")
	}

	var existing models.Category
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return errorResponse(c, http.StatusConflict, "category already exists")
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}
