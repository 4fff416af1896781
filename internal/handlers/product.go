package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/catalog"
	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
	"github.com/Skotchmaster/farm_market/internal/service/search"
	"github.com/Skotchmaster/farm_market/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	ES       *elasticsearch.Client
	Index    string
	Producer *mykafka.Producer
}

// GetProducts loads the catalog and applies the filter chain and comparator
// in memory, the same transformation the storefront applies client-side.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Order("id ASC").Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	f := catalog.Filter{Search: c.QueryParam("search")}
	if v := c.QueryParam("category"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, "invalid category")
		}
		f.CategoryID = uint(id)
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, "invalid min_price")
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errorResponse(c, http.StatusBadRequest, "invalid max_price")
		}
		f.MaxPrice = &p
	}
	if v := c.QueryParam("organic"); v != "" {
		organic := v == "true" || v == "1"
		f.Organic = &organic
	}

	filtered := f.Apply(products)
	catalog.Sort(filtered, c.QueryParam("sort"))

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total := len(filtered)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": filtered[offset:end],
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    end < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	slug := c.Param("slug")

	var product models.Product
	if err := h.DB.Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, product)
}

type productRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Unit        string   `json:"unit"`
	Image       string   `json:"image"`
	Stock       uint     `json:"stock"`
	FarmerID    uint     `json:"farmer_id"`
	CategoryID  uint     `json:"category_id"`
	IsOrganic   bool     `json:"is_organic"`
	IsFeatured  bool     `json:"is_featured"`
	Tags        []string `json:"tags"`
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Price <= 0 {
		return errorResponse(c, http.StatusBadRequest, "name and positive price are required")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	prod := models.Product{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Image:       req.Image,
		Stock:       req.Stock,
		FarmerID:    req.FarmerID,
		CategoryID:  req.CategoryID,
		IsOrganic:   req.IsOrganic,
		IsFeatured:  req.IsFeatured,
		Tags:        pq.StringArray(req.Tags),
	}

	var existing models.Product
	if err := h.DB.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return errorResponse(c, http.StatusConflict, "slug already in use")
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	h.indexProduct(c, &prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Unit        *string  `json:"unit"`
		Image       *string  `json:"image"`
		Stock       *uint    `json:"stock"`
		CategoryID  *uint    `json:"category_id"`
		IsOrganic   *bool    `json:"is_organic"`
		IsFeatured  *bool    `json:"is_featured"`
		Tags        []string `json:"tags"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return errorResponse(c, http.StatusBadRequest, "price must be positive")
		}
		prod.Price = *req.Price
	}
	if req.Unit != nil {
		prod.Unit = *req.Unit
	}
	if req.Image != nil {
		prod.Image = *req.Image
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		prod.CategoryID = *req.CategoryID
	}
	if req.IsOrganic != nil {
		prod.IsOrganic = *req.IsOrganic
	}
	if req.IsFeatured != nil {
		prod.IsFeatured = *req.IsFeatured
	}
	if req.Tags != nil {
		prod.Tags = pq.StringArray(req.Tags)
	}

	if err := h.DB.Save(&prod).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	h.indexProduct(c, &prod)
	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}

	publish(c, h.Producer, "product_events", map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// indexProduct syncs the search index, best-effort.
func (h *ProductHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
