package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

// profile is the public slice of a user record. Email stays private.
type profile struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
}

func toProfile(u *models.User) profile {
	return profile{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Role:         u.Role,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}

func (h *UserHandler) GetFarmers(c echo.Context) error {
	var farmers []models.User
	if err := h.DB.Where("role = ?", "farmer").Order("name ASC").Find(&farmers).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	out := make([]profile, len(farmers))
	for i := range farmers {
		out[i] = toProfile(&farmers[i])
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, toProfile(&user))
}
