package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/hash"
	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
	"github.com/Skotchmaster/farm_market/internal/service/token"
)

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errorResponse(c, http.StatusBadRequest, "username, email and password are required")
	}

	role := req.Role
	switch role {
	case "":
		role = "customer"
	case "customer", "farmer":
	default:
		return errorResponse(c, http.StatusBadRequest, "invalid role")
	}

	var existing models.User
	err := h.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		return errorResponse(c, http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Name:         req.Name,
		Role:         role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return errorResponse(c, http.StatusUnauthorized, "invalid email or password")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return errorResponse(c, http.StatusUnauthorized, "invalid email or password")
	}

	accessToken, err := token.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "could not create access token")
	}

	refreshToken, err := token.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "could not create refresh token")
	}

	if err := token.SaveRefreshToken(h.DB, refreshToken, user.ID, user.Role); err != nil {
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(token.CreateCookie("accessToken", accessToken, "/", time.Now().Add(token.AccessTTL)))
	c.SetCookie(token.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(token.RefreshTTL)))

	publish(c, h.Producer, "user_events", map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) LogOut(c echo.Context) error {
	refreshCookie, err := c.Cookie("refreshToken")
	if err == nil {
		if err := h.DB.Model(&models.RefreshToken{}).
			Where("token = ?", refreshCookie.Value).
			Update("revoked", true).Error; err != nil {
			return errorResponse(c, http.StatusInternalServerError, "internal error")
		}
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(token.CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(token.CreateCookie("refreshToken", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		return errorResponse(c, http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, user)
}
