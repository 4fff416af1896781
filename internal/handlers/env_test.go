package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/config"
	"github.com/Skotchmaster/farm_market/internal/handlers"
	"github.com/Skotchmaster/farm_market/internal/hash"
	"github.com/Skotchmaster/farm_market/internal/models"
	"github.com/Skotchmaster/farm_market/internal/service/token"
	httpserver "github.com/Skotchmaster/farm_market/internal/transport/http"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	e := echo.New()
	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
		ProductHandler:  &handlers.ProductHandler{DB: db},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		UserHandler:     &handlers.UserHandler{DB: db},
		CartHandler:     &handlers.CartHandler{DB: db},
		OrderHandler:    &handlers.OrderHandler{DB: db},
		ReviewHandler:   &handlers.ReviewHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{},
		TokenService:    &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func authCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	out := []*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "accessToken" || ck.Name == "refreshToken" {
			out = append(out, ck)
		}
	}
	return out
}

// login registers a fresh customer and logs them in, returning the session
// cookies.
func (env *testEnv) login(username string) []*http.Cookie {
	env.T.Helper()

	email := username + "@example.com"
	rec := env.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "password",
	})
	require.Equal(env.T, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	cookies := authCookies(rec)
	require.Len(env.T, cookies, 2)
	return cookies
}

func (env *testEnv) loginAdmin() []*http.Cookie {
	env.T.Helper()

	pwHash, err := hash.HashPassword("admin-password")
	require.NoError(env.T, err)
	admin := models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: pwHash,
		Role:         "admin",
	}
	require.NoError(env.T, env.DB.Create(&admin).Error)

	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "admin@example.com",
		"password": "admin-password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	cookies := authCookies(rec)
	require.Len(env.T, cookies, 2)
	return cookies
}

func (env *testEnv) createFarmer(username string) models.User {
	env.T.Helper()

	farmer := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Name:         username,
		Role:         "farmer",
	}
	require.NoError(env.T, env.DB.Create(&farmer).Error)
	return farmer
}

func (env *testEnv) createProduct(name string, price float64, stock uint, farmerID uint) models.Product {
	env.T.Helper()

	p := models.Product{
		Name:     name,
		Slug:     name,
		Price:    price,
		Stock:    stock,
		FarmerID: farmerID,
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
