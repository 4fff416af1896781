package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/farm_market/internal/handlers"
	"github.com/Skotchmaster/farm_market/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	UserHandler     *handlers.UserHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	ReviewHandler   *handlers.ReviewHandler
	SearchHandler   *handlers.SearchHandler
	TokenService    *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.GET("/me", d.AuthHandler.Me, d.TokenService.AutoRefreshMiddleware)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:slug", d.ProductHandler.GetProduct)
	api.GET("/products/:slug/reviews", d.ReviewHandler.GetReviews)
	api.POST("/products/:slug/reviews", d.ReviewHandler.CreateReview, d.TokenService.AutoRefreshMiddleware)
	api.GET("/categories", d.CategoryHandler.GetCategories)
	api.GET("/farmers", d.UserHandler.GetFarmers)
	api.GET("/users/:id", d.UserHandler.GetUser)
	api.GET("/search", d.SearchHandler.Search)

	cart := api.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PUT("/items/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := api.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.POST("", d.OrderHandler.MakeOrder)
	orders.GET("", d.OrderHandler.GetOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := api.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.CategoryHandler.CreateCategory)
	admin.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory)
	admin.PATCH("/orders/:id", d.OrderHandler.UpdateStatus)
}
