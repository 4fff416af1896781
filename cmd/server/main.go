package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/farm_market/internal/config"
	"github.com/Skotchmaster/farm_market/internal/es"
	"github.com/Skotchmaster/farm_market/internal/handlers"
	"github.com/Skotchmaster/farm_market/internal/logging"
	"github.com/Skotchmaster/farm_market/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/farm_market/internal/middleware/logging"
	"github.com/Skotchmaster/farm_market/internal/mykafka"
	"github.com/Skotchmaster/farm_market/internal/service/token"
	httpserver "github.com/Skotchmaster/farm_market/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "cart_events", "order_events", "product_events", "review_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		Secure:    true,
		SkipPaths: []string{"/api/auth/register", "/api/auth/login"},
	}))

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, ES: esClient, Index: "products", Producer: prod},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		UserHandler:     &handlers.UserHandler{DB: db},
		CartHandler:     &handlers.CartHandler{DB: db, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{DB: db, Producer: prod},
		ReviewHandler:   &handlers.ReviewHandler{DB: db, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products"},
		TokenService:    &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
