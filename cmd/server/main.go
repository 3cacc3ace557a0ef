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

	"github.com/alimgiray/gcrm/internal/auth"
	"github.com/alimgiray/gcrm/internal/handlers"
	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/propagation"
	"github.com/alimgiray/gcrm/internal/repositories"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/alimgiray/gcrm/pkg/config"
	"github.com/alimgiray/gcrm/pkg/database"
	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Log.Level)
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize dependencies
	store := repositories.NewStore(database.DB)
	engine := propagation.NewEngine()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTTTLHours)*time.Hour)

	userService := services.NewUserService(store, tokens)
	customerListService := services.NewCustomerListService(store)
	importService := services.NewImportService(store, engine)
	customerService := services.NewCustomerService(store, engine)
	campaignService := services.NewCampaignService(store, engine)
	dashboardService := services.NewDashboardService(store)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SessionMiddleware())

	handlers.SetupRoutes(router, &handlers.Handlers{
		Auth:          handlers.NewAuthHandler(userService),
		Profile:       handlers.NewProfileHandler(userService),
		CustomerLists: handlers.NewCustomerListHandler(customerListService, importService, cfg.Upload.MaxBytes),
		Customers:     handlers.NewCustomerHandler(customerService),
		Campaigns:     handlers.NewCampaignHandler(campaignService),
		Dashboard:     handlers.NewDashboardHandler(dashboardService),
		Health:        handlers.NewHealthHandler(database.DB),
		NotFound:      handlers.NewNotFoundHandler(),
	}, userService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Infof("Server stopped")
}
