package handlers

import (
	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by SetupRoutes
type Handlers struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	CustomerLists *CustomerListHandler
	Customers     *CustomerHandler
	Campaigns     *CampaignHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
	NotFound      *NotFoundHandler
}

// SetupRoutes mounts the JSON API on router. Everything under /api except
// the auth endpoints requires a principal.
func SetupRoutes(router *gin.Engine, h *Handlers, authenticator middleware.Authenticator) {
	router.GET("/health", h.Health.HealthCheck)

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", h.Auth.Logout)
	}

	api := router.Group("/api")
	api.Use(middleware.AuthRequired(authenticator))
	{
		api.GET("/profile", h.Profile.Get)
		api.PUT("/profile", h.Profile.Update)

		api.GET("/dashboard", h.Dashboard.Dashboard)

		lists := api.Group("/customer-lists")
		lists.POST("", h.CustomerLists.Create)
		lists.GET("", h.CustomerLists.List)
		lists.GET("/:id", h.CustomerLists.Get)
		lists.PUT("/:id", h.CustomerLists.Update)
		lists.DELETE("/:id", h.CustomerLists.Delete)
		lists.GET("/:id/customers", h.CustomerLists.Customers)
		lists.POST("/:id/upload-csv", h.CustomerLists.Upload)
		lists.GET("/:id/export", h.CustomerLists.Export)

		customers := api.Group("/customers")
		customers.POST("", h.Customers.Create)
		customers.GET("", h.Customers.List)
		customers.GET("/:id", h.Customers.Get)
		customers.PUT("/:id", h.Customers.Update)
		customers.DELETE("/:id", h.Customers.Delete)

		campaigns := api.Group("/campaigns")
		campaigns.POST("", h.Campaigns.Create)
		campaigns.GET("", h.Campaigns.List)
		campaigns.GET("/:id", h.Campaigns.Get)
		campaigns.PUT("/:id", h.Campaigns.Update)
		campaigns.DELETE("/:id", h.Campaigns.Delete)
		campaigns.GET("/:id/customers", h.Campaigns.Customers)
	}

	router.NoRoute(h.NotFound.NotFound)
}
