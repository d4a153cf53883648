// internal/app/router.go
package app

import (
	authHandler "accounts-service/internal/handlers/auth"
	catalogHandler "accounts-service/internal/handlers/catalog"
	"accounts-service/internal/domain/user"
	"accounts-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	CatalogHandler *catalogHandler.CatalogHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := r.Group("/auth")
	{
		authPublic.POST("/send-otp", h.AuthHandler.SendOTP)
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/verify", h.AuthHandler.Verify)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := r.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Authenticate())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
		authProtected.GET("/my-sessions", h.AuthHandler.MySessions)
	}

	// ==================== Catalog ====================
	// Reads are public; mutations require an admin-grade role, passed
	// explicitly per route.
	adminRoles := []string{user.RoleAdmin, user.RoleSuperAdmin}

	categories := r.Group("/categories")
	{
		categories.GET("", h.CatalogHandler.ListCategories)
		categories.GET("/:id", h.CatalogHandler.GetCategory)

		categories.POST("",
			h.AuthMiddleware.Authenticate(),
			h.AuthMiddleware.RequireRole(adminRoles...),
			h.CatalogHandler.CreateCategory)
		categories.DELETE("/:id",
			h.AuthMiddleware.Authenticate(),
			h.AuthMiddleware.RequireRole(adminRoles...),
			h.CatalogHandler.DeleteCategory)
	}

	products := r.Group("/products")
	{
		products.GET("", h.CatalogHandler.ListProducts)
		products.GET("/:id", h.CatalogHandler.GetProduct)

		mutating := products.Group("")
		mutating.Use(
			h.AuthMiddleware.Authenticate(),
			h.AuthMiddleware.RequireRole(adminRoles...),
		)
		{
			mutating.POST("", h.CatalogHandler.CreateProduct)
			mutating.PUT("/:id", h.CatalogHandler.UpdateProduct)
			mutating.DELETE("/:id", h.CatalogHandler.DeleteProduct)
		}
	}
}
