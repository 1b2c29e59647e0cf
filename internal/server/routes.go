package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/base"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/server/handlers"
)

// registerRoutes wires the core endpoints and mounts every registered
// module under /api/v1.
func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	authMW *middleware.Auth,
	registry *base.Registry,
) {
	v1 := r.Group("/api/v1")

	adminHandler := handlers.NewAdminHandler(db)
	v1.GET("/health", adminHandler.Health)
	v1.GET("/admin/status", authMW.RequireStaff(), adminHandler.Status)

	authHandler := handlers.NewAuthHandler(db, cfg.Auth.TokenSecret)
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
	}

	registry.MountAll(v1, authMW)
}
