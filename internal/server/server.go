// Package server provides HTTP server functionality for the catalog
// service.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/api"
	"github.com/cinelog/cinelog/internal/base"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/modules/cataloguemodule"
	"github.com/cinelog/cinelog/internal/modules/reviewmodule"
	"github.com/cinelog/cinelog/internal/storage"
)

// SetupRouter configures and returns the main router with all catalog
// modules mounted under /api/v1.
func SetupRouter(cfg *config.Config, db *gorm.DB, posters *storage.PosterStore) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(api.ErrorMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	authMW := middleware.NewAuth(db, cfg.Auth.TokenSecret)

	registry := base.NewRegistry()
	registry.Register(cataloguemodule.New(db, posters))
	registry.Register(reviewmodule.New(db))

	registerRoutes(r, cfg, db, authMW, registry)

	return r
}
