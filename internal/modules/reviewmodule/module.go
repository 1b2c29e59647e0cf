// Package reviewmodule implements user reviews and personal watchlists:
// review upsert with race-safe uniqueness, owner/staff deletion rules, and
// the watchlist membership toggle.
package reviewmodule

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/middleware"
)

const (
	// ModuleID is the unique identifier for the review module.
	ModuleID = "catalog.reviews"

	// ModuleName is the display name for the review module.
	ModuleName = "Reviews & Watchlist"
)

// Module wires the review repository to its HTTP handlers.
type Module struct {
	repo *Repository
}

// New creates the review module.
func New(db *gorm.DB) *Module {
	return &Module{repo: NewRepository(db)}
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name.
func (m *Module) Name() string {
	return ModuleName
}

// RegisterRoutes attaches review and watchlist endpoints to the API group.
// Reads are open; mutations require authentication.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.Auth) {
	handler := NewHandler(m.repo)

	rg.GET("/movies/:id/reviews", handler.ListReviews)
	rg.POST("/movies/:id/reviews", auth.RequireUser(), handler.UpsertReview)

	reviews := rg.Group("/reviews")
	{
		reviews.GET("/:id", handler.GetReview)
		reviews.PUT("/:id", auth.RequireUser(), handler.UpdateReview)
		reviews.DELETE("/:id", auth.RequireUser(), handler.DeleteReview)
	}

	watchlist := rg.Group("/watchlist", auth.RequireUser())
	{
		watchlist.GET("", handler.GetWatchlist)
		watchlist.POST("/:movieID/toggle", handler.ToggleWatchlist)
	}
}

// Repo exposes the repository for tests.
func (m *Module) Repo() *Repository {
	return m.repo
}
