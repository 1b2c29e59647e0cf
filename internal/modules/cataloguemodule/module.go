// Package cataloguemodule implements the movie catalog: annotated list
// queries, transactional movie+profile writes, and poster management.
package cataloguemodule

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/storage"
)

const (
	// ModuleID is the unique identifier for the catalogue module.
	ModuleID = "catalog.movies"

	// ModuleName is the display name for the catalogue module.
	ModuleName = "Movie Catalogue"
)

// Module wires the catalogue repository to its HTTP handlers.
type Module struct {
	posters *storage.PosterStore
	repo    *Repository
}

// New creates the catalogue module. posters may be nil when poster storage
// is not configured.
func New(db *gorm.DB, posters *storage.PosterStore) *Module {
	return &Module{
		posters: posters,
		repo:    NewRepository(db),
	}
}

// ID returns the module identifier.
func (m *Module) ID() string {
	return ModuleID
}

// Name returns the module display name.
func (m *Module) Name() string {
	return ModuleName
}

// RegisterRoutes attaches the catalogue endpoints to the API group. Reads
// are open; catalog mutations are staff only.
func (m *Module) RegisterRoutes(rg *gin.RouterGroup, auth *middleware.Auth) {
	handler := NewHandler(m.repo, m.posters)

	movies := rg.Group("/movies")
	{
		movies.GET("", handler.ListMovies)
		movies.GET("/:id", handler.GetMovie)

		movies.POST("", auth.RequireStaff(), handler.CreateMovie)
		movies.PUT("/:id", auth.RequireStaff(), handler.UpdateMovie)
		movies.DELETE("/:id", auth.RequireStaff(), handler.DeleteMovie)
		movies.POST("/:id/poster", auth.RequireStaff(), handler.UploadPoster)
	}
}

// Repo exposes the repository for other modules and tests.
func (m *Module) Repo() *Repository {
	return m.repo
}
