// Package base defines the contract catalog feature modules implement and
// the registry the server uses to mount them.
package base

import (
	"github.com/gin-gonic/gin"

	"github.com/cinelog/cinelog/internal/logger"
	"github.com/cinelog/cinelog/internal/middleware"
)

// Module is a self-contained feature area owning a set of routes under the
// API group. Schema migration is centralized in the database package, so
// modules only declare identity and routes.
type Module interface {
	ID() string
	Name() string
	RegisterRoutes(rg *gin.RouterGroup, auth *middleware.Auth)
}

// Registry holds the modules mounted by the server, in registration order.
type Registry struct {
	modules []Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module. Registration order is mount order.
func (r *Registry) Register(m Module) {
	r.modules = append(r.modules, m)
}

// Modules returns the registered modules.
func (r *Registry) Modules() []Module {
	return r.modules
}

// MountAll registers every module's routes on the API group.
func (r *Registry) MountAll(rg *gin.RouterGroup, auth *middleware.Auth) {
	for _, m := range r.modules {
		m.RegisterRoutes(rg, auth)
		logger.Info("module routes registered",
			logger.String("module", m.ID()),
			logger.String("name", m.Name()),
		)
	}
}
