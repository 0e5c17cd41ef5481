package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/auth"
	"github.com/nerdymedev/lekzzy-tech-store/orders"
	"github.com/nerdymedev/lekzzy-tech-store/session"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

// Deps carries the constructed services into the route groups.
type Deps struct {
	Sessions  *session.Manager
	Catalog   *store.Catalog
	Lifecycle *orders.Service
	Hub       *orders.Hub
	Users     *store.Users
	Verifier  auth.TokenVerifier
	Policy    auth.SellerPolicy
}

// SetupRoutes is the single entry point wiring up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupAuthRoutes(r, deps)
	SetupPublicRoutes(r, deps)
	SetupUserRoutes(r, deps)
	SetupSellerRoutes(r, deps)
	SetupAdminRoutes(r, deps)
}
