package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/auth"
)

// SetupAuthRoutes registers the "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", auth.LoginHandler(deps.Verifier, deps.Users, deps.Sessions, deps.Policy))
		authGroup.POST("/guest", auth.GuestHandler())
	}
}
