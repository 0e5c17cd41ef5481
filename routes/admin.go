package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/order"
	"github.com/nerdymedev/lekzzy-tech-store/middleware"
)

// SetupAdminRoutes registers service-to-service endpoints guarded by an API
// key rather than a user session.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/orders", orderControllers.GetAllOrders(deps.Lifecycle))
	}
}
