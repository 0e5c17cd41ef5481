package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/order"
	productControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/product"
	"github.com/nerdymedev/lekzzy-tech-store/middleware"
)

// SetupSellerRoutes registers the "/seller/*" back-office endpoints, gated by
// the injected seller policy.
func SetupSellerRoutes(r *gin.Engine, deps Deps) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken, middleware.RequireSeller(deps.Policy))
	{
		productGroup := sellerGroup.Group("/products")
		{
			productGroup.POST("", productControllers.CreateProduct(deps.Catalog))
			productGroup.PUT("/:id", productControllers.UpdateProduct(deps.Catalog))
			productGroup.DELETE("/:id", productControllers.DeleteProduct(deps.Catalog))
			productGroup.GET("/export-excel", productControllers.ExportProductsToExcel(deps.Catalog))
		}

		orderGroup := sellerGroup.Group("/orders")
		{
			orderGroup.GET("", orderControllers.GetAllOrders(deps.Lifecycle))
			orderGroup.PUT("/:orderID/deliver", orderControllers.MarkDelivered(deps.Lifecycle))
			orderGroup.PUT("/:orderID/pay", orderControllers.MarkPaid(deps.Lifecycle))
		}
	}

	// The feed is upgraded before auth headers can be sent by a browser
	// websocket, so it hangs off its own path like the original service.
	r.GET("/orders/ws", orderControllers.OrderFeed(deps.Hub))
}
