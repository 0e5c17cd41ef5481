package routes

import (
	"github.com/gin-gonic/gin"

	addressControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/address"
	cartControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/cart"
	checkoutControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/checkout"
	orderControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/order"
	productControllers "github.com/nerdymedev/lekzzy-tech-store/controllers/product"
	"github.com/nerdymedev/lekzzy-tech-store/middleware"
)

// SetupPublicRoutes registers unauthenticated catalog browsing.
func SetupPublicRoutes(r *gin.Engine, deps Deps) {
	r.GET("/products", productControllers.GetProducts(deps.Catalog))
	r.GET("/products/:id", productControllers.GetProductByID(deps.Catalog))
}

// SetupUserRoutes registers the "/user/*" endpoints. Requires a session JWT
// (guest tokens included; checkout itself rejects guests).
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(deps.Sessions))
			cartGroup.POST("/", cartControllers.UpdateCartItem(deps.Sessions))
			cartGroup.POST("/add", cartControllers.AddToCart(deps.Sessions))
			cartGroup.DELETE("/", cartControllers.ClearCart(deps.Sessions))
		}

		addressGroup := userGroup.Group("/addresses")
		{
			addressGroup.GET("/", addressControllers.GetAddresses(deps.Sessions))
			addressGroup.POST("/", addressControllers.SaveAddress(deps.Sessions))
			addressGroup.PUT("/select", addressControllers.SelectAddress(deps.Sessions))
		}

		checkoutGroup := userGroup.Group("/checkout")
		{
			checkoutGroup.POST("/", checkoutControllers.PlaceOrder(deps.Sessions, deps.Lifecycle))
			checkoutGroup.PUT("/", checkoutControllers.UpdateDraft(deps.Sessions))
			checkoutGroup.POST("/promo", checkoutControllers.ApplyPromo(deps.Sessions))
		}

		userGroup.GET("/orders", orderControllers.GetMyOrders(deps.Lifecycle))
		userGroup.GET("/orders/:orderID", orderControllers.GetOrderByID(deps.Lifecycle))
	}
}
