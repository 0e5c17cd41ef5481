package orderControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/middleware"
	"github.com/nerdymedev/lekzzy-tech-store/orders"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

// GET /user/orders — the caller's own orders, newest first.
func GetMyOrders(lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		list, err := lifecycle.ListByUser(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /user/orders/:orderID
func GetOrderByID(lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		order, err := lifecycle.Get(c.Request.Context(), orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		user := middleware.CurrentUser(c)
		if order.UserID != user.ID && user.Role != "seller" && user.Role != "admin" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /seller/orders — every order, for the back office.
func GetAllOrders(lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := lifecycle.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /seller/orders/:orderID/deliver
func MarkDelivered(lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := lifecycle.MarkDelivered(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			writeLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /seller/orders/:orderID/pay
func MarkPaid(lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := lifecycle.MarkPaid(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			writeLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /seller/orders/ws — live feed of order events.
func OrderFeed(hub *orders.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	}
}

func writeLifecycleError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
}
