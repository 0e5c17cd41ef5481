package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/middleware"
	"github.com/nerdymedev/lekzzy-tech-store/session"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
}

type SetQuantityInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// GET /user/cart
func GetCart(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Get(middleware.CurrentUser(c).ID)
		c.JSON(http.StatusOK, gin.H{
			"items":  s.Cart.Items(),
			"count":  s.Cart.Count(),
			"amount": s.Cart.Amount(),
		})
	}
}

// POST /user/cart/add — increments the line by one.
func AddToCart(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		s.Cart.AddItem(input.ProductID)
		c.JSON(http.StatusOK, gin.H{"items": s.Cart.Items(), "count": s.Cart.Count()})
	}
}

// POST /user/cart — sets a line's quantity; zero removes it.
func UpdateCartItem(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SetQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		s.Cart.SetQuantity(input.ProductID, input.Quantity)
		c.JSON(http.StatusOK, gin.H{"items": s.Cart.Items(), "count": s.Cart.Count()})
	}
}

// DELETE /user/cart
func ClearCart(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Get(middleware.CurrentUser(c).ID)
		s.Cart.Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
