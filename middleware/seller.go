package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/auth"
)

// RequireSeller gates back-office routes behind the injected authorization
// policy. Runs after ValidateToken.
func RequireSeller(policy auth.SellerPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !policy.IsSeller(user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Seller access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
