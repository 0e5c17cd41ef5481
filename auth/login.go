package auth

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/session"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

// LoginHandler verifies an identity-provider token, upserts the profile,
// merges any guest cart into the user's cart and issues a session JWT.
func LoginHandler(verifier TokenVerifier, users *store.Users, sessions *session.Manager, policy SellerPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sign-in is not configured"})
			return
		}

		var req struct {
			IDToken string `json:"idToken"`
			GuestID string `json:"guest_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
			return
		}

		user := &models.User{
			ID:      identity.UserID,
			Email:   identity.Email,
			Name:    identity.Name,
			Picture: identity.Picture,
			Role:    identity.Role,
		}
		if user.Role == "" && policy.IsSeller(user) {
			user.Role = "seller"
		}

		// Profile persistence is best effort: a down remote store must not
		// block sign-in.
		if err := users.Upsert(c.Request.Context(), user); err != nil {
			log.Printf("auth: profile upsert failed for %s: %v", user.ID, err)
		}

		mergeStatus := "no-guest-cart"
		if req.GuestID != "" {
			sessions.MergeGuest(req.GuestID, user.ID)
			mergeStatus = "merged"
		}

		token, err := IssueToken(user, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        token,
		})
	}
}

// GuestHandler creates an anonymous session so carts and addresses work
// before sign-in.
func GuestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + randomHex(16)
		user := &models.User{ID: guestID, Role: "guest"}

		token, err := IssueToken(user, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id": guestID,
			"token":    token,
		})
	}
}

// IssueToken mints the session JWT carried by subsequent requests.
func IssueToken(user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"name":    user.Name,
		"picture": user.Picture,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}
