package addressControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/middleware"
	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/session"
)

// GET /user/addresses
func GetAddresses(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Get(middleware.CurrentUser(c).ID)
		c.JSON(http.StatusOK, gin.H{
			"addresses": s.Addresses.List(),
			"selected":  s.Addresses.Selected(),
		})
	}
}

// POST /user/addresses
func SaveAddress(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var fields models.Address
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		created, err := s.Addresses.Save(fields)
		if err != nil {
			var verr *models.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

// PUT /user/addresses/select — marks an existing address as the checkout
// choice.
func SelectAddress(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID string `json:"id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		for _, a := range s.Addresses.List() {
			if a.ID == input.ID {
				if err := s.Addresses.Select(a); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select address"})
					return
				}
				c.JSON(http.StatusOK, gin.H{"selected": a})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
	}
}
