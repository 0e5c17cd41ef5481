package checkoutControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nerdymedev/lekzzy-tech-store/checkout"
	"github.com/nerdymedev/lekzzy-tech-store/middleware"
	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/orders"
	"github.com/nerdymedev/lekzzy-tech-store/session"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

type PromoInput struct {
	Code string `json:"code" binding:"required"`
}

type DraftInput struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Notes         *string              `json:"notes"`
}

type PlaceOrderInput struct {
	PaymentMethod models.PaymentMethod  `json:"payment_method"`
	Card          *checkout.CardDetails `json:"card"`
}

// POST /user/checkout/promo
func ApplyPromo(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		percent, ok := s.Checkout.ApplyPromo(input.Code)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo code", "discount_percent": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":          fmt.Sprintf("Promo code applied! %d%% discount", percent),
			"discount_percent": percent,
			"total":            s.Checkout.Total(),
		})
	}
}

// PUT /user/checkout — updates the persisted checkout draft.
func UpdateDraft(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input DraftInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		s := sessions.Get(middleware.CurrentUser(c).ID)
		if input.PaymentMethod != "" {
			if err := s.Checkout.SetPaymentMethod(input.PaymentMethod); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		if input.Notes != nil {
			s.Checkout.SetNotes(*input.Notes)
		}
		c.JSON(http.StatusOK, gin.H{
			"payment_method": s.Checkout.PaymentMethod(),
			"total":          s.Checkout.Total(),
		})
	}
}

// POST /user/checkout — places the order.
func PlaceOrder(sessions *session.Manager, lifecycle *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PlaceOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user := middleware.CurrentUser(c)
		s := sessions.Get(user.ID)
		if input.PaymentMethod != "" {
			if err := s.Checkout.SetPaymentMethod(input.PaymentMethod); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		submitter := user
		if user.Role == "guest" {
			// Guests can build carts but not place orders.
			submitter = nil
		}

		order, err := s.Checkout.Submit(c.Request.Context(), submitter, input.Card)
		if err != nil {
			writeCheckoutError(c, err)
			return
		}

		lifecycle.NotifyPlaced(order)

		message := "Order placed successfully!"
		if order.Source == models.SourceLocal {
			message = "Order saved locally due to server issues. Please contact support."
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  message,
			"order_id": order.ID,
			"source":   order.Source,
			"order":    order,
		})
	}
}

func writeCheckoutError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, checkout.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": checkout.ErrUnauthenticated.Error()})
	case errors.Is(err, checkout.ErrInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": checkout.ErrInProgress.Error()})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": checkout.ErrEmptyCart.Error()})
	case errors.Is(err, store.ErrPersistenceExhausted):
		// The cart is preserved; the attempt is retryable.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order could not be saved. Your cart is unchanged, please retry."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
