// Package checkout drives a single checkout attempt from validation through
// payment authorization to a committed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nerdymedev/lekzzy-tech-store/address"
	"github.com/nerdymedev/lekzzy-tech-store/cart"
	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

type State int

const (
	Idle State = iota
	Validating
	Processing
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Validating:
		return "Validating"
	case Processing:
		return "Processing"
	case Committed:
		return "Committed"
	case Failed:
		return "Failed"
	}
	return "Unknown"
}

var (
	// ErrUnauthenticated aborts the attempt before anything is validated
	// further; the caller redirects to sign-in.
	ErrUnauthenticated = errors.New("sign in to place an order")

	// ErrInProgress rejects a second submit while one is processing.
	ErrInProgress = errors.New("checkout already in progress")

	// ErrEmptyCart rejects an order of zero resolvable items.
	ErrEmptyCart = errors.New("cart is empty")
)

type CardDetails struct {
	Number     string `json:"cardNumber"`
	Expiry     string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	HolderName string `json:"cardholderName"`
}

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	expiryMMYY = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvv3or4    = regexp.MustCompile(`^\d{3,4}$`)
)

// OrderCommitter is the slice of the persistence adapter the orchestrator
// drives.
type OrderCommitter interface {
	Commit(ctx context.Context, order *models.Order) (*models.Order, error)
}

// Orchestrator owns one session's checkout state. Cart, address book and
// session identity are passed in explicitly; there is no ambient state.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	cart      *cart.Engine
	addresses *address.Book
	lookup    cart.Lookup
	orders    OrderCommitter
	payments  PaymentAuthorizer
	kv        cart.KV

	methodKey string
	promoKey  string
	notesKey  string

	paymentMethod models.PaymentMethod
	promoCode     string
	discount      float64
	notes         string
}

func NewOrchestrator(kv cart.KV, userID string, c *cart.Engine, book *address.Book, lookup cart.Lookup, orders OrderCommitter, payments PaymentAuthorizer) *Orchestrator {
	o := &Orchestrator{
		state:         Idle,
		cart:          c,
		addresses:     book,
		lookup:        lookup,
		orders:        orders,
		payments:      payments,
		kv:            kv,
		methodKey:     store.KVKey("checkoutPaymentMethod", userID),
		promoKey:      store.KVKey("checkoutPromoCode", userID),
		notesKey:      store.KVKey("checkoutOrderNotes", userID),
		paymentMethod: models.PaymentMethodCard,
	}
	o.loadDraft()
	return o
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SetPaymentMethod records the draft payment method.
func (o *Orchestrator) SetPaymentMethod(method models.PaymentMethod) error {
	if !models.ValidPaymentMethod(method) {
		return &models.ValidationError{Field: "paymentMethod", Reason: "must be card or cod"}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paymentMethod = method
	o.saveDraftKey(o.methodKey, string(method))
	return nil
}

func (o *Orchestrator) PaymentMethod() models.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paymentMethod
}

// SetNotes records free-form order notes in the draft.
func (o *Orchestrator) SetNotes(notes string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notes = notes
	o.saveDraftKey(o.notesKey, notes)
}

// ApplyPromo evaluates a promo code. An unknown code resets the discount to
// zero and reports failure; a known code sets the fraction and reports the
// percentage applied. The discount is re-applied at commit time against the
// then-current cart, never cached from a preview.
func (o *Orchestrator) ApplyPromo(code string) (percent int, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fraction, ok := LookupPromo(code)
	if !ok {
		o.discount = 0
		o.promoCode = ""
		o.saveDraftKey(o.promoKey, "")
		return 0, false
	}
	o.discount = fraction
	o.promoCode = strings.ToUpper(strings.TrimSpace(code))
	o.saveDraftKey(o.promoKey, o.promoCode)
	return int(fraction * 100), true
}

// Total is the promo-discounted total for the current cart: the subtotal
// minus the floored discount amount.
func (o *Orchestrator) Total() float64 {
	subtotal := o.cart.Amount()
	o.mu.Lock()
	discount := o.discount
	o.mu.Unlock()
	return subtotal - math.Floor(subtotal*discount)
}

func validateCard(card *CardDetails) error {
	if card == nil {
		return &models.ValidationError{Field: "cardNumber", Reason: "card details are required"}
	}
	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) < 16 || !digitsOnly.MatchString(number) {
		return &models.ValidationError{Field: "cardNumber", Reason: "enter a valid card number"}
	}
	if !expiryMMYY.MatchString(card.Expiry) {
		return &models.ValidationError{Field: "expiryDate", Reason: "enter a valid expiry date"}
	}
	if !cvv3or4.MatchString(card.CVV) {
		return &models.ValidationError{Field: "cvv", Reason: "enter a valid CVV"}
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return &models.ValidationError{Field: "cardholderName", Reason: "enter the cardholder name"}
	}
	return nil
}

// Submit runs one place-order attempt: Idle → Validating → Processing →
// Committed, or back to Idle on validation failure, or Failed when both
// stores reject the write. Only on Committed are the cart and the draft
// cleared; a Failed attempt is fully retryable.
func (o *Orchestrator) Submit(ctx context.Context, user *models.User, card *CardDetails) (*models.Order, error) {
	o.mu.Lock()
	if o.state == Processing {
		o.mu.Unlock()
		return nil, ErrInProgress
	}
	o.state = Validating
	method := o.paymentMethod
	promoCode := o.promoCode
	discount := o.discount
	notes := o.notes
	o.mu.Unlock()

	selected := o.addresses.Selected()
	if selected == nil {
		o.setState(Idle)
		return nil, &models.ValidationError{Field: "address", Reason: "select a delivery address"}
	}
	if user == nil {
		o.setState(Failed)
		return nil, ErrUnauthenticated
	}
	if method == models.PaymentMethodCard {
		if err := validateCard(card); err != nil {
			o.setState(Idle)
			return nil, err
		}
	}

	o.setState(Processing)

	items := o.resolveItems()
	if len(items) == 0 {
		o.setState(Idle)
		return nil, ErrEmptyCart
	}

	subtotal := o.cart.Amount()
	amount := subtotal - math.Floor(subtotal*discount)

	if err := o.payments.Authorize(ctx, method, amount); err != nil {
		o.setState(Failed)
		return nil, fmt.Errorf("payment authorization: %w", err)
	}

	paymentStatus := models.PaymentStatusPending
	if method == models.PaymentMethodCard {
		paymentStatus = models.PaymentStatusPaid
	}

	order := &models.Order{
		UserID:          user.ID,
		UserEmail:       user.Email,
		Items:           items,
		Amount:          amount,
		Address:         selected.Clone(),
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		DiscountPercent: discount * 100,
		PromoCode:       promoCode,
		Notes:           notes,
		Status:          models.OrderStatusPlaced,
		CreatedAt:       time.Now(),
	}

	committed, err := o.orders.Commit(ctx, order)
	if err != nil {
		o.setState(Failed)
		return nil, err
	}

	o.cart.Clear()
	o.clearDraft()
	o.setState(Committed)
	return committed, nil
}

// resolveItems turns cart lines into order items against the live catalog.
// Lines whose product no longer exists are dropped, not treated as an error.
func (o *Orchestrator) resolveItems() []models.OrderItem {
	lines := o.cart.Items()
	ids := make([]string, 0, len(lines))
	for id, qty := range lines {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := o.lookup(id)
		if !ok {
			log.Printf("checkout: dropping cart line for missing product %s", id)
			continue
		}
		items = append(items, models.OrderItem{
			ProductID: id,
			Name:      product.Name,
			Price:     product.EffectivePrice(),
			Quantity:  lines[id],
			Image:     product.PrimaryImage(),
		})
	}
	return items
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) loadDraft() {
	if data, ok, err := o.kv.GetKV(o.methodKey); err == nil && ok {
		if method := models.PaymentMethod(data); models.ValidPaymentMethod(method) {
			o.paymentMethod = method
		}
	}
	if data, ok, err := o.kv.GetKV(o.promoKey); err == nil && ok {
		if fraction, found := LookupPromo(string(data)); found {
			o.promoCode = strings.ToUpper(string(data))
			o.discount = fraction
		}
	}
	if data, ok, err := o.kv.GetKV(o.notesKey); err == nil && ok {
		o.notes = string(data)
	}
}

func (o *Orchestrator) saveDraftKey(key, value string) {
	var err error
	if value == "" {
		err = o.kv.DeleteKV(key)
	} else {
		err = o.kv.PutKV(key, []byte(value))
	}
	if err != nil {
		log.Printf("checkout: draft persist failed for %s: %v", key, err)
	}
}

// clearDraft resets the payment-method/promo/notes caches after a commit.
func (o *Orchestrator) clearDraft() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paymentMethod = models.PaymentMethodCard
	o.promoCode = ""
	o.discount = 0
	o.notes = ""
	for _, key := range []string{o.methodKey, o.promoKey, o.notesKey} {
		if err := o.kv.DeleteKV(key); err != nil {
			log.Printf("checkout: draft clear failed for %s: %v", key, err)
		}
	}
}
