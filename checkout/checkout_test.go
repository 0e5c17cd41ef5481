package checkout

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdymedev/lekzzy-tech-store/address"
	"github.com/nerdymedev/lekzzy-tech-store/cart"
	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string][]byte)}
}

func (f *fakeKV) GetKV(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) PutKV(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = append([]byte(nil), value...)
	return nil
}

func (f *fakeKV) DeleteKV(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

type fakeCommitter struct {
	err       error
	committed []*models.Order
}

func (f *fakeCommitter) Commit(_ context.Context, order *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := order.Clone()
	stored.ID = fmt.Sprintf("order-%d", len(f.committed)+1)
	stored.Source = models.SourceRemote
	f.committed = append(f.committed, stored)
	return stored, nil
}

var testProducts = map[string]models.Product{
	"p1": {ID: "p1", Name: "Mechanical Keyboard", Price: 30, OfferPrice: 25, Images: []string{"/img/kb.png"}},
	"p2": {ID: "p2", Name: "USB Hub", Price: 50},
}

func testLookup(id string) (*models.Product, bool) {
	p, ok := testProducts[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

type checkoutEnv struct {
	kv        *fakeKV
	cart      *cart.Engine
	book      *address.Book
	committer *fakeCommitter
	orch      *Orchestrator
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()
	kv := newFakeKV()
	c := cart.NewEngine(kv, "u1", testLookup, nil)
	book := address.NewBook(kv, "u1")
	committer := &fakeCommitter{}
	orch := NewOrchestrator(kv, "u1", c, book, testLookup, committer, SimulatedAuthorizer{})
	return &checkoutEnv{kv: kv, cart: c, book: book, committer: committer, orch: orch}
}

func (e *checkoutEnv) selectAddress(t *testing.T) {
	t.Helper()
	saved, err := e.book.Save(models.Address{
		FullName:    "Ada Lovelace",
		PhoneNumber: "08012345678",
		Pincode:     "100001",
		Area:        "12 Marina Road",
		City:        "Lagos",
		State:       "Lagos",
	})
	require.NoError(t, err)
	require.NoError(t, e.book.Select(*saved))
}

var testUser = &models.User{ID: "u1", Email: "ada@example.com", Name: "Ada Lovelace"}

func validCard() *CardDetails {
	return &CardDetails{
		Number:     "4111 1111 1111 1111",
		Expiry:     "12/27",
		CVV:        "123",
		HolderName: "Ada Lovelace",
	}
}

func TestSubmitCardPaymentCommitsPaidOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 2)

	order, err := env.orch.Submit(context.Background(), testUser, validCard())
	require.NoError(t, err)

	assert.Equal(t, Committed, env.orch.State())
	assert.Equal(t, 50.0, order.Amount)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, "u1", order.UserID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mechanical Keyboard", order.Items[0].Name)
	assert.Equal(t, 25.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "Ada Lovelace", order.Address.FullName)
	assert.NotEmpty(t, order.ID)

	assert.Equal(t, 0, env.cart.Count())
}

func TestSubmitCashOnDeliveryIsPendingAndSkipsCardValidation(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p2", 1)
	require.NoError(t, env.orch.SetPaymentMethod(models.PaymentMethodCOD))

	order, err := env.orch.Submit(context.Background(), testUser, nil)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)
	assert.Equal(t, 50.0, order.Amount)
}

func TestSubmitWithoutAddressLeavesCartIntact(t *testing.T) {
	env := newCheckoutEnv(t)
	env.cart.SetQuantity("p1", 2)

	_, err := env.orch.Submit(context.Background(), testUser, validCard())

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "address", verr.Field)
	assert.Equal(t, Idle, env.orch.State())
	assert.Equal(t, 2, env.cart.Count())
	assert.Empty(t, env.committer.committed)
}

func TestSubmitUnauthenticatedFails(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 1)

	_, err := env.orch.Submit(context.Background(), nil, validCard())

	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, Failed, env.orch.State())
	assert.Equal(t, 1, env.cart.Count())
	assert.Empty(t, env.committer.committed)
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)

	_, err := env.orch.Submit(context.Background(), testUser, validCard())

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, Idle, env.orch.State())
}

func TestSubmitRejectsBadCards(t *testing.T) {
	cases := []struct {
		name  string
		card  *CardDetails
		field string
	}{
		{"missing details", nil, "cardNumber"},
		{"short number", &CardDetails{Number: "4111 1111", Expiry: "12/27", CVV: "123", HolderName: "Ada"}, "cardNumber"},
		{"non digit number", &CardDetails{Number: "4111abcd11112222", Expiry: "12/27", CVV: "123", HolderName: "Ada"}, "cardNumber"},
		{"bad expiry", &CardDetails{Number: "4111111111111111", Expiry: "2027-12", CVV: "123", HolderName: "Ada"}, "expiryDate"},
		{"bad cvv", &CardDetails{Number: "4111111111111111", Expiry: "12/27", CVV: "12", HolderName: "Ada"}, "cvv"},
		{"blank holder", &CardDetails{Number: "4111111111111111", Expiry: "12/27", CVV: "123", HolderName: "   "}, "cardholderName"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newCheckoutEnv(t)
			env.selectAddress(t)
			env.cart.SetQuantity("p1", 1)

			_, err := env.orch.Submit(context.Background(), testUser, tc.card)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, Idle, env.orch.State())
			assert.Equal(t, 1, env.cart.Count())
		})
	}
}

func TestSubmitSpacedCardNumberAccepted(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 1)

	_, err := env.orch.Submit(context.Background(), testUser, &CardDetails{
		Number:     "4111 1111 1111 1111",
		Expiry:     "01/28",
		CVV:        "9876",
		HolderName: "Ada Lovelace",
	})
	require.NoError(t, err)
}

func TestApplyPromoDiscountsFlooredAmount(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 4) // subtotal 100.00

	percent, ok := env.orch.ApplyPromo("save10")
	require.True(t, ok)
	assert.Equal(t, 10, percent)
	assert.Equal(t, 90.0, env.orch.Total())

	order, err := env.orch.Submit(context.Background(), testUser, validCard())
	require.NoError(t, err)
	assert.Equal(t, 90.0, order.Amount)
	assert.Equal(t, 10.0, order.DiscountPercent)
	assert.Equal(t, "SAVE10", order.PromoCode)
}

func TestApplyPromoUnknownCodeResetsDiscount(t *testing.T) {
	env := newCheckoutEnv(t)
	env.cart.SetQuantity("p1", 4)

	_, ok := env.orch.ApplyPromo("SAVE10")
	require.True(t, ok)

	percent, ok := env.orch.ApplyPromo("BOGUS99")
	assert.False(t, ok)
	assert.Equal(t, 0, percent)
	assert.Equal(t, 100.0, env.orch.Total())
}

func TestSubmitExhaustedPersistenceIsRetryable(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 2)
	env.committer.err = fmt.Errorf("%w: remote down; local full", store.ErrPersistenceExhausted)

	_, err := env.orch.Submit(context.Background(), testUser, validCard())

	require.ErrorIs(t, err, store.ErrPersistenceExhausted)
	assert.Equal(t, Failed, env.orch.State())
	assert.Equal(t, 2, env.cart.Count(), "failed commit must not consume the cart")

	// Same session retries once the stores recover.
	env.committer.err = nil
	order, err := env.orch.Submit(context.Background(), testUser, validCard())
	require.NoError(t, err)
	assert.Equal(t, 50.0, order.Amount)
	assert.Equal(t, Committed, env.orch.State())
	assert.Equal(t, 0, env.cart.Count())
}

func TestSubmitAfterCommitRejectsEmptyCart(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 2)

	_, err := env.orch.Submit(context.Background(), testUser, validCard())
	require.NoError(t, err)

	// The cart was consumed by the commit, so a double submit cannot
	// duplicate the order.
	_, err = env.orch.Submit(context.Background(), testUser, validCard())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Len(t, env.committer.committed, 1)
}

func TestSubmitClearsDraftOnCommit(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 4)
	require.NoError(t, env.orch.SetPaymentMethod(models.PaymentMethodCOD))
	env.orch.SetNotes("leave at the gate")
	_, ok := env.orch.ApplyPromo("WELCOME20")
	require.True(t, ok)

	order, err := env.orch.Submit(context.Background(), testUser, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, order.Amount)
	assert.Equal(t, "leave at the gate", order.Notes)

	assert.Equal(t, models.PaymentMethodCard, env.orch.PaymentMethod())
	env.cart.SetQuantity("p1", 4)
	assert.Equal(t, 100.0, env.orch.Total(), "promo must not leak into the next attempt")
}

func TestDraftSurvivesRestart(t *testing.T) {
	env := newCheckoutEnv(t)
	require.NoError(t, env.orch.SetPaymentMethod(models.PaymentMethodCOD))
	env.orch.SetNotes("call on arrival")
	_, ok := env.orch.ApplyPromo("STUDENT15")
	require.True(t, ok)

	rehydrated := NewOrchestrator(env.kv, "u1", env.cart, env.book, testLookup, env.committer, SimulatedAuthorizer{})
	assert.Equal(t, models.PaymentMethodCOD, rehydrated.PaymentMethod())

	env.cart.SetQuantity("p1", 4)
	assert.Equal(t, 85.0, rehydrated.Total())
}

func TestResolveItemsDropsMissingProducts(t *testing.T) {
	env := newCheckoutEnv(t)
	env.selectAddress(t)
	env.cart.SetQuantity("p1", 1)
	env.cart.SetQuantity("discontinued", 3)

	order, err := env.orch.Submit(context.Background(), testUser, validCard())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
}

func TestLookupPromoNormalizesCode(t *testing.T) {
	fraction, ok := LookupPromo("  welcome20 ")
	require.True(t, ok)
	assert.Equal(t, 0.20, fraction)

	_, ok = LookupPromo("")
	assert.False(t, ok)
}
