package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdymedev/lekzzy-tech-store/checkout"
	"github.com/nerdymedev/lekzzy-tech-store/models"
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

type noopCommitter struct{}

func (noopCommitter) Commit(_ context.Context, order *models.Order) (*models.Order, error) {
	return order.Clone(), nil
}

func emptyLookup(string) (*models.Product, bool) { return nil, false }

func newTestManager() *Manager {
	return NewManager(newFakeKV(), emptyLookup, noopCommitter{}, checkout.SimulatedAuthorizer{})
}

func TestGetReturnsSameSessionPerUser(t *testing.T) {
	m := newTestManager()

	first := m.Get("u1")
	second := m.Get("u1")
	other := m.Get("u2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	require.NotNil(t, first.Cart)
	require.NotNil(t, first.Addresses)
	require.NotNil(t, first.Checkout)
}

func TestGetEmptyIDIsGuestSession(t *testing.T) {
	m := newTestManager()
	assert.Equal(t, models.GuestUserID, m.Get("").UserID)
	assert.Same(t, m.Get(""), m.Get(models.GuestUserID))
}

func TestMergeGuestFoldsCartIntoUser(t *testing.T) {
	m := newTestManager()

	guest := m.Get("guest_abc")
	guest.Cart.SetQuantity("p1", 2)

	user := m.Get("u1")
	user.Cart.SetQuantity("p1", 1)

	m.MergeGuest("guest_abc", "u1")

	assert.Equal(t, map[string]int{"p1": 3}, user.Cart.Items())
	assert.Equal(t, 0, guest.Cart.Count())
}

func TestMergeGuestUnknownGuestIsNoOp(t *testing.T) {
	m := newTestManager()
	user := m.Get("u1")
	user.Cart.SetQuantity("p1", 1)

	m.MergeGuest("never-seen", "u1")
	m.MergeGuest("u1", "u1")

	assert.Equal(t, map[string]int{"p1": 1}, user.Cart.Items())
}
