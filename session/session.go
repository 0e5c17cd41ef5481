// Package session ties one user's cart, address book and checkout together
// into an explicit state object. Nothing here is a singleton: every consumer
// receives the session by handle.
package session

import (
	"log"
	"sync"

	"github.com/nerdymedev/lekzzy-tech-store/address"
	"github.com/nerdymedev/lekzzy-tech-store/cart"
	"github.com/nerdymedev/lekzzy-tech-store/checkout"
	"github.com/nerdymedev/lekzzy-tech-store/models"
)

type Session struct {
	UserID    string
	Cart      *cart.Engine
	Addresses *address.Book
	Checkout  *checkout.Orchestrator
}

type Manager struct {
	mu       sync.Mutex
	kv       cart.KV
	lookup   cart.Lookup
	orders   checkout.OrderCommitter
	payments checkout.PaymentAuthorizer
	sessions map[string]*Session
}

func NewManager(kv cart.KV, lookup cart.Lookup, orders checkout.OrderCommitter, payments checkout.PaymentAuthorizer) *Manager {
	return &Manager{
		kv:       kv,
		lookup:   lookup,
		orders:   orders,
		payments: payments,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for userID, building and rehydrating it on first
// use. The empty id maps to the shared guest session.
func (m *Manager) Get(userID string) *Session {
	if userID == "" {
		userID = models.GuestUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}

	notify := func(message string) {
		log.Printf("session %s: %s", userID, message)
	}
	engine := cart.NewEngine(m.kv, userID, m.lookup, notify)
	book := address.NewBook(m.kv, userID)
	s := &Session{
		UserID:    userID,
		Cart:      engine,
		Addresses: book,
		Checkout:  checkout.NewOrchestrator(m.kv, userID, engine, book, m.lookup, m.orders, m.payments),
	}
	m.sessions[userID] = s
	return s
}

// MergeGuest folds the guest session's cart into the signed-in user's cart.
// Called once at login.
func (m *Manager) MergeGuest(guestID, userID string) {
	if guestID == "" || userID == "" || guestID == userID {
		return
	}
	m.mu.Lock()
	guest, ok := m.sessions[guestID]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.Get(userID).Cart.MergeFrom(guest.Cart)
}
