// Package cart holds the per-session shopping cart: a product-id to quantity
// mapping mirrored to durable local storage on every mutation, so a restart
// never loses pending cart state.
package cart

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

// KV is the slice of local storage the engine persists into.
type KV interface {
	GetKV(key string) ([]byte, bool, error)
	PutKV(key string, value []byte) error
	DeleteKV(key string) error
}

// Lookup resolves a product id against the live catalog.
type Lookup func(productID string) (*models.Product, bool)

// Notifier receives transient user-facing messages ("X added to cart").
type Notifier func(message string)

type Engine struct {
	mu     sync.Mutex
	kv     KV
	key    string
	lookup Lookup
	notify Notifier
	items  map[string]int
}

// NewEngine rehydrates the cart for userID from the KV store before any
// interaction happens.
func NewEngine(kv KV, userID string, lookup Lookup, notify Notifier) *Engine {
	e := &Engine{
		kv:     kv,
		key:    store.KVKey("cartItems", userID),
		lookup: lookup,
		notify: notify,
		items:  make(map[string]int),
	}
	if data, ok, err := kv.GetKV(e.key); err != nil {
		log.Printf("cart: rehydrate failed for %s: %v", e.key, err)
	} else if ok {
		if err := json.Unmarshal(data, &e.items); err != nil {
			log.Printf("cart: discarding undecodable saved cart %s: %v", e.key, err)
			e.items = make(map[string]int)
		}
	}
	return e
}

// AddItem increments the quantity by one, inserting the line at quantity one
// when absent, and emits a notification naming the product.
func (e *Engine) AddItem(productID string) {
	e.mu.Lock()
	e.items[productID]++
	e.persistLocked()
	e.mu.Unlock()

	if e.notify != nil {
		name := "Item"
		if p, ok := e.lookup(productID); ok {
			name = p.Name
		}
		e.notify(fmt.Sprintf("%s added to cart!", name))
	}
}

// SetQuantity sets the line to quantity; zero or negative removes it.
func (e *Engine) SetQuantity(productID string, quantity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if quantity <= 0 {
		delete(e.items, productID)
	} else {
		e.items[productID] = quantity
	}
	e.persistLocked()
}

// Count sums all quantities, defensively skipping non-positive strays.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0
	for _, qty := range e.items {
		if qty > 0 {
			total += qty
		}
	}
	return total
}

// Amount sums effective price times quantity over resolvable lines, truncated
// to two decimals. Truncation, not rounding: amounts never round up.
func (e *Engine) Amount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0.0
	for id, qty := range e.items {
		if qty <= 0 {
			continue
		}
		product, ok := e.lookup(id)
		if !ok {
			continue
		}
		total += product.EffectivePrice() * float64(qty)
	}
	return math.Floor(total*100) / 100
}

// Clear empties the cart and erases its persisted copy. Idempotent.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = make(map[string]int)
	if err := e.kv.DeleteKV(e.key); err != nil {
		log.Printf("cart: clear persist failed for %s: %v", e.key, err)
	}
}

// Items returns a snapshot copy of the mapping.
func (e *Engine) Items() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := make(map[string]int, len(e.items))
	for id, qty := range e.items {
		snapshot[id] = qty
	}
	return snapshot
}

// MergeFrom folds a guest session's cart into this one, adding quantities,
// then empties the guest cart. Used when a guest signs in.
func (e *Engine) MergeFrom(guest *Engine) {
	if guest == nil || guest == e {
		return
	}
	items := guest.Items()
	e.mu.Lock()
	for id, qty := range items {
		if qty > 0 {
			e.items[id] += qty
		}
	}
	e.persistLocked()
	e.mu.Unlock()
	guest.Clear()
}

func (e *Engine) persistLocked() {
	data, err := json.Marshal(e.items)
	if err != nil {
		log.Printf("cart: encode failed for %s: %v", e.key, err)
		return
	}
	if err := e.kv.PutKV(e.key, data); err != nil {
		log.Printf("cart: persist failed for %s: %v", e.key, err)
	}
}
