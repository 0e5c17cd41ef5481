// Package address keeps a user's shipping addresses. The collection is
// local-only in this deployment: no remote table backs it.
package address

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/nerdymedev/lekzzy-tech-store/models"
	"github.com/nerdymedev/lekzzy-tech-store/store"
)

type KV interface {
	GetKV(key string) ([]byte, bool, error)
	PutKV(key string, value []byte) error
	DeleteKV(key string) error
}

type Book struct {
	mu          sync.Mutex
	kv          KV
	userID      string
	listKey     string
	selectedKey string
	addresses   []models.Address
	selected    *models.Address
}

// NewBook rehydrates the address list and the last-selected pointer.
func NewBook(kv KV, userID string) *Book {
	if userID == "" {
		userID = models.GuestUserID
	}
	b := &Book{
		kv:          kv,
		userID:      userID,
		listKey:     store.KVKey("userAddresses", userID),
		selectedKey: store.KVKey("selectedAddress", userID),
	}
	if data, ok, err := kv.GetKV(b.listKey); err != nil {
		log.Printf("address: rehydrate failed for %s: %v", b.listKey, err)
	} else if ok {
		if err := json.Unmarshal(data, &b.addresses); err != nil {
			log.Printf("address: discarding undecodable saved addresses %s: %v", b.listKey, err)
			b.addresses = nil
		}
	}
	if data, ok, err := kv.GetKV(b.selectedKey); err != nil {
		log.Printf("address: rehydrate failed for %s: %v", b.selectedKey, err)
	} else if ok {
		var selected models.Address
		if err := json.Unmarshal(data, &selected); err == nil {
			b.selected = &selected
		}
	}
	return b
}

// List returns a copy of all known addresses for the session.
func (b *Book) List() []models.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Address, len(b.addresses))
	copy(out, b.addresses)
	return out
}

// Save validates the fields, assigns a time-based id, appends, persists and
// returns the created address. Addresses are immutable after creation.
func (b *Book) Save(fields models.Address) (*models.Address, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	created := fields.Clone()
	created.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	created.UserID = b.userID

	b.addresses = append(b.addresses, created)
	data, err := json.Marshal(b.addresses)
	if err != nil {
		b.addresses = b.addresses[:len(b.addresses)-1]
		return nil, fmt.Errorf("encode addresses: %w", err)
	}
	if err := b.kv.PutKV(b.listKey, data); err != nil {
		b.addresses = b.addresses[:len(b.addresses)-1]
		return nil, fmt.Errorf("persist addresses: %w", err)
	}
	result := created.Clone()
	return &result, nil
}

// Select marks an address as the checkout choice and persists the pointer.
func (b *Book) Select(a models.Address) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	selected := a.Clone()
	data, err := json.Marshal(&selected)
	if err != nil {
		return fmt.Errorf("encode selected address: %w", err)
	}
	if err := b.kv.PutKV(b.selectedKey, data); err != nil {
		return fmt.Errorf("persist selected address: %w", err)
	}
	b.selected = &selected
	return nil
}

// Selected returns a copy of the currently chosen address, or nil.
func (b *Book) Selected() *models.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected == nil {
		return nil
	}
	copied := b.selected.Clone()
	return &copied
}
