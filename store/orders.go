package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// Orders is the persistence adapter for order records. Every operation tries
// the remote store first and falls back to the local log when the remote
// fails or is not configured. Results carry a Source flag so callers can tell
// which store held them.
type Orders struct {
	remote RemoteOrders // nil when the remote store is not configured
	local  *Local
}

func NewOrders(remote RemoteOrders, local *Local) *Orders {
	return &Orders{remote: remote, local: local}
}

// Commit durably creates the order in exactly one store. It either returns a
// persisted record with an id, or ErrPersistenceExhausted when neither store
// accepted the write. A locally persisted order is a success, distinguishable
// by Source.
func (s *Orders) Commit(ctx context.Context, order *models.Order) (*models.Order, error) {
	var remoteFailure error
	if s.remote != nil {
		stored, err := s.remote.Insert(ctx, order)
		if err == nil {
			return stored, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			return nil, err
		}
		remoteFailure = err
		log.Printf("orders: remote commit failed, falling back to local store: %v", err)
	}

	stored, err := s.local.AppendOrder(order)
	if err != nil {
		if remoteFailure != nil {
			return nil, fmt.Errorf("%w: remote: %v; local: %v", ErrPersistenceExhausted, remoteFailure, err)
		}
		return nil, fmt.Errorf("%w: remote not configured; local: %v", ErrPersistenceExhausted, err)
	}
	return stored, nil
}

// FetchAll merges remote and local orders, deduplicating by id with remote
// taking precedence, newest first.
func (s *Orders) FetchAll(ctx context.Context) ([]models.Order, error) {
	var remote []models.Order
	if s.remote != nil {
		var err error
		remote, err = s.remote.SelectAll(ctx)
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) {
				return nil, err
			}
			log.Printf("orders: remote fetch failed, serving local orders: %v", err)
			remote = nil
		}
	}
	local, err := s.local.ListOrders()
	if err != nil {
		if len(remote) == 0 {
			return nil, err
		}
		log.Printf("orders: local fetch failed: %v", err)
		local = nil
	}
	return mergeOrders(remote, local), nil
}

// FetchByUser is FetchAll narrowed to one user.
func (s *Orders) FetchByUser(ctx context.Context, userID string) ([]models.Order, error) {
	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	for _, o := range all {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// FetchOne returns the order from whichever store holds it, or ErrNotFound.
func (s *Orders) FetchOne(ctx context.Context, id string) (*models.Order, error) {
	if s.remote != nil {
		order, err := s.remote.SelectByID(ctx, id)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			return nil, err
		}
		// NotFound and unavailability both mean "try local": a fallback
		// commit never reached the remote table in the first place.
	}
	return s.local.GetOrder(id)
}

// SetStatus updates the delivery status wherever the order lives and returns
// the stored record.
func (s *Orders) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if s.remote != nil {
		order, err := s.remote.UpdateStatus(ctx, id, status)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			return nil, err
		}
		if !errors.Is(err, ErrNotFound) {
			log.Printf("orders: remote status update failed, trying local store: %v", err)
		}
	}
	return s.local.UpdateOrder(id, func(o *models.Order) {
		o.Status = status
	})
}

// SetPaymentStatus updates the payment status wherever the order lives.
func (s *Orders) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	if s.remote != nil {
		order, err := s.remote.UpdatePaymentStatus(ctx, id, status)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			return nil, err
		}
		if !errors.Is(err, ErrNotFound) {
			log.Printf("orders: remote payment update failed, trying local store: %v", err)
		}
	}
	return s.local.UpdateOrder(id, func(o *models.Order) {
		o.PaymentStatus = status
	})
}

func mergeOrders(remote, local []models.Order) []models.Order {
	seen := make(map[string]bool, len(remote))
	merged := make([]models.Order, 0, len(remote)+len(local))
	for _, o := range remote {
		seen[o.ID] = true
		merged = append(merged, o)
	}
	for _, o := range local {
		if !seen[o.ID] {
			merged = append(merged, o)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
