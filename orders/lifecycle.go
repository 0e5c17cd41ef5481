// Package orders exposes post-commit order operations: back-office status
// transitions and listings.
package orders

import (
	"context"
	"fmt"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// Store is the slice of the persistence adapter the lifecycle drives.
type Store interface {
	FetchAll(ctx context.Context) ([]models.Order, error)
	FetchByUser(ctx context.Context, userID string) ([]models.Order, error)
	FetchOne(ctx context.Context, id string) (*models.Order, error)
	SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
}

type Service struct {
	store Store
	hub   *Hub
}

func NewService(store Store, hub *Hub) *Service {
	return &Service{store: store, hub: hub}
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.store.FetchAll(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.FetchByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.store.FetchOne(ctx, id)
}

// MarkDelivered transitions the order to Delivered. One-way: there is no
// revert. Marking an already delivered order is a successful no-op.
func (s *Service) MarkDelivered(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.FetchOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	if order.Status == models.OrderStatusDelivered {
		return order, nil
	}
	updated, err := s.store.SetStatus(ctx, id, models.OrderStatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	s.broadcast("order.delivered", updated)
	return updated, nil
}

// MarkPaid transitions the payment status to Paid. Meaningful for
// cash-on-delivery orders; card orders are Paid at commit time already, and
// marking them again is a no-op.
func (s *Service) MarkPaid(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.FetchOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, nil
	}
	updated, err := s.store.SetPaymentStatus(ctx, id, models.PaymentStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	s.broadcast("order.paid", updated)
	return updated, nil
}

// NotifyPlaced pushes a freshly committed order to back-office listeners.
func (s *Service) NotifyPlaced(order *models.Order) {
	s.broadcast("order.placed", order)
}

func (s *Service) broadcast(event string, order *models.Order) {
	if s.hub != nil && order != nil {
		s.hub.Broadcast(event, order)
	}
}
