package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// stubProducts is an in-memory stand-in for the hosted product table. A
// non-nil err makes every call fail like an outage.
type stubProducts struct {
	products []models.Product
	err      error
}

func (s *stubProducts) SelectAll(context.Context) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Product(nil), s.products...), nil
}

func (s *stubProducts) SelectByID(_ context.Context, id string) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubProducts) Insert(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.products = append(s.products, *product)
	return product, nil
}

func (s *stubProducts) Update(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = *product
			return product, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubProducts) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestCatalogListRefreshesCacheThenServesItDuringOutage(t *testing.T) {
	remote := &stubProducts{products: []models.Product{
		{ID: "p1", Name: "Mechanical Keyboard", Price: 30, OfferPrice: 25},
		{ID: "p2", Name: "USB Hub", Price: 50},
	}}
	catalog := NewCatalog(remote, openTestLocal(t))

	listed, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	remote.err = fmt.Errorf("%w: connection refused", ErrRemoteUnavailable)

	cached, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	p, err := catalog.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", p.Name)
}

func TestCatalogListLocalOnlyStartsEmpty(t *testing.T) {
	catalog := NewCatalog(nil, openTestLocal(t))

	listed, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestCatalogGetRemoteNotFoundDoesNotFallBack(t *testing.T) {
	remote := &stubProducts{}
	local := openTestLocal(t)
	require.NoError(t, local.ReplaceProducts([]models.Product{{ID: "p1", Name: "Stale", Price: 1}}))
	catalog := NewCatalog(remote, local)

	_, err := catalog.Get(context.Background(), "p1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogWritesRequireRemote(t *testing.T) {
	catalog := NewCatalog(nil, openTestLocal(t))

	_, err := catalog.Create(context.Background(), &models.Product{ID: "p1", Name: "X", Price: 1})
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	_, err = catalog.Update(context.Background(), &models.Product{ID: "p1", Name: "X", Price: 1})
	require.ErrorIs(t, err, ErrRemoteUnavailable)

	require.ErrorIs(t, catalog.Delete(context.Background(), "p1"), ErrRemoteUnavailable)
}
