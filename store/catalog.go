package store

import (
	"context"
	"errors"
	"log"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// Catalog reads products remote-first and keeps a durable local cache so
// browsing keeps working while the remote store is down. Writes are
// seller-side operations and require the remote store.
type Catalog struct {
	remote RemoteProducts // nil when the remote store is not configured
	local  *Local
}

func NewCatalog(remote RemoteProducts, local *Local) *Catalog {
	return &Catalog{remote: remote, local: local}
}

// List returns the catalog, refreshing the local cache on a successful remote
// read and serving the cache otherwise.
func (c *Catalog) List(ctx context.Context) ([]models.Product, error) {
	if c.remote != nil {
		products, err := c.remote.SelectAll(ctx)
		if err == nil {
			if cacheErr := c.local.ReplaceProducts(products); cacheErr != nil {
				log.Printf("catalog: cache refresh failed: %v", cacheErr)
			}
			return products, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			return nil, err
		}
		log.Printf("catalog: remote fetch failed, serving cache: %v", err)
	}
	return c.local.ListProducts()
}

// Get returns one product, falling back to the cache.
func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	if c.remote != nil {
		product, err := c.remote.SelectByID(ctx, id)
		if err == nil {
			return product, nil
		}
		if errors.Is(err, ErrMalformedRecord) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return c.local.GetProduct(id)
}

func (c *Catalog) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if c.remote == nil {
		return nil, ErrRemoteUnavailable
	}
	return c.remote.Insert(ctx, product)
}

func (c *Catalog) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if c.remote == nil {
		return nil, ErrRemoteUnavailable
	}
	return c.remote.Update(ctx, product)
}

func (c *Catalog) Delete(ctx context.Context, id string) error {
	if c.remote == nil {
		return ErrRemoteUnavailable
	}
	return c.remote.Delete(ctx, id)
}
