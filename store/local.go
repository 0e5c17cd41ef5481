package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

var (
	bucketKV       = []byte("kv")
	bucketOrders   = []byte("userOrders")
	bucketProducts = []byte("productCache")
)

// Local is the durable key-value store backing carts, addresses, checkout
// drafts and the order fallback log. It plays the role the browser's
// localStorage plays for the storefront: read at startup, written on every
// relevant mutation.
type Local struct {
	db *bolt.DB
}

func OpenLocal(path string) (*Local, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketKV, bucketOrders, bucketProducts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init local store: %w", err)
	}
	return &Local{db: db}, nil
}

func (l *Local) Close() error {
	return l.db.Close()
}

// ---- scoped key-value access ----

func (l *Local) GetKV(key string) ([]byte, bool, error) {
	var value []byte
	err := l.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketKV).Get([]byte(key)); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

func (l *Local) PutKV(key string, value []byte) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), value)
	})
}

func (l *Local) DeleteKV(key string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
}

// ---- order fallback log ----

// localOrderID mirrors the remote reference format so ids stay unique across
// both stores: timestamp plus a random tail.
func localOrderID() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// AppendOrder durably records an order in the fallback log, assigning an id
// when the order has none, and returns the stored copy.
func (l *Local) AppendOrder(order *models.Order) (*models.Order, error) {
	stored := order.Clone()
	if stored.ID == "" {
		stored.ID = localOrderID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.Source = models.SourceLocal

	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	err = l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).Put([]byte(stored.ID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("append order: %w", err)
	}
	return stored, nil
}

// ListOrders returns every locally held order, newest first.
func (l *Local) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, v []byte) error {
			var o models.Order
			if err := json.Unmarshal(v, &o); err != nil {
				return fmt.Errorf("%w: local order: %v", ErrMalformedRecord, err)
			}
			o.Source = models.SourceLocal
			orders = append(orders, o)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (l *Local) GetOrder(id string) (*models.Order, error) {
	var order *models.Order
	err := l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketOrders).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		var o models.Order
		if err := json.Unmarshal(v, &o); err != nil {
			return fmt.Errorf("%w: local order %s: %v", ErrMalformedRecord, id, err)
		}
		o.Source = models.SourceLocal
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrder applies mutate to the stored order inside one transaction and
// returns the updated copy.
func (l *Local) UpdateOrder(id string, mutate func(*models.Order)) (*models.Order, error) {
	var order *models.Order
	err := l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		var o models.Order
		if err := json.Unmarshal(v, &o); err != nil {
			return fmt.Errorf("%w: local order %s: %v", ErrMalformedRecord, id, err)
		}
		mutate(&o)
		o.Source = models.SourceLocal
		data, err := json.Marshal(&o)
		if err != nil {
			return fmt.Errorf("encode order: %w", err)
		}
		if err := b.Put([]byte(id), data); err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ---- product cache ----

// ReplaceProducts swaps the cached catalog for the given listing.
func (l *Local) ReplaceProducts(products []models.Product) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketProducts); err != nil {
			return err
		}
		b, err := tx.CreateBucket(bucketProducts)
		if err != nil {
			return err
		}
		for i := range products {
			data, err := json.Marshal(&products[i])
			if err != nil {
				return fmt.Errorf("encode product: %w", err)
			}
			if err := b.Put([]byte(products[i].ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListProducts returns the cached catalog, newest first.
func (l *Local) ListProducts() ([]models.Product, error) {
	var products []models.Product
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).ForEach(func(_, v []byte) error {
			var p models.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return fmt.Errorf("%w: cached product: %v", ErrMalformedRecord, err)
			}
			products = append(products, p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (l *Local) GetProduct(id string) (*models.Product, error) {
	var product *models.Product
	err := l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketProducts).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		var p models.Product
		if err := json.Unmarshal(v, &p); err != nil {
			return fmt.Errorf("%w: cached product %s: %v", ErrMalformedRecord, id, err)
		}
		product = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// KVKey builds a per-user scoped key, e.g. KVKey("cartItems", "u1").
func KVKey(name, userID string) string {
	if userID == "" {
		userID = models.GuestUserID
	}
	return strings.Join([]string{name, userID}, ":")
}
