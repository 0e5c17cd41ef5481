package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nerdymedev/lekzzy-tech-store/models"
)

// RemoteOrders is the hosted order table. The gorm implementation below is
// the production one; tests substitute stubs.
type RemoteOrders interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	SelectAll(ctx context.Context) ([]models.Order, error)
	SelectByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
}

// RemoteProducts is the hosted product table.
type RemoteProducts interface {
	SelectAll(ctx context.Context) ([]models.Product, error)
	SelectByID(ctx context.Context, id string) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// OrderRow mirrors the hosted schema: nested customer, item, shipping and
// payment fields are stored as serialized JSON text and decoded on read.
type OrderRow struct {
	ID                  string `gorm:"primaryKey"`
	CustomerInformation string
	OrderItems          string
	OrderStatus         string
	ShippingDetails     string
	PaymentInformation  string
	CreatedAt           time.Time
}

func (OrderRow) TableName() string { return "orders" }

// ProductRow keeps the image list as serialized text, like the hosted table.
type ProductRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	Category    string
	Price       float64 `gorm:"not null"`
	OfferPrice  float64
	ImageURLs   string
	Bestseller  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductRow) TableName() string { return "products" }

// UserRow holds signed-in user profiles.
type UserRow struct {
	ID        string `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Name      string
	Picture   string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserRow) TableName() string { return "users" }

type customerInfo struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
}

type shippingDetails struct {
	Address models.Address `json:"address"`
	Amount  float64        `json:"amount"`
}

type paymentInfo struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PromoCode     string               `json:"promoCode,omitempty"`
	Discount      float64              `json:"discount"`
	Notes         string               `json:"notes,omitempty"`
}

func encodeOrderRow(order *models.Order) (*OrderRow, error) {
	customer, err := json.Marshal(customerInfo{UserID: order.UserID, UserEmail: order.UserEmail})
	if err != nil {
		return nil, fmt.Errorf("encode customer information: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	shipping, err := json.Marshal(shippingDetails{Address: order.Address, Amount: order.Amount})
	if err != nil {
		return nil, fmt.Errorf("encode shipping details: %w", err)
	}
	payment, err := json.Marshal(paymentInfo{
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		PromoCode:     order.PromoCode,
		Discount:      order.DiscountPercent,
		Notes:         order.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment information: %w", err)
	}
	return &OrderRow{
		ID:                  order.ID,
		CustomerInformation: string(customer),
		OrderItems:          string(items),
		OrderStatus:         string(order.Status),
		ShippingDetails:     string(shipping),
		PaymentInformation:  string(payment),
		CreatedAt:           order.CreatedAt,
	}, nil
}

// decodeOrderRow fails loudly on undecodable fields instead of silently
// defaulting them away.
func decodeOrderRow(row *OrderRow) (*models.Order, error) {
	var customer customerInfo
	if err := json.Unmarshal([]byte(row.CustomerInformation), &customer); err != nil {
		return nil, fmt.Errorf("%w: order %s customer information: %v", ErrMalformedRecord, row.ID, err)
	}
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(row.OrderItems), &items); err != nil {
		return nil, fmt.Errorf("%w: order %s items: %v", ErrMalformedRecord, row.ID, err)
	}
	var shipping shippingDetails
	if err := json.Unmarshal([]byte(row.ShippingDetails), &shipping); err != nil {
		return nil, fmt.Errorf("%w: order %s shipping details: %v", ErrMalformedRecord, row.ID, err)
	}
	var payment paymentInfo
	if err := json.Unmarshal([]byte(row.PaymentInformation), &payment); err != nil {
		return nil, fmt.Errorf("%w: order %s payment information: %v", ErrMalformedRecord, row.ID, err)
	}

	order := &models.Order{
		ID:              row.ID,
		UserID:          customer.UserID,
		UserEmail:       customer.UserEmail,
		Items:           items,
		Amount:          shipping.Amount,
		Address:         shipping.Address,
		PaymentMethod:   payment.PaymentMethod,
		PaymentStatus:   payment.PaymentStatus,
		DiscountPercent: payment.Discount,
		PromoCode:       payment.PromoCode,
		Notes:           payment.Notes,
		Status:          models.OrderStatus(row.OrderStatus),
		CreatedAt:       row.CreatedAt,
		Source:          models.SourceRemote,
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPlaced
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	return order, nil
}

// remoteErr maps driver failures onto the adapter taxonomy.
func remoteErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, op, err)
}

// GormOrders is the gorm/postgres implementation of RemoteOrders.
type GormOrders struct {
	db *gorm.DB
}

func NewGormOrders(db *gorm.DB) *GormOrders {
	return &GormOrders{db: db}
}

func (g *GormOrders) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	stored := order.Clone()
	if stored.ID == "" {
		stored.ID = time.Now().Format("20060102150405") + "-" + uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	row, err := encodeOrderRow(stored)
	if err != nil {
		return nil, err
	}
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, remoteErr("insert order", err)
	}
	stored.Source = models.SourceRemote
	return stored, nil
}

func (g *GormOrders) SelectAll(ctx context.Context) ([]models.Order, error) {
	var rows []OrderRow
	if err := g.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, remoteErr("select orders", err)
	}
	orders := make([]models.Order, 0, len(rows))
	for i := range rows {
		order, err := decodeOrderRow(&rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (g *GormOrders) SelectByID(ctx context.Context, id string) (*models.Order, error) {
	var row OrderRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, remoteErr("select order", err)
	}
	return decodeOrderRow(&row)
}

func (g *GormOrders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	result := g.db.WithContext(ctx).Model(&OrderRow{}).Where("id = ?", id).
		Update("order_status", string(status))
	if result.Error != nil {
		return nil, remoteErr("update order status", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return g.SelectByID(ctx, id)
}

func (g *GormOrders) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	// Payment status lives inside the serialized payment column, so the row
	// is read, patched and written back.
	var row OrderRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, remoteErr("select order", err)
	}
	var payment paymentInfo
	if err := json.Unmarshal([]byte(row.PaymentInformation), &payment); err != nil {
		return nil, fmt.Errorf("%w: order %s payment information: %v", ErrMalformedRecord, id, err)
	}
	payment.PaymentStatus = status
	patched, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("encode payment information: %w", err)
	}
	if err := g.db.WithContext(ctx).Model(&OrderRow{}).Where("id = ?", id).
		Update("payment_information", string(patched)).Error; err != nil {
		return nil, remoteErr("update payment status", err)
	}
	return g.SelectByID(ctx, id)
}

// GormProducts is the gorm/postgres implementation of RemoteProducts.
type GormProducts struct {
	db *gorm.DB
}

func NewGormProducts(db *gorm.DB) *GormProducts {
	return &GormProducts{db: db}
}

func encodeProductRow(p *models.Product) (*ProductRow, error) {
	images := p.Images
	if len(images) == 0 {
		images = []string{models.PlaceholderImage}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("encode image URLs: %w", err)
	}
	return &ProductRow{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		OfferPrice:  p.OfferPrice,
		ImageURLs:   string(encoded),
		Bestseller:  p.Bestseller,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func decodeProductRow(row *ProductRow) (*models.Product, error) {
	var images []string
	if row.ImageURLs != "" {
		if err := json.Unmarshal([]byte(row.ImageURLs), &images); err != nil {
			return nil, fmt.Errorf("%w: product %s image URLs: %v", ErrMalformedRecord, row.ID, err)
		}
	}
	if len(images) == 0 {
		// Missing image is an intentional default, not a decode failure.
		images = []string{models.PlaceholderImage}
	}
	return &models.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		Price:       row.Price,
		OfferPrice:  row.OfferPrice,
		Images:      images,
		Bestseller:  row.Bestseller,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func (g *GormProducts) SelectAll(ctx context.Context) ([]models.Product, error) {
	var rows []ProductRow
	if err := g.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, remoteErr("select products", err)
	}
	products := make([]models.Product, 0, len(rows))
	for i := range rows {
		p, err := decodeProductRow(&rows[i])
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func (g *GormProducts) SelectByID(ctx context.Context, id string) (*models.Product, error) {
	var row ProductRow
	if err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, remoteErr("select product", err)
	}
	return decodeProductRow(&row)
}

func (g *GormProducts) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	stored := *product
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	row, err := encodeProductRow(&stored)
	if err != nil {
		return nil, err
	}
	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, remoteErr("insert product", err)
	}
	return decodeProductRow(row)
}

func (g *GormProducts) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	stored := *product
	stored.UpdatedAt = time.Now()
	row, err := encodeProductRow(&stored)
	if err != nil {
		return nil, err
	}
	result := g.db.WithContext(ctx).Model(&ProductRow{}).Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"name":        row.Name,
			"description": row.Description,
			"category":    row.Category,
			"price":       row.Price,
			"offer_price": row.OfferPrice,
			"image_urls":  row.ImageURLs,
			"bestseller":  row.Bestseller,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return nil, remoteErr("update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return g.SelectByID(ctx, row.ID)
}

func (g *GormProducts) Delete(ctx context.Context, id string) error {
	result := g.db.WithContext(ctx).Where("id = ?", id).Delete(&ProductRow{})
	if result.Error != nil {
		return remoteErr("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
