package models

import "time"

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

// Source records which store ultimately persisted a record.
type Source string

const (
	OrderStatusPlaced    OrderStatus = "Order Placed"
	OrderStatusDelivered OrderStatus = "Delivered"

	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"

	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCOD  PaymentMethod = "cod"

	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// ValidPaymentMethod reports whether m is one of the supported methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCard || m == PaymentMethodCOD
}

// OrderItem is a snapshot of a product at purchase time. It is a historical
// record: later catalog edits must not change it.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	UserEmail       string        `json:"userEmail"`
	Items           []OrderItem   `json:"items"`
	Amount          float64       `json:"amount"`
	Address         Address       `json:"address"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	DiscountPercent float64       `json:"discount"`
	PromoCode       string        `json:"promoCode,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	Source          Source        `json:"source,omitempty"`
}

// Clone returns a deep copy so stored orders cannot alias caller-held state.
func (o *Order) Clone() *Order {
	copied := *o
	copied.Items = make([]OrderItem, len(o.Items))
	copy(copied.Items, o.Items)
	copied.Address = o.Address.Clone()
	return &copied
}
