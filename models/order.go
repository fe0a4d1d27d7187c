package models

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// statusRank orders the forward lifecycle. Terminal states have no
// successors; cancelled is reachable from any non-terminal state.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusPreparing:      2,
	OrderStatusOutForDelivery: 3,
	OrderStatusDelivered:      4,
}

func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == OrderStatusDelivered || s == OrderStatusCancelled {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, ok1 := statusRank[s]
	to, ok2 := statusRank[next]
	return ok1 && ok2 && to == from+1
}

type Order struct {
	ID                   string      `db:"id" json:"id"`
	UserID               string      `db:"user_id" json:"user_id"`
	Status               OrderStatus `db:"status" json:"status"`
	Subtotal             float64     `db:"subtotal" json:"subtotal"`
	Tax                  float64     `db:"tax" json:"tax"`
	DeliveryFee          float64     `db:"delivery_fee" json:"delivery_fee"`
	Tip                  float64     `db:"tip" json:"tip"`
	Discount             float64     `db:"discount" json:"discount"`
	Total                float64     `db:"total" json:"total"`
	DeliveryAddress      Address     `db:"delivery_address" json:"delivery_address"`
	DeliverySlot         time.Time   `db:"delivery_slot" json:"delivery_slot"`
	DeliveryInstructions *string     `db:"delivery_instructions" json:"delivery_instructions"`
	PromoCode            *string     `db:"promo_code" json:"promo_code"`
	DriverID             *string     `db:"driver_id" json:"driver_id"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time   `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem snapshots product title and price at purchase time. Rows are
// never updated after insert.
type OrderItem struct {
	ID              string    `db:"id" json:"id"`
	OrderID         string    `db:"order_id" json:"order_id"`
	ProductID       string    `db:"product_id" json:"product_id"`
	Quantity        int       `db:"quantity" json:"quantity"`
	PriceAtPurchase float64   `db:"price_at_purchase" json:"price_at_purchase"`
	ProductTitle    string    `db:"product_title" json:"product_title"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type CartItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Product *Product `db:"-" json:"product,omitempty"`
}
