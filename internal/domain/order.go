package domain

import "time"

// OrderStatus follows the kitchen pipeline in order.
type OrderStatus string

const (
	OrderReceived       OrderStatus = "received"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPrepared       OrderStatus = "prepared"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
)

// ValidOrderStatus reports whether s is one of the known pipeline states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderReceived, OrderConfirmed, OrderPrepared, OrderOutForDelivery, OrderDelivered:
		return true
	}
	return false
}

type PaymentMode string

const (
	PaymentCard PaymentMode = "card"
	PaymentCash PaymentMode = "cash"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// ChosenConfiguration captures the buyer's per-item selections.
type ChosenConfiguration struct {
	PriceConfiguration map[string]string `json:"priceConfiguration"`
	SelectedToppings   []Topping          `json:"selectedToppings"`
}

type Topping struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type CartItem struct {
	Name                string              `json:"name"`
	Image               string              `json:"image"`
	Qty                 int                 `json:"qty"`
	ChosenConfiguration ChosenConfiguration `json:"chosenConfiguration"`
}

// Customer is the buyer reference embedded in an order.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Order struct {
	ID            string        `json:"id"`
	Cart          []CartItem    `json:"cart"`
	Customer      *Customer     `json:"customerId,omitempty"`
	Address       string        `json:"address"`
	Comment       string        `json:"comment,omitempty"`
	PaymentMode   PaymentMode   `json:"paymentMode"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	OrderStatus   OrderStatus   `json:"orderStatus"`
	StoreID       string        `json:"storeId"`
	Total         float64       `json:"total"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// OrderEvent is a server-pushed record describing an order's current state.
type OrderEvent struct {
	Order Order
}
