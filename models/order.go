package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"freshmart/apperr"
)

// OrderStatus is the closed set of states an order moves through.
type OrderStatus string

const (
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPacked         OrderStatus = "packed"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusTransitions is the adjacency table for the order lifecycle.
// The forward chain admits no skips; delivered and cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusConfirmed:      {StatusPacked, StatusCancelled},
	StatusPacked:         {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal successor of s. A status is
// never a successor of itself, so repeating a transition is rejected rather
// than treated as a no-op.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ValidateTransition returns the error a handler reports for an illegal edge.
func ValidateTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return apperr.InvalidArgument("unknown order status " + string(to))
	}
	if !from.CanTransitionTo(to) {
		return apperr.InvalidTransition(string(from), string(to))
	}
	return nil
}

// PaymentMethodValid reports whether m is an accepted checkout payment method.
func PaymentMethodValid(m string) bool {
	return m == "cod" || m == "online"
}

// OrderItem is a line item frozen at checkout time. Product details are
// copied in so later catalog edits do not rewrite order history.
type OrderItem struct {
	ProductID     primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name          string             `bson:"name" json:"name"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Weight        string             `bson:"weight,omitempty" json:"weight,omitempty"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"original_price,omitempty" json:"original_price,omitempty"`
}

// StatusEntry is one append-only record of a status an order has occupied.
type StatusEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Message   string      `bson:"message" json:"message"`
	UpdatedBy string      `bson:"updated_by" json:"updated_by"`
}

// DeliveryPartner identifies who is carrying an order out for delivery.
type DeliveryPartner struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
}

// DeliveryAddress is the shipping destination captured at checkout.
type DeliveryAddress struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
}

// Order represents a customer's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderNumber     string             `bson:"order_number" json:"order_number"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Discount        float64            `bson:"discount,omitempty" json:"discount,omitempty"`
	DeliveryFee     float64            `bson:"delivery_fee,omitempty" json:"delivery_fee,omitempty"`
	Total           float64            `bson:"total" json:"total"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"` // "cod" or "online"
	Address         DeliveryAddress    `bson:"address" json:"address"`
	Status          OrderStatus        `bson:"status" json:"status"`
	StatusHistory   []StatusEntry      `bson:"status_history" json:"status_history"`
	DeliveryPartner *DeliveryPartner   `bson:"delivery_partner,omitempty" json:"delivery_partner,omitempty"`
	CustomerNotes   string             `bson:"customer_notes,omitempty" json:"customer_notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderStats are the dashboard numbers recomputed from the full order set on
// every update; nothing here is stored.
type OrderStats struct {
	Total         int     `json:"total"`
	Pending       int     `json:"pending"`
	Delivered     int     `json:"delivered"`
	Cancelled     int     `json:"cancelled"`
	TodaysRevenue float64 `json:"todays_revenue"`
}

// ComputeOrderStats derives the dashboard counters from orders. Today's
// revenue sums the totals of orders created on the same calendar day as now
// (in now's location), excluding cancelled orders.
func ComputeOrderStats(orders []Order, now time.Time) OrderStats {
	var s OrderStats
	s.Total = len(orders)
	y, m, d := now.Date()
	for _, o := range orders {
		switch o.Status {
		case StatusConfirmed, StatusPacked, StatusOutForDelivery:
			s.Pending++
		case StatusDelivered:
			s.Delivered++
		case StatusCancelled:
			s.Cancelled++
		}
		oy, om, od := o.CreatedAt.In(now.Location()).Date()
		if oy == y && om == m && od == d && o.Status != StatusCancelled {
			s.TodaysRevenue += o.Total
		}
	}
	return s
}
