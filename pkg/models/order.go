package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus reports whether s is one of the six recognized statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// CanTransitionTo implements the vendor-facing status machine:
// pending -> accepted|rejected, accepted -> ready, ready -> completed.
// Cancellation is a separate customer operation and is never a legal
// target here.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusAccepted || next == OrderStatusRejected
	case OrderStatusAccepted:
		return next == OrderStatusReady
	case OrderStatusReady:
		return next == OrderStatusCompleted
	}
	return false
}

// Cancellable reports whether a customer may still cancel an order in
// this state. Rejected orders remain cancellable; ready ones do not.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusReady, OrderStatusCancelled:
		return false
	}
	return true
}

// OrderItem is a snapshot of a product at order time. Name and price are
// captured once and never track later product edits.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"product"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int64   `bson:"quantity" json:"quantity"`
}

type Order struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	CustomerID  string      `bson:"customer_id" json:"customer"`
	StoreID     string      `bson:"store_id" json:"store"`
	Items       []OrderItem `bson:"order_items" json:"orderItems"`
	TotalAmount float64     `bson:"total_amount" json:"totalAmount"`
	Status      OrderStatus `bson:"status" json:"status"`
	PickupDate  time.Time   `bson:"pickup_date" json:"pickupDate"`
	PickupTime  string      `bson:"pickup_time" json:"pickupTime"`
	Notes       string      `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updated_at"`
}
