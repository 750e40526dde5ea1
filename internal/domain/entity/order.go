package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks an order through its fulfilment pipeline.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusCompleted  OrderStatus = "completed"
)

// OrderType distinguishes who the order is placed for.
type OrderType string

const (
	OrderTypeSelf         OrderType = "self"
	OrderTypeForCustomers OrderType = "for_customers"
)

// Valid reports whether the value is one of the known order types.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeSelf, OrderTypeForCustomers:
		return true
	}

	return false
}

// Order is the immutable record created from a committed selection. It holds
// a reference to, not ownership of, its source selection.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`             // The user the order belongs to.
	SelectionID uuid.UUID   `json:"selection_id"`        // The committed selection this order was created from.
	Selection   *Selection  `json:"selection,omitempty"` // Loaded for display; frozen once the order exists.
	Type        OrderType   `json:"type"`
	Status      OrderStatus `json:"status"`
	Comment     string      `json:"comment"`    // Optional free-text note from the checkout form.
	OrderDate   time.Time   `json:"order_date"` // Requested date of receipt.
	CreatedAt   time.Time   `json:"created_at"`
}
