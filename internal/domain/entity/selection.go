package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Selection is a shopping cart: a set of line items not yet converted to an
// order. A selection belongs either to a user (OwnerID set) or to an
// anonymous visitor identified by AnonymousToken. At most one open
// (InOrder == false) selection exists per owner and per token.
type Selection struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        *uuid.UUID      `json:"owner_id,omitempty"`   // Owning user; nil for anonymous selections.
	AnonymousToken *string         `json:"cart_token,omitempty"` // Visitor token scoping anonymous selections; nil for owned ones.
	InOrder        bool            `json:"in_order"`             // Becomes true when committed into an order, never flips back.
	TotalItems     int             `json:"total_items"`          // Derived: count of line item rows.
	TotalPrice     decimal.Decimal `json:"total_price"`          // Derived: sum of line-item price snapshots.
	Items          []*LineItem     `json:"items"`                // Line items owned by this selection.
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LineItem is one product entry in a selection. LinePrice is a snapshot
// taken at the last mutation of the item: quantity times the product's unit
// price at that moment. It is not recomputed when the product price changes.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	SelectionID uuid.UUID       `json:"selection_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	OwnerID     *uuid.UUID      `json:"owner_id,omitempty"` // Same owner as the parent selection; nil for anonymous carts.
	Product     *Product        `json:"product,omitempty"`  // Loaded for display and price snapshots.
	Quantity    int             `json:"quantity"`           // Always >= 1.
	LinePrice   decimal.Decimal `json:"line_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsAnonymous reports whether the selection belongs to an anonymous visitor.
func (s *Selection) IsAnonymous() bool {
	return s.OwnerID == nil
}

// ItemFor returns the line item referencing the given product, or nil.
func (s *Selection) ItemFor(productID uuid.UUID) *LineItem {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item
		}
	}

	return nil
}

// Recalculate overwrites the derived aggregates from the current line item
// set. Pure over Items: an empty set yields zero totals, not absent ones.
func (s *Selection) Recalculate() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LinePrice)
	}

	s.TotalPrice = total
	s.TotalItems = len(s.Items)
}

// SetQuantity updates the quantity and refreshes the price snapshot from the
// referenced product.
func (li *LineItem) SetQuantity(qty int) {
	li.Quantity = qty
	li.SnapshotPrice()
}

// SnapshotPrice recomputes LinePrice as quantity times the product's current
// unit price.
func (li *LineItem) SnapshotPrice() {
	if li.Product == nil {
		return
	}
	li.LinePrice = li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
