package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entity with a unit price. It is immutable from the
// cart's perspective: carts snapshot its price into line items instead of
// referencing it live.
type Product struct {
	ID          uuid.UUID       `json:"id"`          // The unique identifier for the product.
	CategoryID  uuid.UUID       `json:"category_id"` // The category this product belongs to.
	Name        string          `json:"name"`        // Display name of the product.
	Slug        string          `json:"slug"`        // URL-safe unique identifier used in routes.
	ImageURL    string          `json:"image_url"`   // Location of the product image.
	Description string          `json:"description"` // Free-text product description.
	Price       decimal.Decimal `json:"price"`       // Unit price of the product.
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
