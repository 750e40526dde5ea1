// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalog. Addressed by its unique slug.
type Category struct {
	ID        uuid.UUID `json:"id"`   // The unique identifier for the category.
	Name      string    `json:"name"` // Display name shown in category listings.
	Slug      string    `json:"slug"` // URL-safe unique identifier used in routes.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
