// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// Identity describes who a cart-affecting request acts for: an authenticated
// user (UserID set) or an anonymous visitor carrying a cart token. Both may
// be empty on a visitor's first request; the resolver then mints a token.
type Identity struct {
	UserID    *uuid.UUID
	CartToken string
}

// IsAuthenticated reports whether the identity belongs to a logged-in user.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != nil
}

// AddItemOutput reports the result of adding a product to a selection.
type AddItemOutput struct {
	Selection *entity.Selection
	Item      *entity.LineItem
	Created   bool // false when the product was already in the selection
}

// SelectionUsecase defines the cart lifecycle operations exposed to the
// delivery layer. Every mutation resolves the caller's selection, applies
// the change and recalculates aggregates as one transactional unit.
type SelectionUsecase interface {
	// Resolve finds or creates the caller's single open selection.
	Resolve(ctx context.Context, identity Identity) (*entity.Selection, error)

	// AddItem puts a product into the selection with quantity 1. Adding a
	// product that is already present is a no-op on quantity.
	AddItem(ctx context.Context, identity Identity, productSlug string) (*AddItemOutput, error)

	// RemoveItem deletes the line item referencing the product.
	RemoveItem(ctx context.Context, identity Identity, productSlug string) (*entity.Selection, error)

	// ChangeQuantity sets the line item's quantity and refreshes its price snapshot.
	ChangeQuantity(ctx context.Context, identity Identity, productSlug string, qty int) (*entity.Selection, error)
}
