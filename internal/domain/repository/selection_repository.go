package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSelectionNotFound is a domain-specific error returned when no matching selection exists.
var ErrSelectionNotFound = errors.New("selection not found")

// ErrLineItemNotFound is a domain-specific error returned when a selection has no line item for a product.
var ErrLineItemNotFound = errors.New("line item not found")

// SelectionRepository defines the standard operations for selection (cart) persistence.
// All Find methods load the selection together with its line items and their products.
type SelectionRepository interface {
	// FindOpenByOwner retrieves the single open (in_order = false) selection of a user.
	FindOpenByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Selection, error)

	// FindOpenByToken retrieves the open anonymous selection bound to a visitor token.
	FindOpenByToken(ctx context.Context, token string) (*entity.Selection, error)

	// FindByIDForUpdate retrieves a selection by ID while holding a row lock
	// until the surrounding transaction ends. Used to serialize order commits.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Selection, error)

	// Create persists a new selection.
	Create(ctx context.Context, selection *entity.Selection) error

	// Update persists the selection's own columns (aggregates, in_order flag).
	Update(ctx context.Context, selection *entity.Selection) error

	// CreateLineItem persists a new line item attached to a selection.
	CreateLineItem(ctx context.Context, item *entity.LineItem) error

	// UpdateLineItem persists quantity and price snapshot changes of a line item.
	UpdateLineItem(ctx context.Context, item *entity.LineItem) error

	// DeleteLineItem removes a line item from its selection.
	DeleteLineItem(ctx context.Context, item *entity.LineItem) error
}
