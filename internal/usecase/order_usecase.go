package usecase

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// CommitOrderInput carries the checkout form data.
type CommitOrderInput struct {
	OrderType string `json:"order_type" validate:"required"`
	OrderDate string `json:"order_date" validate:"required"` // YYYY-MM-DD
	Comment   string `json:"comment"`
}

// OrderUsecase defines order creation and retrieval operations.
type OrderUsecase interface {
	// Commit atomically converts the caller's open selection into an order.
	// The selection is marked in_order and never reused; any internal
	// failure rolls the whole transaction back.
	Commit(ctx context.Context, identity Identity, input *CommitOrderInput) (*entity.Order, error)

	// ListOrders returns a user's orders, newest first.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
