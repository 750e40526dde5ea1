package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const orderDateLayout = "2006-01-02"

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		txManager: txManager,
		logger:    logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Commit atomically converts the caller's open selection into an order:
// the order row is created, the selection is flipped to in_order and linked,
// all inside one transaction. The selection row is locked for the duration
// of the transaction so the same selection can never be committed twice.
func (srv *orderService) Commit(ctx context.Context, identity usecase.Identity, input *usecase.CommitOrderInput) (*entity.Order, error) {
	if !identity.IsAuthenticated() {
		return nil, domainerrors.ErrForbidden.WrapMessage("checkout requires a logged-in user")
	}

	// Structural validation happens before any mutation: an invalid form
	// must have zero side effects.
	orderType, orderDate, err := validateOrderForm(input)
	if err != nil {
		return nil, err
	}

	var order *entity.Order

	txErr := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userID := *identity.UserID

		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to find user")
		}

		open, err := repoFactory.SelectionRepo().FindOpenByOwner(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrSelectionNotFound) {
				return domainerrors.ErrEmptySelection.WrapMessage("no open selection to commit")
			}

			return errors.Wrap(err, "failed to find open selection")
		}

		// Re-read under a row lock. Concurrent commits of the same
		// selection serialize here; the loser observes in_order = true.
		selection, err := repoFactory.SelectionRepo().FindByIDForUpdate(ctx, open.ID)
		if err != nil {
			return errors.Wrap(err, "failed to lock selection")
		}
		if selection.InOrder {
			return domainerrors.ErrSelectionAlreadyOrdered.WrapMessage("selection was committed concurrently")
		}
		if len(selection.Items) == 0 {
			return domainerrors.ErrEmptySelection.WrapMessage("selection has no items")
		}

		order = &entity.Order{
			UserID:      user.ID,
			SelectionID: selection.ID,
			Selection:   selection,
			Type:        orderType,
			Status:      entity.OrderStatusNew,
			Comment:     input.Comment,
			OrderDate:   orderDate,
		}
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		selection.InOrder = true
		if err := repoFactory.SelectionRepo().Update(ctx, selection); err != nil {
			return errors.Wrap(err, "failed to mark selection as ordered")
		}

		return nil
	})
	if txErr != nil {
		srv.log(ctx).Error("order commit rolled back", slog.Any("error", txErr))

		// Business outcomes (validation, conflicts, empty selection) pass
		// through unchanged. Everything else, including database failures
		// from the repositories, surfaces as a commit failure after rollback.
		var baseErr *domainerrors.BaseError
		if errors.As(txErr, &baseErr) {
			return nil, txErr
		}

		return nil, domainerrors.ErrCommitFailed.WrapMessage(txErr.Error())
	}

	srv.log(ctx).Info("order committed",
		slog.Any("orderID", order.ID),
		slog.Any("selectionID", order.SelectionID),
	)

	return order, nil
}

// ListOrders returns a user's orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orders []*entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.OrderRepo().FindByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}
		orders = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// validateOrderForm checks the checkout form structurally and parses its
// typed fields. Returns ValidationError without side effects on failure.
func validateOrderForm(input *usecase.CommitOrderInput) (entity.OrderType, time.Time, error) {
	if input == nil {
		return "", time.Time{}, domainerrors.ErrValidationFailed.WrapMessage("order form is required")
	}

	orderType := entity.OrderType(input.OrderType)
	if !orderType.Valid() {
		return "", time.Time{}, domainerrors.ErrValidationFailed.WrapMessage("unknown order type: " + input.OrderType)
	}

	if input.OrderDate == "" {
		return "", time.Time{}, domainerrors.ErrValidationFailed.WrapMessage("order date is required")
	}
	orderDate, err := time.Parse(orderDateLayout, input.OrderDate)
	if err != nil {
		return "", time.Time{}, domainerrors.ErrValidationFailed.WrapMessage("order date must be formatted as YYYY-MM-DD")
	}

	return orderType, orderDate, nil
}
