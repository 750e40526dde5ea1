// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// selectionService implements the SelectionUsecase interface.
type selectionService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewSelectionService is the constructor for selectionService.
func NewSelectionService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.SelectionUsecase {
	return &selectionService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *selectionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve finds or creates the caller's single open selection.
func (srv *selectionService) Resolve(ctx context.Context, identity usecase.Identity) (*entity.Selection, error) {
	var selection *entity.Selection

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resolved, err := srv.resolveTx(ctx, repoFactory, identity)
		if err != nil {
			return err
		}
		selection = resolved

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve selection")
	}

	return selection, nil
}

// AddItem puts a product into the caller's selection. If the selection
// already holds a line item for the product the call leaves its quantity
// untouched and reports Created = false.
func (srv *selectionService) AddItem(ctx context.Context, identity usecase.Identity, productSlug string) (*usecase.AddItemOutput, error) {
	output := &usecase.AddItemOutput{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		selection, err := srv.resolveTx(ctx, repoFactory, identity)
		if err != nil {
			return err
		}

		product, err := findProductBySlug(ctx, repoFactory.ProductRepo(), productSlug)
		if err != nil {
			return err
		}

		item := selection.ItemFor(product.ID)
		if item == nil {
			item = &entity.LineItem{
				SelectionID: selection.ID,
				ProductID:   product.ID,
				OwnerID:     selection.OwnerID,
				Product:     product,
				Quantity:    1,
			}
			item.SnapshotPrice()

			if err := repoFactory.SelectionRepo().CreateLineItem(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create line item")
			}
			selection.Items = append(selection.Items, item)
			output.Created = true
		}

		output.Item = item
		output.Selection = selection

		return srv.recalculateTx(ctx, repoFactory, selection)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add item to selection")
	}

	srv.log(ctx).Debug("item added to selection",
		slog.String("product", productSlug),
		slog.Bool("created", output.Created),
	)

	return output, nil
}

// RemoveItem deletes the line item referencing the product from the caller's selection.
func (srv *selectionService) RemoveItem(ctx context.Context, identity usecase.Identity, productSlug string) (*entity.Selection, error) {
	var selection *entity.Selection

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resolved, err := srv.resolveTx(ctx, repoFactory, identity)
		if err != nil {
			return err
		}

		product, err := findProductBySlug(ctx, repoFactory.ProductRepo(), productSlug)
		if err != nil {
			return err
		}

		item := resolved.ItemFor(product.ID)
		if item == nil {
			return domainerrors.ErrLineItemNotFound.WrapMessage("product is not in the selection")
		}

		if err := repoFactory.SelectionRepo().DeleteLineItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to delete line item")
		}
		resolved.Items = removeItem(resolved.Items, item)
		selection = resolved

		return srv.recalculateTx(ctx, repoFactory, resolved)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove item from selection")
	}

	srv.log(ctx).Debug("item removed from selection", slog.String("product", productSlug))

	return selection, nil
}

// ChangeQuantity sets the quantity of the line item referencing the product
// and refreshes its price snapshot.
func (srv *selectionService) ChangeQuantity(ctx context.Context, identity usecase.Identity, productSlug string, qty int) (*entity.Selection, error) {
	// Validate before touching storage: an invalid quantity must leave the
	// line item unmodified.
	if qty < 1 {
		return nil, domainerrors.ErrInvalidQuantity.WrapMessage("quantity must be at least 1")
	}

	var selection *entity.Selection

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		resolved, err := srv.resolveTx(ctx, repoFactory, identity)
		if err != nil {
			return err
		}

		product, err := findProductBySlug(ctx, repoFactory.ProductRepo(), productSlug)
		if err != nil {
			return err
		}

		item := resolved.ItemFor(product.ID)
		if item == nil {
			return domainerrors.ErrLineItemNotFound.WrapMessage("product is not in the selection")
		}

		item.Product = product
		item.SetQuantity(qty)

		if err := repoFactory.SelectionRepo().UpdateLineItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update line item")
		}
		selection = resolved

		return srv.recalculateTx(ctx, repoFactory, resolved)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to change line item quantity")
	}

	srv.log(ctx).Debug("line item quantity changed",
		slog.String("product", productSlug),
		slog.Int("qty", qty),
	)

	return selection, nil
}

// resolveTx locates the caller's open selection inside the current
// transaction, creating one when none exists. Authenticated identities are
// verified against the user store first; anonymous identities are scoped by
// their cart token, with a fresh token minted for first-time visitors.
func (srv *selectionService) resolveTx(ctx context.Context, repoFactory repository.RepositoryFactory, identity usecase.Identity) (*entity.Selection, error) {
	selectionRepo := repoFactory.SelectionRepo()

	if identity.IsAuthenticated() {
		if _, err := repoFactory.UserRepo().FindByID(ctx, *identity.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
			}

			return nil, errors.Wrap(err, "failed to verify user")
		}

		selection, err := selectionRepo.FindOpenByOwner(ctx, *identity.UserID)
		if err == nil {
			return selection, nil
		}
		if !errors.Is(err, repository.ErrSelectionNotFound) {
			return nil, errors.Wrap(err, "failed to find open selection")
		}

		selection = &entity.Selection{OwnerID: identity.UserID}
		if err := selectionRepo.Create(ctx, selection); err != nil {
			return nil, errors.Wrap(err, "failed to create selection")
		}

		srv.log(ctx).Debug("created open selection", slog.Any("owner", *identity.UserID))

		return selection, nil
	}

	if identity.CartToken != "" {
		selection, err := selectionRepo.FindOpenByToken(ctx, identity.CartToken)
		if err == nil {
			return selection, nil
		}
		if !errors.Is(err, repository.ErrSelectionNotFound) {
			return nil, errors.Wrap(err, "failed to find anonymous selection")
		}
	}

	// Unknown or absent token: mint a fresh one so each visitor gets their
	// own cart. The token travels back to the client with the response.
	token := uuid.New().String()
	selection := &entity.Selection{AnonymousToken: &token}
	if err := selectionRepo.Create(ctx, selection); err != nil {
		return nil, errors.Wrap(err, "failed to create anonymous selection")
	}

	srv.log(ctx).Debug("created anonymous selection", slog.String("token", token))

	return selection, nil
}

// recalculateTx overwrites the selection's aggregates from its current line
// items and persists them. Runs after every mutation, within the same
// transaction, so no mutation path can skip it.
func (srv *selectionService) recalculateTx(ctx context.Context, repoFactory repository.RepositoryFactory, selection *entity.Selection) error {
	selection.Recalculate()

	if err := repoFactory.SelectionRepo().Update(ctx, selection); err != nil {
		return errors.Wrap(err, "failed to persist recalculated selection")
	}

	return nil
}

func findProductBySlug(ctx context.Context, productRepo repository.ProductRepository, slug string) (*entity.Product, error) {
	product, err := productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound.WrapMessage("unknown product slug: " + slug)
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func removeItem(items []*entity.LineItem, target *entity.LineItem) []*entity.LineItem {
	remaining := make([]*entity.LineItem, 0, len(items))
	for _, item := range items {
		if item != target {
			remaining = append(remaining, item)
		}
	}

	return remaining
}
