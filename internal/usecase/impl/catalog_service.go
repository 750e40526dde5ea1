package impl

import (
	"context"
	"log/slog"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/repository"
	"catalog/internal/usecase"

	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		txManager: txManager,
		logger:    logger,
	}
}

// ListCategories returns all categories, ordered by name.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.CategoryRepo().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list categories")
		}
		categories = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// ListProducts returns all products, or one category's products when
// categorySlug is non-empty.
func (srv *catalogService) ListProducts(ctx context.Context, categorySlug string) ([]*entity.Product, error) {
	var products []*entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		if categorySlug == "" {
			found, err := productRepo.FindAll(ctx)
			if err != nil {
				return errors.Wrap(err, "failed to list products")
			}
			products = found

			return nil
		}

		if _, err := repoFactory.CategoryRepo().FindBySlug(ctx, categorySlug); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrNotFound.WrapMessage("unknown category slug: " + categorySlug)
			}

			return errors.Wrap(err, "failed to find category")
		}

		found, err := productRepo.FindByCategorySlug(ctx, categorySlug)
		if err != nil {
			return errors.Wrap(err, "failed to list category products")
		}
		products = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single product by its slug.
func (srv *catalogService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	var product *entity.Product

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := findProductBySlug(ctx, repoFactory.ProductRepo(), slug)
		if err != nil {
			return err
		}
		product = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	return product, nil
}
