package usecase

import (
	"context"

	"catalog/internal/domain/entity"
)

// CatalogUsecase defines read operations over categories and products.
type CatalogUsecase interface {
	// ListCategories returns all categories, ordered by name.
	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// ListProducts returns all products, or the products of one category
	// when categorySlug is non-empty.
	ListProducts(ctx context.Context, categorySlug string) ([]*entity.Product, error)

	// GetProduct returns a single product by its slug.
	GetProduct(ctx context.Context, slug string) (*entity.Product, error)
}
