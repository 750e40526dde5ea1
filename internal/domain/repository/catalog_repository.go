// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"
)

// ErrCategoryNotFound is a domain-specific error returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// CategoryRepository defines the standard operations for category persistence.
type CategoryRepository interface {
	// FindAll retrieves every category, ordered by name.
	FindAll(ctx context.Context) ([]*entity.Category, error)

	// FindBySlug retrieves a single category by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)

	// Create persists a new category.
	Create(ctx context.Context, category *entity.Category) error
}

// ProductRepository defines the standard operations for product persistence.
type ProductRepository interface {
	// FindAll retrieves every product, ordered by name.
	FindAll(ctx context.Context) ([]*entity.Product, error)

	// FindByCategorySlug retrieves the products belonging to a category.
	FindByCategorySlug(ctx context.Context, categorySlug string) ([]*entity.Product, error)

	// FindBySlug retrieves a single product by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error
}
