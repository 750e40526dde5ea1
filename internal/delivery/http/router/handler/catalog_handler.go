// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"catalog/internal/delivery/http/response"
	"catalog/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler holds dependencies for catalog browsing handlers.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListCategories handles listing all categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "")
}

// ListProducts handles listing products, optionally filtered by the
// 'category' query parameter holding a category slug.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	categorySlug := c.QueryParam("category")

	products, err := h.uc.ListProducts(c.Request().Context(), categorySlug)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// GetProduct handles retrieving a single product by slug.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return response.BindingError(c, "INVALID_INPUT", "Product slug is required")
	}

	product, err := h.uc.GetProduct(c.Request().Context(), slug)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}
