package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/delivery/http/middleware"
	"catalog/internal/delivery/http/response"
	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SelectionHandler holds dependencies for cart handlers.
type SelectionHandler struct {
	uc     usecase.SelectionUsecase
	logger *slog.Logger
}

// NewSelectionHandler is the constructor for SelectionHandler, injected by Fx.
func NewSelectionHandler(uc usecase.SelectionUsecase, logger *slog.Logger) *SelectionHandler {
	return &SelectionHandler{
		uc:     uc,
		logger: logger,
	}
}

// changeQuantityRequest carries the new quantity for a line item.
type changeQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// GetSelection handles resolving the caller's open cart.
func (h *SelectionHandler) GetSelection(c echo.Context) error {
	identity := callerIdentity(c)

	selection, err := h.uc.Resolve(c.Request().Context(), identity)
	if err != nil {
		return errors.WithStack(err)
	}

	echoCartToken(c, selection.AnonymousToken)

	return response.Success(c, http.StatusOK, selection, "")
}

// AddItem handles putting a product into the cart.
func (h *SelectionHandler) AddItem(c echo.Context) error {
	identity := callerIdentity(c)
	productSlug := c.Param("productSlug")
	if productSlug == "" {
		return response.BindingError(c, "INVALID_INPUT", "Product slug is required")
	}

	output, err := h.uc.AddItem(c.Request().Context(), identity, productSlug)
	if err != nil {
		return errors.WithStack(err)
	}

	echoCartToken(c, output.Selection.AnonymousToken)

	status := http.StatusOK
	message := entity.KindProduct.DisplayName() + " already selected"
	if output.Created {
		status = http.StatusCreated
		message = entity.KindProduct.DisplayName() + " added to selection"
	}

	return response.Success(c, status, output.Selection, message)
}

// RemoveItem handles deleting a product's line item from the cart.
func (h *SelectionHandler) RemoveItem(c echo.Context) error {
	identity := callerIdentity(c)
	productSlug := c.Param("productSlug")
	if productSlug == "" {
		return response.BindingError(c, "INVALID_INPUT", "Product slug is required")
	}

	selection, err := h.uc.RemoveItem(c.Request().Context(), identity, productSlug)
	if err != nil {
		return errors.WithStack(err)
	}

	echoCartToken(c, selection.AnonymousToken)

	return response.Success(c, http.StatusOK, selection, entity.KindProduct.DisplayName()+" removed from selection")
}

// ChangeQuantity handles setting a line item's quantity.
func (h *SelectionHandler) ChangeQuantity(c echo.Context) error {
	identity := callerIdentity(c)
	productSlug := c.Param("productSlug")
	if productSlug == "" {
		return response.BindingError(c, "INVALID_INPUT", "Product slug is required")
	}

	var req changeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity payload")
	}

	selection, err := h.uc.ChangeQuantity(c.Request().Context(), identity, productSlug, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	echoCartToken(c, selection.AnonymousToken)

	return response.Success(c, http.StatusOK, selection, "Quantity updated")
}

// callerIdentity builds the cart identity from the authenticated user, if
// any, and the visitor's cart token header.
func callerIdentity(c echo.Context) usecase.Identity {
	identity := usecase.Identity{
		CartToken: c.Request().Header.Get(deliverycontext.HeaderXCartToken),
	}

	if userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID); ok {
		identity.UserID = &userID
	}

	return identity
}

// echoCartToken returns the visitor's cart token so the client can persist
// it across requests. Authenticated carts carry no token.
func echoCartToken(c echo.Context, token *string) {
	if token != nil && *token != "" {
		c.Response().Header().Set(deliverycontext.HeaderXCartToken, *token)
	}
}
