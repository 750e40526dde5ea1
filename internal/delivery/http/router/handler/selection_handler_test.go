package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "catalog/internal/delivery/context"
	"catalog/internal/domain/entity"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSelectionUsecase returns canned selections and records the identity it was called with.
type stubSelectionUsecase struct {
	selection    *entity.Selection
	err          error
	lastIdentity usecase.Identity
}

func (s *stubSelectionUsecase) Resolve(_ context.Context, identity usecase.Identity) (*entity.Selection, error) {
	s.lastIdentity = identity

	return s.selection, s.err
}

func (s *stubSelectionUsecase) AddItem(_ context.Context, identity usecase.Identity, _ string) (*usecase.AddItemOutput, error) {
	s.lastIdentity = identity
	if s.err != nil {
		return nil, s.err
	}

	return &usecase.AddItemOutput{Selection: s.selection, Created: true}, nil
}

func (s *stubSelectionUsecase) RemoveItem(_ context.Context, identity usecase.Identity, _ string) (*entity.Selection, error) {
	s.lastIdentity = identity

	return s.selection, s.err
}

func (s *stubSelectionUsecase) ChangeQuantity(_ context.Context, identity usecase.Identity, _ string, _ int) (*entity.Selection, error) {
	s.lastIdentity = identity

	return s.selection, s.err
}

func anonymousSelection(token string) *entity.Selection {
	return &entity.Selection{
		ID:             uuid.New(),
		AnonymousToken: &token,
		TotalPrice:     decimal.Zero,
	}
}

func TestSelectionHandler_GetSelection_EchoesCartToken(t *testing.T) {
	stub := &stubSelectionUsecase{selection: anonymousSelection("visitor-token")}
	handler := NewSelectionHandler(stub, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.GetSelection(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "visitor-token", rec.Header().Get(deliverycontext.HeaderXCartToken))
	assert.Contains(t, rec.Body.String(), "visitor-token")
}

func TestSelectionHandler_GetSelection_ForwardsIncomingToken(t *testing.T) {
	stub := &stubSelectionUsecase{selection: anonymousSelection("visitor-token")}
	handler := NewSelectionHandler(stub, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(deliverycontext.HeaderXCartToken, "visitor-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.GetSelection(c))

	assert.Equal(t, "visitor-token", stub.lastIdentity.CartToken)
	assert.Nil(t, stub.lastIdentity.UserID)
}

func TestSelectionHandler_AddItem_RequiresSlug(t *testing.T) {
	stub := &stubSelectionUsecase{selection: anonymousSelection("visitor-token")}
	handler := NewSelectionHandler(stub, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cart/items/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.AddItem(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionHandler_AddItem_Created(t *testing.T) {
	stub := &stubSelectionUsecase{selection: anonymousSelection("visitor-token")}
	handler := NewSelectionHandler(stub, slog.Default())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cart/items/boiler", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("productSlug")
	c.SetParamValues("boiler")

	require.NoError(t, handler.AddItem(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), entity.KindProduct.DisplayName()+" added to selection")
}

func TestCallerIdentity_AuthenticatedUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	userID := uuid.New()
	c.Set("userID", userID)

	identity := callerIdentity(c)

	require.NotNil(t, identity.UserID)
	assert.Equal(t, userID, *identity.UserID)
}
