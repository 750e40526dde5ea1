package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"catalog/internal/domain/entity"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectionFixtures holds the store and services shared by cart tests.
type selectionFixtures struct {
	store   *memStore
	service usecase.SelectionUsecase
}

func createTestSelectionService(t *testing.T) selectionFixtures {
	t.Helper()

	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return selectionFixtures{
		store:   store,
		service: NewSelectionService(newFakeTxManager(store), logger),
	}
}

func seedUser(t *testing.T, store *memStore, email string) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, FirstName: "Test", LastName: "User", Position: "engineer"}
	require.NoError(t, (&fakeUserRepo{store}).Create(context.Background(), user))

	return user
}

func seedProduct(t *testing.T, store *memStore, slug, price string) *entity.Product {
	t.Helper()

	category := &entity.Category{Name: "Boilers", Slug: "boilers"}
	require.NoError(t, (&fakeCategoryRepo{store}).Create(context.Background(), category))

	product := &entity.Product{
		CategoryID: category.ID,
		Name:       slug,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, (&fakeProductRepo{store}).Create(context.Background(), product))

	return product
}

func anonymousIdentity(token string) usecase.Identity {
	return usecase.Identity{CartToken: token}
}

func userIdentity(user *entity.User) usecase.Identity {
	return usecase.Identity{UserID: &user.ID}
}

func TestSelectionService_Resolve_MintsAnonymousToken(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()

	sel, err := fx.service.Resolve(ctx, anonymousIdentity(""))

	require.NoError(t, err)
	require.NotNil(t, sel.AnonymousToken)
	assert.NotEmpty(t, *sel.AnonymousToken)
	assert.Nil(t, sel.OwnerID)
	assert.Equal(t, 0, sel.TotalItems)
	assert.True(t, sel.TotalPrice.Equal(decimal.Zero))

	// The same token resolves to the same cart.
	again, err := fx.service.Resolve(ctx, anonymousIdentity(*sel.AnonymousToken))
	require.NoError(t, err)
	assert.Equal(t, sel.ID, again.ID)
}

func TestSelectionService_Resolve_AnonymousCartsAreDisjoint(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()

	first, err := fx.service.Resolve(ctx, anonymousIdentity(""))
	require.NoError(t, err)
	second, err := fx.service.Resolve(ctx, anonymousIdentity(""))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, *first.AnonymousToken, *second.AnonymousToken)
}

func TestSelectionService_Resolve_AuthenticatedReusesOpenSelection(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	user := seedUser(t, fx.store, "buyer@example.com")

	sel, err := fx.service.Resolve(ctx, userIdentity(user))
	require.NoError(t, err)
	require.NotNil(t, sel.OwnerID)
	assert.Equal(t, user.ID, *sel.OwnerID)

	again, err := fx.service.Resolve(ctx, userIdentity(user))
	require.NoError(t, err)
	assert.Equal(t, sel.ID, again.ID, "resolver must reuse the single open selection")
}

func TestSelectionService_Resolve_UnknownUser(t *testing.T) {
	fx := createTestSelectionService(t)
	unknownID := uuid.New()

	_, err := fx.service.Resolve(context.Background(), usecase.Identity{UserID: &unknownID})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestSelectionService_AddItem_CreatesWithQuantityOne(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")

	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, 1, out.Item.Quantity)
	assert.True(t, out.Item.LinePrice.Equal(decimal.RequireFromString("50000.00")))
	assert.Equal(t, 1, out.Selection.TotalItems)
	assert.True(t, out.Selection.TotalPrice.Equal(decimal.RequireFromString("50000.00")))
}

func TestSelectionService_AddItem_IdempotentOnQuantity(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")

	first, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *first.Selection.AnonymousToken

	_, err = fx.service.ChangeQuantity(ctx, anonymousIdentity(token), "test-boiler", 3)
	require.NoError(t, err)

	second, err := fx.service.AddItem(ctx, anonymousIdentity(token), "test-boiler")
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, 3, second.Item.Quantity, "re-adding must not touch the quantity")
	assert.Equal(t, 1, second.Selection.TotalItems, "re-adding must not duplicate the line item")
}

func TestSelectionService_AddItem_UnknownProduct(t *testing.T) {
	fx := createTestSelectionService(t)

	_, err := fx.service.AddItem(context.Background(), anonymousIdentity(""), "no-such-product")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestSelectionService_RemoveItem_RecalculatesAggregates(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")
	seedProduct(t, fx.store, "test-pump", "1200.00")

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *out.Selection.AnonymousToken
	_, err = fx.service.AddItem(ctx, anonymousIdentity(token), "test-pump")
	require.NoError(t, err)

	sel, err := fx.service.RemoveItem(ctx, anonymousIdentity(token), "test-boiler")

	require.NoError(t, err)
	assert.Equal(t, 1, sel.TotalItems)
	assert.True(t, sel.TotalPrice.Equal(decimal.RequireFromString("1200.00")))
}

func TestSelectionService_RemoveItem_MissingLeavesAggregatesUnchanged(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")
	seedProduct(t, fx.store, "test-pump", "1200.00")

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *out.Selection.AnonymousToken

	_, err = fx.service.RemoveItem(ctx, anonymousIdentity(token), "test-pump")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrLineItemNotFound)

	sel, err := fx.service.Resolve(ctx, anonymousIdentity(token))
	require.NoError(t, err)
	assert.Equal(t, 1, sel.TotalItems)
	assert.True(t, sel.TotalPrice.Equal(decimal.RequireFromString("50000.00")))
}

func TestSelectionService_ChangeQuantity_UpdatesSnapshot(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *out.Selection.AnonymousToken

	sel, err := fx.service.ChangeQuantity(ctx, anonymousIdentity(token), "test-boiler", 3)

	require.NoError(t, err)
	assert.Equal(t, 1, sel.TotalItems, "quantity change must not add line rows")
	assert.True(t, sel.TotalPrice.Equal(decimal.RequireFromString("150000.00")))
}

func TestSelectionService_ChangeQuantity_RejectsNonPositive(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *out.Selection.AnonymousToken

	for _, qty := range []int{0, -1, -50} {
		_, err := fx.service.ChangeQuantity(ctx, anonymousIdentity(token), "test-boiler", qty)
		require.Error(t, err, "qty=%d", qty)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidQuantity)
	}

	// The line item is unmodified.
	sel, err := fx.service.Resolve(ctx, anonymousIdentity(token))
	require.NoError(t, err)
	require.Len(t, sel.Items, 1)
	assert.Equal(t, 1, sel.Items[0].Quantity)
	assert.True(t, sel.TotalPrice.Equal(decimal.RequireFromString("50000.00")))
}

func TestSelectionService_ChangeQuantity_MissingItem(t *testing.T) {
	fx := createTestSelectionService(t)
	seedProduct(t, fx.store, "test-boiler", "50000.00")

	_, err := fx.service.ChangeQuantity(context.Background(), anonymousIdentity(""), "test-boiler", 2)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrLineItemNotFound)
}

// Every mutation path must leave the stored aggregates equal to what a fresh
// recalculation over the line items would produce.
func TestSelectionService_AggregateInvariantAfterEveryMutation(t *testing.T) {
	fx := createTestSelectionService(t)
	ctx := context.Background()
	seedProduct(t, fx.store, "test-boiler", "50000.00")
	seedProduct(t, fx.store, "test-pump", "1200.00")

	assertInvariant := func(token string) {
		t.Helper()
		sel, err := fx.service.Resolve(ctx, anonymousIdentity(token))
		require.NoError(t, err)

		wantTotal := decimal.Zero
		for _, item := range sel.Items {
			wantTotal = wantTotal.Add(item.LinePrice)
		}
		assert.Equal(t, len(sel.Items), sel.TotalItems)
		assert.True(t, sel.TotalPrice.Equal(wantTotal), "stored %s, recomputed %s", sel.TotalPrice, wantTotal)
	}

	out, err := fx.service.AddItem(ctx, anonymousIdentity(""), "test-boiler")
	require.NoError(t, err)
	token := *out.Selection.AnonymousToken
	assertInvariant(token)

	_, err = fx.service.AddItem(ctx, anonymousIdentity(token), "test-pump")
	require.NoError(t, err)
	assertInvariant(token)

	_, err = fx.service.ChangeQuantity(ctx, anonymousIdentity(token), "test-pump", 7)
	require.NoError(t, err)
	assertInvariant(token)

	_, err = fx.service.RemoveItem(ctx, anonymousIdentity(token), "test-boiler")
	require.NoError(t, err)
	assertInvariant(token)
}
