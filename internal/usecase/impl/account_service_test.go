package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountFixtures struct {
	store   *memStore
	service usecase.AccountUsecase
}

func createTestAccountService(t *testing.T) accountFixtures {
	t.Helper()

	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return accountFixtures{
		store:   store,
		service: NewAccountService(newFakeTxManager(store), fakePasswordHasher{}, fakeTokenService{}, logger),
	}
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Email:           "new@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
		FirstName:       "New",
		LastName:        "User",
		Position:        "procurement",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	fx := createTestAccountService(t)

	out, err := fx.service.Register(context.Background(), validRegisterInput())

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", out.User.Email)
	assert.NotEqual(t, uuid.Nil, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.NotEqual(t, "Password123!", out.User.PasswordHash)
}

func TestAccountService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestAccountService(t)
	input := validRegisterInput()
	input.ConfirmPassword = "Different123!"

	_, err := fx.service.Register(context.Background(), input)

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Empty(t, fx.store.users, "no account may be created on mismatch")
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = fx.service.Register(ctx, validRegisterInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	assert.Len(t, fx.store.users, 1)
}

func TestAccountService_Login_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	out, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "new@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "new@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_GetProfile(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, validRegisterInput())
	require.NoError(t, err)

	out, err := fx.service.GetProfile(ctx, registered.User.ID)

	require.NoError(t, err)
	assert.Equal(t, registered.User.Email, out.User.Email)
	assert.Empty(t, out.Orders)
}

func TestAccountService_GetProfile_UnknownUser(t *testing.T) {
	fx := createTestAccountService(t)

	_, err := fx.service.GetProfile(context.Background(), uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
