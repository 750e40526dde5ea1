package usecase

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Position        string `json:"position" validate:"required"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user together with a token pair,
// so registration immediately logs the user in.
type RegisterOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// ProfileOutput bundles the user with their order history for the profile page.
type ProfileOutput struct {
	User   *entity.User    `json:"user"`
	Orders []*entity.Order `json:"orders"`
}

// AccountUsecase defines registration, login and profile operations.
type AccountUsecase interface {
	// Register creates a new account. Password and confirmation must match.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// GetProfile returns the user's data and order history.
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
}
