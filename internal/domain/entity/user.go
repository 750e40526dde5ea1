package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can own selections and orders.
// PasswordHash is never serialized to API responses.
type User struct {
	ID           uuid.UUID `json:"id"`         // The unique identifier for the user.
	Email        string    `json:"email"`      // The user's login identifier, unique system-wide.
	PasswordHash string    `json:"-"`          // bcrypt hash of the user's password.
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Position     string    `json:"position"` // Job position, shown on the profile page.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
