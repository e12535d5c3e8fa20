package domain

import (
	"context"
	"time"
)

// User represents a registered account acting on comments.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	Email     string    // Contact address copied onto authored comments
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp

	// Permissions is the capability bundle carried by the access token.
	// nil means the token did not carry one.
	Permissions []string
}

// UserRepository defines the read contract for user data.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)
}
