// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUserNotFound indicates that no user exists for the given lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername indicates that the username is already registered.
	ErrDuplicateUsername = errors.New("username already taken")
)

// User represents a registered identity in the system.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the port for credential persistence operations.
// Usernames are unique and matched case-sensitively.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}
