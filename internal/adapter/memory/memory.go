// Package memory implements the process-lifetime in-memory credential store.
package memory

import (
	"context"
	"sync"
	"time"

	"mapdash/internal/domain"
)

// DB is an in-memory user store. All state lives for the lifetime of the
// process; there is no persistence.
type DB struct {
	mu            sync.Mutex
	users         []*domain.User
	userIDCounter int64
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)

// GetByUsername retrieves a user by exact, case-sensitive username match.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Create inserts a new user with the next sequential id. The existence check
// and the insert happen under one lock hold, so concurrent signups for the
// same username cannot both pass the check.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)

	cp := *u
	return &cp, nil
}
