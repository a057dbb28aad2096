// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"mapdash/internal/domain"
)

var (
	// ErrValidation indicates missing or malformed user input.
	ErrValidation = errors.New("username and password are required")
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingToken indicates that no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates that the presented token failed verification.
	ErrInvalidToken = errors.New("invalid token")
)

const bearerPrefix = "Bearer "

// AuthService orchestrates registration, login and token authorization. It
// is the only component that touches both the credential store and the
// hashing/signing infrastructure; password hashes never leave it.
type AuthService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, hasher *PasswordHasher, tokens *TokenService) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a new identity. The returned user carries id and username
// only; the stored hash is stripped before it leaves the service.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return nil, err
	}

	return &domain.User{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}, nil
}

// Login authenticates a user and issues a session token. An unknown username
// and a wrong password produce the same error; nothing observable reveals
// which case occurred.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, ErrValidation
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, &domain.User{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}, nil
}

// Authorize extracts the bearer token from an Authorization header value and
// verifies it. An absent header or a malformed scheme prefix is reported as
// ErrMissingToken; any verification failure as ErrInvalidToken.
func (s *AuthService) Authorize(authorizationHeader string) (*Claims, error) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return nil, ErrMissingToken
	}
	token := authorizationHeader[len(bearerPrefix):]
	if token == "" {
		return nil, ErrMissingToken
	}
	return s.tokens.Verify(token)
}

// ProvisionExternal finds or creates an identity for an externally
// authenticated username (e.g. a verified OIDC login) and issues a session
// token for it. Auto-created users get a random password that can never be
// used for a password login.
func (s *AuthService) ProvisionExternal(ctx context.Context, username string) (string, *domain.User, error) {
	if username == "" {
		return "", nil, ErrValidation
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
		hash, err := s.hasher.Hash(randomSecret())
		if err != nil {
			return "", nil, err
		}
		user, err = s.users.Create(ctx, username, hash)
		if errors.Is(err, domain.ErrDuplicateUsername) {
			// Lost a race with a concurrent provision for the same subject.
			user, err = s.users.GetByUsername(ctx, username)
			if err != nil {
				return "", nil, err
			}
		} else if err != nil {
			return "", nil, err
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, &domain.User{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
