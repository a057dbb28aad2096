package app

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mapdash/internal/domain"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = time.Hour

// Claims are the assertions embedded in a session token. The claim set is
// fixed: extra fields in a presented token are ignored, never trusted.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, self-contained session tokens.
// No session state is kept server-side; the token is the sole record, which
// also means issued tokens cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. A non-positive
// ttl falls back to DefaultTokenTTL.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token asserting the user's id and username, valid from now
// until now plus the configured lifetime.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	str, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return str, nil
}

// Verify parses and validates a token, returning its claims. Every rejection
// (malformed, tampered, expired, wrong algorithm) is reported as the single
// ErrInvalidToken so callers cannot tell the cases apart.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
