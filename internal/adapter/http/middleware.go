package adapthttp

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"mapdash/internal/app"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the authenticated claims attached by
// authMiddleware, or nil if the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *app.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*app.Claims)
	return claims
}

// authMiddleware gates a handler behind a valid bearer token. A missing or
// malformed Authorization header is 401; a token that fails verification is
// 403.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.Authorize(r.Header.Get("Authorization"))
		if errors.Is(err, app.ErrMissingToken) {
			writeError(w, http.StatusUnauthorized, "missing_token", "authentication required")
			return
		}
		if err != nil {
			writeError(w, http.StatusForbidden, "invalid_token", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs method, path, status and duration for each request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// corsMiddleware sets the allow headers for configured origins and answers
// preflight requests. With no configured origins it is a no-op.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.allowedOrigins {
		if o == origin || o == "*" {
			return true
		}
	}
	return false
}
