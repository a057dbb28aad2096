package adapthttp

import (
	"net/http"

	"mapdash/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth           *app.AuthService
	dashboard      *app.DashboardService
	maps           *app.MapService
	oidcConfig     *OIDCConfig
	allowedOrigins []string
}

// New creates a Server wired to the given application services. oidcConfig
// may be nil when SSO is not configured.
func New(auth *app.AuthService, dashboard *app.DashboardService, maps *app.MapService, oidcConfig *OIDCConfig, allowedOrigins []string) *Server {
	if oidcConfig == nil {
		oidcConfig = &OIDCConfig{}
	}
	return &Server{
		auth:           auth,
		dashboard:      dashboard,
		maps:           maps,
		oidcConfig:     oidcConfig,
		allowedOrigins: allowedOrigins,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/signup", s.handleSignup)
	api.HandleFunc("/login", s.handleLogin)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api.Handle("/dashboard", s.authMiddleware(http.HandlerFunc(s.handleDashboard)))
	api.Handle("/map", s.authMiddleware(http.HandlerFunc(s.handleMap)))
	api.Handle("/map/search", s.authMiddleware(http.HandlerFunc(s.handleMapSearch)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(s.corsMiddleware(withNoCache(root)))
}
