package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapthttp "mapdash/internal/adapter/http"
	"mapdash/internal/adapter/memory"
	"mapdash/internal/app"
	"mapdash/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockGeocoder struct {
	searchFn func(ctx context.Context, query string) ([]domain.Place, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string) ([]domain.Place, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []domain.Place{{Name: "Paris, France", Lat: 48.8566, Lon: 2.3522}}, nil
}

const testSecret = "test-secret"

func newTestHandler(geo domain.Geocoder) http.Handler {
	store := memory.New()
	hasher := app.NewPasswordHasher(bcrypt.MinCost)
	tokens := app.NewTokenService([]byte(testSecret), time.Hour)
	authSvc := app.NewAuthService(store, hasher, tokens)
	if geo == nil {
		geo = &mockGeocoder{}
	}
	return adapthttp.New(authSvc, app.NewDashboardService(), app.NewMapService(geo), nil, nil).Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func getWithToken(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestSignupLoginDashboardScenario(t *testing.T) {
	h := newTestHandler(nil)

	// Signup.
	w := postJSON(t, h, "/api/signup", map[string]string{"username": "alice", "password": "s3cret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" || user["id"] != float64(1) {
		t.Errorf("unexpected signup user: %v", body["user"])
	}

	// Duplicate signup conflicts regardless of password.
	w = postJSON(t, h, "/api/signup", map[string]string{"username": "alice", "password": "other"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", w.Code)
	}
	if decodeBody(t, w)["code"] != "duplicate_username" {
		t.Errorf("expected duplicate_username code, got %s", w.Body.String())
	}

	// Login.
	w = postJSON(t, h, "/api/login", map[string]string{"username": "alice", "password": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}

	// Dashboard with the token.
	w = getWithToken(h, "/api/dashboard", token)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", w.Code)
	}
	cards, _ := decodeBody(t, w)["cards"].([]any)
	if len(cards) != 3 {
		t.Errorf("expected 3 cards, got %d", len(cards))
	}

	// Dashboard with no header.
	w = getWithToken(h, "/api/dashboard", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	h := newTestHandler(nil)

	for _, body := range []map[string]string{
		{"username": "alice"},
		{"password": "s3cret"},
		{},
	} {
		w := postJSON(t, h, "/api/signup", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("signup %v: expected 400, got %d", body, w.Code)
		}
	}
}

func TestLogin_InvalidCredentialsAreUniform(t *testing.T) {
	h := newTestHandler(nil)
	postJSON(t, h, "/api/signup", map[string]string{"username": "alice", "password": "s3cret"})

	wrongPassword := postJSON(t, h, "/api/login", map[string]string{"username": "alice", "password": "wrong"})
	unknownUser := postJSON(t, h, "/api/login", map[string]string{"username": "nobody", "password": "wrong"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestDashboard_InvalidAndExpiredTokens(t *testing.T) {
	h := newTestHandler(nil)
	postJSON(t, h, "/api/signup", map[string]string{"username": "alice", "password": "s3cret"})

	// Garbage token.
	w := getWithToken(h, "/api/dashboard", "not-a-token")
	if w.Code != http.StatusForbidden {
		t.Errorf("garbage token: expected 403, got %d", w.Code)
	}

	// Expired token signed with the same secret.
	expired := app.NewTokenService([]byte(testSecret), -time.Minute)
	token, err := expired.Issue(&domain.User{ID: 1, Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w = getWithToken(h, "/api/dashboard", token)
	if w.Code != http.StatusForbidden {
		t.Errorf("expired token: expected 403, got %d", w.Code)
	}
	if decodeBody(t, w)["code"] != "invalid_token" {
		t.Errorf("expected invalid_token code, got %s", w.Body.String())
	}
}

func TestMapEndpoints(t *testing.T) {
	h := newTestHandler(&mockGeocoder{
		searchFn: func(ctx context.Context, query string) ([]domain.Place, error) {
			if query != "Paris" {
				t.Errorf("expected query 'Paris', got %q", query)
			}
			return []domain.Place{{Name: "Paris, France", Lat: 48.8566, Lon: 2.3522}}, nil
		},
	})

	postJSON(t, h, "/api/signup", map[string]string{"username": "alice", "password": "s3cret"})
	w := postJSON(t, h, "/api/login", map[string]string{"username": "alice", "password": "s3cret"})
	token, _ := decodeBody(t, w)["token"].(string)

	// Map config.
	w = getWithToken(h, "/api/map", token)
	if w.Code != http.StatusOK {
		t.Fatalf("map: expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	center, _ := body["center"].([]any)
	if len(center) != 2 || center[0] != 20.5937 || center[1] != 78.9629 {
		t.Errorf("unexpected center: %v", body["center"])
	}
	if body["zoom"] != float64(5) {
		t.Errorf("expected zoom 5, got %v", body["zoom"])
	}
	if markers, _ := body["markers"].([]any); len(markers) == 0 {
		t.Error("expected at least one marker")
	}

	// Map requires auth.
	if w := getWithToken(h, "/api/map", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("map without token: expected 401, got %d", w.Code)
	}

	// City search.
	w = getWithToken(h, "/api/map/search?q=Paris", token)
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", w.Code)
	}
	results, _ := decodeBody(t, w)["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Empty query.
	if w := getWithToken(h, "/api/map/search", token); w.Code != http.StatusBadRequest {
		t.Errorf("empty query: expected 400, got %d", w.Code)
	}
}

func TestHealthAndConfig(t *testing.T) {
	h := newTestHandler(nil)

	w := getWithToken(h, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["ok"] != true {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}

	w = getWithToken(h, "/api/config", "")
	if w.Code != http.StatusOK {
		t.Errorf("config: expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["sso_enabled"] != false {
		t.Errorf("expected sso_enabled false, got %s", w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/signup", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/signup: expected 405, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	store := memory.New()
	hasher := app.NewPasswordHasher(bcrypt.MinCost)
	tokens := app.NewTokenService([]byte(testSecret), time.Hour)
	authSvc := app.NewAuthService(store, hasher, tokens)
	h := adapthttp.New(authSvc, app.NewDashboardService(), app.NewMapService(&mockGeocoder{}), nil,
		[]string{"https://app.example.com"}).Handler()

	// Preflight from an allowed origin.
	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allow-origin header, got %q", got)
	}

	// Unknown origin gets no allow headers.
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}
