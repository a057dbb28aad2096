package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	adapthttp "mapdash/internal/adapter/http"
	"mapdash/internal/adapter/memory"
	"mapdash/internal/adapter/nominatim"
	"mapdash/internal/app"
)

func main() {
	addr := env("ADDR", ":8080")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(env("TOKEN_TTL", "1h"))
	if err != nil {
		log.Fatalf("invalid TOKEN_TTL: %v", err)
	}

	cost, err := strconv.Atoi(env("BCRYPT_COST", strconv.Itoa(app.DefaultBcryptCost)))
	if err != nil {
		log.Fatalf("invalid BCRYPT_COST: %v", err)
	}

	store := memory.New()
	hasher := app.NewPasswordHasher(cost)
	tokens := app.NewTokenService([]byte(secret), ttl)
	authSvc := app.NewAuthService(store, hasher, tokens)
	dashboardSvc := app.NewDashboardService()
	mapSvc := app.NewMapService(nominatim.New(os.Getenv("NOMINATIM_URL")))

	var origins []string
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	oidcConfig, err := oidcFromEnv()
	if err != nil {
		log.Fatalf("oidc setup: %v", err)
	}

	h := adapthttp.New(authSvc, dashboardSvc, mapSvc, oidcConfig, origins).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// oidcFromEnv enables SSO only when the full OIDC variable set is present.
func oidcFromEnv() (*adapthttp.OIDCConfig, error) {
	issuer := os.Getenv("OIDC_ISSUER")
	clientID := os.Getenv("OIDC_CLIENT_ID")
	clientSecret := os.Getenv("OIDC_CLIENT_SECRET")
	redirectURL := os.Getenv("OIDC_REDIRECT_URL")
	if issuer == "" || clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return adapthttp.NewOIDCConfig(ctx, issuer, clientID, clientSecret, redirectURL, os.Getenv("OIDC_POST_LOGIN_URL"))
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
