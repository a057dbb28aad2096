package adapthttp

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OIDCConfig holds the optional SSO login configuration. A zero value means
// SSO is disabled and the SSO routes answer 404.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
	// PostLoginURL is where the browser is sent after a successful
	// callback, with the bearer token in the URL fragment.
	PostLoginURL string
}

// NewOIDCConfig discovers the issuer and builds the OAuth2 client config.
func NewOIDCConfig(ctx context.Context, issuer, clientID, clientSecret, redirectURL, postLoginURL string) (*OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	if postLoginURL == "" {
		postLoginURL = "/"
	}

	return &OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		PostLoginURL: postLoginURL,
	}, nil
}
