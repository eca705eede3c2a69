package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// defaultScope grants whatever application permissions the app registration
// carries on the Graph API.
const defaultScope = "https://graph.microsoft.com/.default"

// TokenProvider exchanges tenant/client credentials for bearer access
// tokens via the OAuth2 client-credentials grant. Each AcquireToken call
// performs a fresh exchange; tokens are never cached or reused across
// requests.
type TokenProvider struct {
	conf       *clientcredentials.Config
	httpClient *http.Client
}

// NewTokenProvider builds a provider against the given login authority,
// typically "https://login.microsoftonline.com". httpClient may be nil.
func NewTokenProvider(loginBaseURL, tenantID, clientID, clientSecret string, httpClient *http.Client) *TokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(loginBaseURL, "/"), tenantID),
			Scopes:       []string{defaultScope},
			// Microsoft expects the client credentials in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
	}
}

// AcquireToken performs one token exchange and returns the bearer token.
// A non-success reply, a network failure, or a response without an
// access_token field all surface as errors.
func (p *TokenProvider) AcquireToken(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("graph: token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("graph: token response missing access_token")
	}
	return tok.AccessToken, nil
}
