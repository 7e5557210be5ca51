package cpgw

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Management-plane routes are versioned; bootstrap routes are not.
const (
	apiVersionHeader = "X-Pinecone-Api-Version"
	apiVersion       = "unstable"
)

// Credentials authenticates outgoing control-plane requests. Two schemes
// exist: a static Api-Key header for cpgw-internal routes and a bearer token
// from an OAuth client-credentials exchange for management-plane routes.
type Credentials interface {
	authorize(req *http.Request) error
}

// APIKey authenticates cpgw-internal routes. During bootstrap this is first
// the operator's admin key, then the environment-scoped key minted from it.
type APIKey string

func (k APIKey) authorize(req *http.Request) error {
	req.Header.Set("Api-Key", string(k))
	return nil
}

// ClientCredentials authenticates management-plane routes with a bearer token
// minted from a service account's client id and secret. Tokens are cached
// in memory by the underlying source and refreshed on expiry; nothing is
// persisted.
type ClientCredentials struct {
	source oauth2.TokenSource
}

// NewClientCredentials sets up the client-credentials exchange against
// {authDomain}/oauth/token with the control-plane API as audience.
func NewClientCredentials(ctx context.Context, clientID, clientSecret, authDomain, apiURL string) *ClientCredentials {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     strings.TrimRight(authDomain, "/") + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
		EndpointParams: url.Values{
			"audience": {strings.TrimRight(apiURL, "/") + "/"},
		},
	}
	return &ClientCredentials{source: cfg.TokenSource(ctx)}
}

func (c *ClientCredentials) authorize(req *http.Request) error {
	token, err := c.source.Token()
	if err != nil {
		return fmt.Errorf("fetch access token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set(apiVersionHeader, apiVersion)
	return nil
}
