package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

// CpgwAPIKey is an environment-scoped credential for the cpgw-internal
// routes. Everything bootstrapped after the environment authenticates
// with one of these instead of the operator's admin key.
type CpgwAPIKey struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type createCpgwAPIKeyRequest struct {
	Environment string `json:"environment"`
}

// CreateCpgwAPIKey mints a key scoped to the named environment. Requires
// admin-key credentials.
func (c *Client) CreateCpgwAPIKey(ctx context.Context, environment string) (*CpgwAPIKey, error) {
	var key CpgwAPIKey
	req := createCpgwAPIKeyRequest{Environment: environment}
	if err := c.request(ctx, http.MethodPost, bootstrapPath+"/cpgw-api-keys", req, &key); err != nil {
		return nil, fmt.Errorf("create cpgw api key for environment %s: %w", environment, err)
	}
	return &key, nil
}

// DeleteCpgwAPIKey revokes a cpgw API key by id.
func (c *Client) DeleteCpgwAPIKey(ctx context.Context, id string) error {
	if err := c.request(ctx, http.MethodDelete, bootstrapPath+"/cpgw-api-keys/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete cpgw api key %s: %w", id, err)
	}
	return nil
}
