package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

// DatadogAPIKey is a vendor-metrics credential minted for the environment
// implied by the caller's cpgw key.
type DatadogAPIKey struct {
	APIKey string `json:"api_key"`
	KeyID  string `json:"key_id"`
}

type deleteDatadogAPIKeyRequest struct {
	KeyID string `json:"key_id"`
}

type deleteDatadogAPIKeyResponse struct {
	Deleted bool `json:"deleted"`
}

// CreateDatadogAPIKey mints a Datadog key. The create takes no body; the
// target environment is implied by the credentials.
func (c *Client) CreateDatadogAPIKey(ctx context.Context) (*DatadogAPIKey, error) {
	var key DatadogAPIKey
	if err := c.request(ctx, http.MethodPost, infraPath+"/datadog-credentials", nil, &key); err != nil {
		return nil, fmt.Errorf("create datadog api key: %w", err)
	}
	return &key, nil
}

// DeleteDatadogAPIKey revokes a Datadog key by key id.
func (c *Client) DeleteDatadogAPIKey(ctx context.Context, keyID string) error {
	req := deleteDatadogAPIKeyRequest{KeyID: keyID}
	var resp deleteDatadogAPIKeyResponse
	if err := c.request(ctx, http.MethodPost, infraPath+"/datadog-credentials/delete", req, &resp); err != nil {
		return fmt.Errorf("delete datadog api key %s: %w", keyID, err)
	}
	return nil
}
