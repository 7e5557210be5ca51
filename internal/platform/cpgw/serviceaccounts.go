package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

const infraPath = "/internal/cpgw/infra"

// ServiceAccount holds the OAuth client credentials minted for machine
// access to the management plane.
type ServiceAccount struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type createServiceAccountRequest struct {
	Name string `json:"name"`
}

// CreateServiceAccount creates a named service account under the
// organization implied by the caller's cpgw key.
func (c *Client) CreateServiceAccount(ctx context.Context, name string) (*ServiceAccount, error) {
	var sa ServiceAccount
	req := createServiceAccountRequest{Name: name}
	if err := c.request(ctx, http.MethodPost, infraPath+"/service-accounts", req, &sa); err != nil {
		return nil, fmt.Errorf("create service account %s: %w", name, err)
	}
	return &sa, nil
}

// DeleteServiceAccount removes a service account by id.
func (c *Client) DeleteServiceAccount(ctx context.Context, id string) error {
	if err := c.request(ctx, http.MethodDelete, infraPath+"/service-accounts/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete service account %s: %w", id, err)
	}
	return nil
}
