package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

const bootstrapPath = "/internal/cpgw/infra/bootstrap"

// Environment is the tenant identity record the control plane mints for one
// BYOC deployment. Organization identity is derived from the caller's admin
// key and returned alongside the generated environment name.
type Environment struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
}

// CreateEnvironmentRequest registers a new tenant environment.
type CreateEnvironmentRequest struct {
	Cloud     string `json:"cloud"`
	Region    string `json:"region"`
	GlobalEnv string `json:"global_env"`
}

// CreateEnvironment registers the deployment with the control plane.
func (c *Client) CreateEnvironment(ctx context.Context, req CreateEnvironmentRequest) (*Environment, error) {
	var env Environment
	if err := c.request(ctx, http.MethodPost, bootstrapPath+"/environments", req, &env); err != nil {
		return nil, fmt.Errorf("create environment: %w", err)
	}
	return &env, nil
}

// DeleteEnvironment removes a tenant environment by id.
func (c *Client) DeleteEnvironment(ctx context.Context, id string) error {
	if err := c.request(ctx, http.MethodDelete, bootstrapPath+"/environments/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete environment %s: %w", id, err)
	}
	return nil
}
