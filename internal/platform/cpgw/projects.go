package cpgw

import (
	"context"
	"fmt"
	"net/http"
)

const managementPath = "/management"

// ProjectEditorRole is the fixed role minted onto project API keys.
const ProjectEditorRole = "ProjectEditor"

// Project is a management-plane project, the scope under which data-plane
// API keys live.
type Project struct {
	ID string `json:"id"`
}

type createProjectRequest struct {
	Name string `json:"name"`
}

// ProjectAPIKey is a data-plane key minted under a project.
type ProjectAPIKey struct {
	Key struct {
		ID        string `json:"id"`
		ProjectID string `json:"project_id"`
	} `json:"key"`
	Value string `json:"value"`
}

type createProjectAPIKeyRequest struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// CreateProject creates a project under the given organization. Requires
// client-credentials (bearer) auth.
func (c *Client) CreateProject(ctx context.Context, orgID, name string) (*Project, error) {
	var project Project
	req := createProjectRequest{Name: name}
	path := fmt.Sprintf("%s/organizations/%s/projects", managementPath, orgID)
	if err := c.request(ctx, http.MethodPost, path, req, &project); err != nil {
		return nil, fmt.Errorf("create project %s: %w", name, err)
	}
	return &project, nil
}

// CreateProjectAPIKey mints a key under the project with the fixed
// ProjectEditor role.
func (c *Client) CreateProjectAPIKey(ctx context.Context, projectID, name string) (*ProjectAPIKey, error) {
	var key ProjectAPIKey
	req := createProjectAPIKeyRequest{Name: name, Roles: []string{ProjectEditorRole}}
	path := fmt.Sprintf("%s/projects/%s/api-keys", managementPath, projectID)
	if err := c.request(ctx, http.MethodPost, path, req, &key); err != nil {
		return nil, fmt.Errorf("create api key %s: %w", name, err)
	}
	return &key, nil
}

// DeleteProject removes a project and revokes every key minted under it.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	path := fmt.Sprintf("%s/projects/%s", managementPath, projectID)
	if err := c.request(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}
