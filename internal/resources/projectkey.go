package resources

import (
	"context"
	"fmt"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type projectKeyAPI interface {
	CreateProject(ctx context.Context, orgID, name string) (*cpgw.Project, error)
	CreateProjectAPIKey(ctx context.Context, projectID, name string) (*cpgw.ProjectAPIKey, error)
	DeleteProject(ctx context.Context, projectID string) error
}

// ProjectAPIKeyInputs describes a project and the key to mint inside it.
type ProjectAPIKeyInputs struct {
	OrganizationID string `json:"organization_id"`
	ProjectName    string `json:"project_name"`
	KeyName        string `json:"key_name"`
}

// ProjectAPIKeyOutputs records the project and the key minted for it. The
// key value is only returned at creation time.
type ProjectAPIKeyOutputs struct {
	ProjectAPIKeyInputs
	ProjectID string `json:"project_id"`
	APIKeyID  string `json:"api_key_id"`
	Value     string `json:"value"`
}

// ProjectAPIKeyProvider creates a project and mints an editor key scoped to
// it. The resource id is the project id; deleting the resource deletes the
// whole project, which revokes the key with it.
type ProjectAPIKeyProvider struct {
	api projectKeyAPI
}

func NewProjectAPIKeyProvider(api projectKeyAPI) *ProjectAPIKeyProvider {
	return &ProjectAPIKeyProvider{api: api}
}

// Create runs the two remote steps and keeps an ordered list of compensating
// deletes for the steps that succeeded. On failure the compensations run in
// reverse; their errors are noted on the returned error but never replace
// the error that triggered them.
func (p *ProjectAPIKeyProvider) Create(ctx context.Context, inputs ProjectAPIKeyInputs) (string, ProjectAPIKeyOutputs, error) {
	var cleanups []func(context.Context) error
	fail := func(err error) (string, ProjectAPIKeyOutputs, error) {
		for i := len(cleanups) - 1; i >= 0; i-- {
			if cerr := cleanups[i](ctx); cerr != nil {
				err = fmt.Errorf("%w (cleanup failed: %v)", err, cerr)
			}
		}
		return "", ProjectAPIKeyOutputs{}, err
	}

	project, err := p.api.CreateProject(ctx, inputs.OrganizationID, inputs.ProjectName)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func(ctx context.Context) error {
		return p.api.DeleteProject(ctx, project.ID)
	})

	key, err := p.api.CreateProjectAPIKey(ctx, project.ID, inputs.KeyName)
	if err != nil {
		return fail(err)
	}

	return key.Key.ProjectID, ProjectAPIKeyOutputs{
		ProjectAPIKeyInputs: inputs,
		ProjectID:           key.Key.ProjectID,
		APIKeyID:            key.Key.ID,
		Value:               key.Value,
	}, nil
}

func (p *ProjectAPIKeyProvider) Diff(_ context.Context, _ string, olds ProjectAPIKeyOutputs, news ProjectAPIKeyInputs) (lifecycle.Diff, error) {
	// The key value is unrecoverable, so a record without one must be
	// replaced.
	if olds.Value == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"value"}}, nil
	}
	var replaces []string
	if olds.ProjectName != news.ProjectName {
		replaces = append(replaces, "project_name")
	}
	if olds.KeyName != news.KeyName {
		replaces = append(replaces, "key_name")
	}
	if olds.OrganizationID != news.OrganizationID {
		replaces = append(replaces, "organization_id")
	}
	return lifecycle.Diff{Changed: len(replaces) > 0, Replaces: replaces}, nil
}

func (p *ProjectAPIKeyProvider) Update(_ context.Context, _ string, olds ProjectAPIKeyOutputs, news ProjectAPIKeyInputs) (ProjectAPIKeyOutputs, error) {
	olds.ProjectAPIKeyInputs = news
	return olds, nil
}

func (p *ProjectAPIKeyProvider) Delete(ctx context.Context, id string, _ ProjectAPIKeyOutputs) error {
	if err := p.api.DeleteProject(ctx, id); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
