package resources

import (
	"context"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type serviceAccountAPI interface {
	CreateServiceAccount(ctx context.Context, name string) (*cpgw.ServiceAccount, error)
	DeleteServiceAccount(ctx context.Context, id string) error
}

// ServiceAccountInputs is the desired service account.
type ServiceAccountInputs struct {
	Name string `json:"name"`
}

// ServiceAccountOutputs records the OAuth client credentials minted for the
// account. The secret is only returned at creation time.
type ServiceAccountOutputs struct {
	ServiceAccountInputs
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// ServiceAccountProvider manages the service account used for management
// plane access.
type ServiceAccountProvider struct {
	api serviceAccountAPI
}

func NewServiceAccountProvider(api serviceAccountAPI) *ServiceAccountProvider {
	return &ServiceAccountProvider{api: api}
}

func (p *ServiceAccountProvider) Create(ctx context.Context, inputs ServiceAccountInputs) (string, ServiceAccountOutputs, error) {
	sa, err := p.api.CreateServiceAccount(ctx, inputs.Name)
	if err != nil {
		return "", ServiceAccountOutputs{}, err
	}
	return sa.ID, ServiceAccountOutputs{
		ServiceAccountInputs: inputs,
		ClientID:             sa.ClientID,
		ClientSecret:         sa.ClientSecret,
	}, nil
}

func (p *ServiceAccountProvider) Diff(_ context.Context, _ string, olds ServiceAccountOutputs, news ServiceAccountInputs) (lifecycle.Diff, error) {
	// Credentials cannot be re-read after creation, so a record missing
	// them has to be replaced.
	if olds.ClientID == "" || olds.ClientSecret == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"client_id"}}, nil
	}
	if olds.Name != news.Name {
		return lifecycle.Diff{Changed: true, Replaces: []string{"name"}}, nil
	}
	return lifecycle.Diff{}, nil
}

func (p *ServiceAccountProvider) Update(_ context.Context, _ string, olds ServiceAccountOutputs, news ServiceAccountInputs) (ServiceAccountOutputs, error) {
	olds.ServiceAccountInputs = news
	return olds, nil
}

func (p *ServiceAccountProvider) Delete(ctx context.Context, id string, _ ServiceAccountOutputs) error {
	if err := p.api.DeleteServiceAccount(ctx, id); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
