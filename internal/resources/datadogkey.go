package resources

import (
	"context"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type datadogAPI interface {
	CreateDatadogAPIKey(ctx context.Context) (*cpgw.DatadogAPIKey, error)
	DeleteDatadogAPIKey(ctx context.Context, keyID string) error
}

// DatadogAPIKeyInputs is empty: the key is scoped entirely by the gateway
// credential the client was built with.
type DatadogAPIKeyInputs struct{}

// DatadogAPIKeyOutputs records the minted key and the id used to revoke it.
type DatadogAPIKeyOutputs struct {
	APIKey string `json:"api_key"`
	KeyID  string `json:"key_id"`
}

// DatadogAPIKeyProvider manages the per-environment Datadog ingestion key.
type DatadogAPIKeyProvider struct {
	api datadogAPI
}

func NewDatadogAPIKeyProvider(api datadogAPI) *DatadogAPIKeyProvider {
	return &DatadogAPIKeyProvider{api: api}
}

func (p *DatadogAPIKeyProvider) Create(ctx context.Context, _ DatadogAPIKeyInputs) (string, DatadogAPIKeyOutputs, error) {
	key, err := p.api.CreateDatadogAPIKey(ctx)
	if err != nil {
		return "", DatadogAPIKeyOutputs{}, err
	}
	return key.KeyID, DatadogAPIKeyOutputs{APIKey: key.APIKey, KeyID: key.KeyID}, nil
}

func (p *DatadogAPIKeyProvider) Diff(_ context.Context, _ string, olds DatadogAPIKeyOutputs, _ DatadogAPIKeyInputs) (lifecycle.Diff, error) {
	if olds.KeyID == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"key_id"}}, nil
	}
	return lifecycle.Diff{}, nil
}

func (p *DatadogAPIKeyProvider) Update(_ context.Context, _ string, olds DatadogAPIKeyOutputs, _ DatadogAPIKeyInputs) (DatadogAPIKeyOutputs, error) {
	return olds, nil
}

// Delete revokes by the recorded key id rather than the resource id so a
// record imported from an older state file still deletes correctly.
func (p *DatadogAPIKeyProvider) Delete(ctx context.Context, _ string, outputs DatadogAPIKeyOutputs) error {
	if outputs.KeyID == "" {
		return nil
	}
	if err := p.api.DeleteDatadogAPIKey(ctx, outputs.KeyID); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
