package resources

import (
	"context"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type cpgwKeyAPI interface {
	CreateCpgwAPIKey(ctx context.Context, environment string) (*cpgw.CpgwAPIKey, error)
	DeleteCpgwAPIKey(ctx context.Context, id string) error
}

// CpgwAPIKeyInputs names the environment the gateway key is scoped to.
type CpgwAPIKeyInputs struct {
	Environment string `json:"environment"`
}

// CpgwAPIKeyOutputs records the minted key. The key value is only returned
// at creation time and cannot be recovered later.
type CpgwAPIKeyOutputs struct {
	CpgwAPIKeyInputs
	Key string `json:"key"`
}

// CpgwAPIKeyProvider manages the environment-scoped gateway key that
// authenticates all later infra calls for the environment.
type CpgwAPIKeyProvider struct {
	api cpgwKeyAPI
}

func NewCpgwAPIKeyProvider(api cpgwKeyAPI) *CpgwAPIKeyProvider {
	return &CpgwAPIKeyProvider{api: api}
}

func (p *CpgwAPIKeyProvider) Create(ctx context.Context, inputs CpgwAPIKeyInputs) (string, CpgwAPIKeyOutputs, error) {
	key, err := p.api.CreateCpgwAPIKey(ctx, inputs.Environment)
	if err != nil {
		return "", CpgwAPIKeyOutputs{}, err
	}
	return key.ID, CpgwAPIKeyOutputs{CpgwAPIKeyInputs: inputs, Key: key.Key}, nil
}

func (p *CpgwAPIKeyProvider) Diff(_ context.Context, _ string, olds CpgwAPIKeyOutputs, news CpgwAPIKeyInputs) (lifecycle.Diff, error) {
	// An unrecoverable key value means the record is useless downstream.
	if olds.Key == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"key"}}, nil
	}
	if olds.Environment != news.Environment {
		return lifecycle.Diff{Changed: true, Replaces: []string{"environment"}}, nil
	}
	return lifecycle.Diff{}, nil
}

func (p *CpgwAPIKeyProvider) Update(_ context.Context, _ string, olds CpgwAPIKeyOutputs, news CpgwAPIKeyInputs) (CpgwAPIKeyOutputs, error) {
	olds.CpgwAPIKeyInputs = news
	return olds, nil
}

func (p *CpgwAPIKeyProvider) Delete(ctx context.Context, id string, _ CpgwAPIKeyOutputs) error {
	if err := p.api.DeleteCpgwAPIKey(ctx, id); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
