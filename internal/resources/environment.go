package resources

import (
	"context"
	"strings"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type environmentAPI interface {
	CreateEnvironment(ctx context.Context, req cpgw.CreateEnvironmentRequest) (*cpgw.Environment, error)
	DeleteEnvironment(ctx context.Context, id string) error
}

// EnvironmentInputs is the desired registration of a BYOC environment with
// the control plane.
type EnvironmentInputs struct {
	Cloud     string `json:"cloud"`
	Region    string `json:"region"`
	GlobalEnv string `json:"global_env"`
}

// EnvironmentOutputs records the identity the control plane minted for the
// environment. Name and organization are assigned remotely and never appear
// in configuration.
type EnvironmentOutputs struct {
	EnvironmentInputs
	EnvName          string `json:"env_name"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
}

// EnvironmentProvider manages the environment registration. The environment
// is immutable: any input change forces a replacement.
type EnvironmentProvider struct {
	api environmentAPI
}

func NewEnvironmentProvider(api environmentAPI) *EnvironmentProvider {
	return &EnvironmentProvider{api: api}
}

func (p *EnvironmentProvider) Create(ctx context.Context, inputs EnvironmentInputs) (string, EnvironmentOutputs, error) {
	env, err := p.api.CreateEnvironment(ctx, cpgw.CreateEnvironmentRequest{
		Cloud:     inputs.Cloud,
		Region:    inputs.Region,
		GlobalEnv: inputs.GlobalEnv,
	})
	if err != nil {
		return "", EnvironmentOutputs{}, err
	}
	return env.ID, EnvironmentOutputs{
		EnvironmentInputs: inputs,
		EnvName:           env.Name,
		OrganizationID:    env.OrganizationID,
		OrganizationName:  env.OrganizationName,
	}, nil
}

func (p *EnvironmentProvider) Diff(_ context.Context, _ string, olds EnvironmentOutputs, news EnvironmentInputs) (lifecycle.Diff, error) {
	// A record without an environment name is corrupted state and can only
	// be repaired by recreating the environment.
	if olds.EnvName == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"env_name"}}, nil
	}
	var replaces []string
	if !strings.EqualFold(olds.Cloud, news.Cloud) {
		replaces = append(replaces, "cloud")
	}
	if olds.Region != news.Region {
		replaces = append(replaces, "region")
	}
	if olds.GlobalEnv != news.GlobalEnv {
		replaces = append(replaces, "global_env")
	}
	return lifecycle.Diff{Changed: len(replaces) > 0, Replaces: replaces}, nil
}

func (p *EnvironmentProvider) Update(_ context.Context, _ string, olds EnvironmentOutputs, news EnvironmentInputs) (EnvironmentOutputs, error) {
	olds.EnvironmentInputs = news
	return olds, nil
}

func (p *EnvironmentProvider) Delete(ctx context.Context, id string, _ EnvironmentOutputs) error {
	if err := p.api.DeleteEnvironment(ctx, id); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
