package resources

import (
	"context"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type ampAPI interface {
	CreateAMPAccess(ctx context.Context, workloadRoleARN string) (*cpgw.AMPAccess, error)
	DeleteAMPAccess(ctx context.Context, workloadRoleARN string) error
}

// AMPAccessInputs names the workload role that should be allowed to remote
// write into the managed Prometheus workspace.
type AMPAccessInputs struct {
	WorkloadRoleARN string `json:"workload_role_arn"`
}

// AMPAccessOutputs records the federation grant. The grant is keyed by the
// workload role, which is why the inputs are embedded for delete.
type AMPAccessOutputs struct {
	AMPAccessInputs
	PineconeRoleARN     string `json:"pinecone_role_arn"`
	RemoteWriteEndpoint string `json:"amp_remote_write_endpoint"`
	Region              string `json:"amp_region"`
}

// AMPAccessProvider manages the cross-account metrics federation grant.
type AMPAccessProvider struct {
	api ampAPI
}

func NewAMPAccessProvider(api ampAPI) *AMPAccessProvider {
	return &AMPAccessProvider{api: api}
}

func (p *AMPAccessProvider) Create(ctx context.Context, inputs AMPAccessInputs) (string, AMPAccessOutputs, error) {
	grant, err := p.api.CreateAMPAccess(ctx, inputs.WorkloadRoleARN)
	if err != nil {
		return "", AMPAccessOutputs{}, err
	}
	return inputs.WorkloadRoleARN, AMPAccessOutputs{
		AMPAccessInputs:     inputs,
		PineconeRoleARN:     grant.PineconeRoleARN,
		RemoteWriteEndpoint: grant.AMPRemoteWriteEndpoint,
		Region:              grant.AMPRegion,
	}, nil
}

func (p *AMPAccessProvider) Diff(_ context.Context, _ string, olds AMPAccessOutputs, news AMPAccessInputs) (lifecycle.Diff, error) {
	if olds.PineconeRoleARN == "" {
		return lifecycle.Diff{Changed: true, Replaces: []string{"pinecone_role_arn"}}, nil
	}
	if olds.WorkloadRoleARN != news.WorkloadRoleARN {
		return lifecycle.Diff{Changed: true, Replaces: []string{"workload_role_arn"}}, nil
	}
	return lifecycle.Diff{}, nil
}

func (p *AMPAccessProvider) Update(_ context.Context, _ string, olds AMPAccessOutputs, news AMPAccessInputs) (AMPAccessOutputs, error) {
	olds.AMPAccessInputs = news
	return olds, nil
}

func (p *AMPAccessProvider) Delete(ctx context.Context, _ string, outputs AMPAccessOutputs) error {
	if outputs.WorkloadRoleARN == "" {
		return nil
	}
	if err := p.api.DeleteAMPAccess(ctx, outputs.WorkloadRoleARN); err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
