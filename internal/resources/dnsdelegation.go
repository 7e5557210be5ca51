package resources

import (
	"context"
	"slices"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type dnsAPI interface {
	CreateDNSDelegation(ctx context.Context, req cpgw.DNSDelegationRequest) (*cpgw.DNSDelegation, error)
	DeleteDNSDelegation(ctx context.Context, req cpgw.DNSDelegationRequest) (*cpgw.DNSDelegation, error)
}

// DNSDelegationInputs is the subdomain to delegate and the nameservers the
// delegation points at.
type DNSDelegationInputs struct {
	Subdomain   string   `json:"subdomain"`
	Nameservers []string `json:"nameservers"`
}

// DNSDelegationOutputs embeds the inputs the delegation was created with.
// The control plane keys delegations by value, so a later delete must replay
// exactly these values rather than ones recomputed from configuration.
type DNSDelegationOutputs struct {
	DNSDelegationInputs
	FQDN     string `json:"fqdn"`
	ChangeID string `json:"change_id"`
}

// DNSDelegationProvider manages the NS delegation for the environment's
// subdomain. Nameserver changes are applied in place by re-creating the
// delegation; a subdomain change replaces the resource.
type DNSDelegationProvider struct {
	api dnsAPI
}

func NewDNSDelegationProvider(api dnsAPI) *DNSDelegationProvider {
	return &DNSDelegationProvider{api: api}
}

func (p *DNSDelegationProvider) Create(ctx context.Context, inputs DNSDelegationInputs) (string, DNSDelegationOutputs, error) {
	result, err := p.api.CreateDNSDelegation(ctx, cpgw.DNSDelegationRequest{
		Subdomain:   inputs.Subdomain,
		Nameservers: inputs.Nameservers,
	})
	if err != nil {
		return "", DNSDelegationOutputs{}, err
	}
	return result.FQDN, DNSDelegationOutputs{
		DNSDelegationInputs: inputs,
		FQDN:                result.FQDN,
		ChangeID:            result.ChangeID,
	}, nil
}

func (p *DNSDelegationProvider) Diff(_ context.Context, _ string, olds DNSDelegationOutputs, news DNSDelegationInputs) (lifecycle.Diff, error) {
	if olds.Subdomain != news.Subdomain {
		return lifecycle.Diff{Changed: true, Replaces: []string{"subdomain"}}, nil
	}
	if !slices.Equal(olds.Nameservers, news.Nameservers) {
		return lifecycle.Diff{Changed: true}, nil
	}
	return lifecycle.Diff{}, nil
}

// Update re-creates the delegation with the new nameserver set. The remote
// side upserts by subdomain, so no delete of the old set is needed.
func (p *DNSDelegationProvider) Update(ctx context.Context, _ string, _ DNSDelegationOutputs, news DNSDelegationInputs) (DNSDelegationOutputs, error) {
	result, err := p.api.CreateDNSDelegation(ctx, cpgw.DNSDelegationRequest{
		Subdomain:   news.Subdomain,
		Nameservers: news.Nameservers,
	})
	if err != nil {
		return DNSDelegationOutputs{}, err
	}
	return DNSDelegationOutputs{
		DNSDelegationInputs: news,
		FQDN:                result.FQDN,
		ChangeID:            result.ChangeID,
	}, nil
}

func (p *DNSDelegationProvider) Delete(ctx context.Context, _ string, outputs DNSDelegationOutputs) error {
	// Without the recorded pair the delete would target the wrong
	// delegation, so a corrupted record is left alone.
	if outputs.Subdomain == "" || len(outputs.Nameservers) == 0 {
		return nil
	}
	_, err := p.api.DeleteDNSDelegation(ctx, cpgw.DNSDelegationRequest{
		Subdomain:   outputs.Subdomain,
		Nameservers: outputs.Nameservers,
	})
	if err != nil && !cpgw.IsNotFound(err) {
		return err
	}
	return nil
}
