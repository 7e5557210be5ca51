// Package bootstrap orders the control-plane resource steps, records every
// minted resource in the state store and walks the records in reverse on
// destroy. Steps run sequentially; each one is persisted before the next
// starts, so a failed run can be resumed and a destroy always sees every
// resource created so far.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/resources"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/state"
)

// Gateway bundles the control-plane operations the plan dispatches.
// Implemented by *cpgw.Client. The Runner holds three factories rather than
// one client because the credential that authenticates a call is itself
// minted by an earlier step.
type Gateway interface {
	CreateEnvironment(ctx context.Context, req cpgw.CreateEnvironmentRequest) (*cpgw.Environment, error)
	DeleteEnvironment(ctx context.Context, id string) error
	CreateCpgwAPIKey(ctx context.Context, environment string) (*cpgw.CpgwAPIKey, error)
	DeleteCpgwAPIKey(ctx context.Context, id string) error
	CreateServiceAccount(ctx context.Context, name string) (*cpgw.ServiceAccount, error)
	DeleteServiceAccount(ctx context.Context, id string) error
	CreateProject(ctx context.Context, orgID, name string) (*cpgw.Project, error)
	CreateProjectAPIKey(ctx context.Context, projectID, name string) (*cpgw.ProjectAPIKey, error)
	DeleteProject(ctx context.Context, projectID string) error
	CreateDNSDelegation(ctx context.Context, req cpgw.DNSDelegationRequest) (*cpgw.DNSDelegation, error)
	DeleteDNSDelegation(ctx context.Context, req cpgw.DNSDelegationRequest) (*cpgw.DNSDelegation, error)
	CreateAMPAccess(ctx context.Context, workloadRoleARN string) (*cpgw.AMPAccess, error)
	DeleteAMPAccess(ctx context.Context, workloadRoleARN string) error
	CreateDatadogAPIKey(ctx context.Context) (*cpgw.DatadogAPIKey, error)
	DeleteDatadogAPIKey(ctx context.Context, keyID string) error
}

// Runner executes the bootstrap plan against a state store.
type Runner struct {
	Store    *state.Store
	Observer Observer

	// AdminClient authenticates with the operator's Pinecone admin key and
	// serves the environment and gateway-key steps.
	AdminClient func() Gateway
	// InfraClient authenticates with the environment-scoped gateway key
	// minted during bootstrap and serves the remaining infra steps.
	InfraClient func(cpgwKey string) Gateway
	// ManagementClient authenticates with a service account's OAuth client
	// credentials and serves the project/key steps.
	ManagementClient func(ctx context.Context, clientID, clientSecret string) Gateway

	// Uninstaller runs the in-cluster uninstall job at destroy time.
	Uninstaller resources.UninstallRunner
}

// Inputs is the desired deployment, straight from configuration. Identity
// fields (organization, environment name) are minted by the control plane
// and never appear here.
type Inputs struct {
	Cloud     string
	Region    string
	GlobalEnv string

	// Subdomain overrides the delegated subdomain; empty derives it from
	// the minted environment name.
	Subdomain   string
	Nameservers []string

	// WorkloadRoleARN enables the metrics-federation grant when set.
	WorkloadRoleARN string

	// Kubeconfig and PinetoolsImage arm the uninstaller record when set.
	Kubeconfig     string
	PinetoolsImage string
}

// Result collects the non-secret identifiers a bootstrap run minted, for
// the CLI to print. Secrets stay in the state store.
type Result struct {
	EnvironmentID    string
	EnvironmentName  string
	OrganizationID   string
	OrganizationName string
	CellName         string
	ServiceAccountID string
	ProjectID        string
	DelegatedFQDN    string
}

// Apply runs the plan in dependency order:
//
//	environment → cpgw key → {service account, dns, amp, datadog}
//	service account → project key
//	uninstaller last, so the reverse destroy walk runs it first
//
// Recorded steps with unchanged inputs are skipped; a changed input on an
// immutable resource aborts rather than silently replacing it.
func (r *Runner) Apply(ctx context.Context, in Inputs) (*Result, error) {
	admin := r.AdminClient()

	env, err := step(ctx, r, lifecycle.Provider[resources.EnvironmentInputs, resources.EnvironmentOutputs](resources.NewEnvironmentProvider(admin)),
		resources.KindEnvironment, resources.EnvironmentInputs{
			Cloud:     in.Cloud,
			Region:    in.Region,
			GlobalEnv: in.GlobalEnv,
		})
	if err != nil {
		return nil, err
	}

	cell := CellName(env.OrganizationName, env.EnvName)
	res := &Result{
		EnvironmentName:  env.EnvName,
		OrganizationID:   env.OrganizationID,
		OrganizationName: env.OrganizationName,
		CellName:         cell,
	}
	if rec, ok := r.Store.Lookup(resources.KindEnvironment, resources.KindEnvironment); ok {
		res.EnvironmentID = rec.ID
	}

	key, err := step(ctx, r, lifecycle.Provider[resources.CpgwAPIKeyInputs, resources.CpgwAPIKeyOutputs](resources.NewCpgwAPIKeyProvider(admin)),
		resources.KindCpgwAPIKey, resources.CpgwAPIKeyInputs{Environment: env.EnvName})
	if err != nil {
		return nil, err
	}

	infra := r.InfraClient(key.Key)

	sa, err := step(ctx, r, lifecycle.Provider[resources.ServiceAccountInputs, resources.ServiceAccountOutputs](resources.NewServiceAccountProvider(infra)),
		resources.KindServiceAccount, resources.ServiceAccountInputs{Name: ServiceAccountName(cell)})
	if err != nil {
		return nil, err
	}
	if rec, ok := r.Store.Lookup(resources.KindServiceAccount, resources.KindServiceAccount); ok {
		res.ServiceAccountID = rec.ID
	}

	subdomain := in.Subdomain
	if subdomain == "" {
		subdomain = Subdomain(env.EnvName)
	}
	dns, err := step(ctx, r, lifecycle.Provider[resources.DNSDelegationInputs, resources.DNSDelegationOutputs](resources.NewDNSDelegationProvider(infra)),
		resources.KindDNSDelegation, resources.DNSDelegationInputs{
			Subdomain:   subdomain,
			Nameservers: in.Nameservers,
		})
	if err != nil {
		return nil, err
	}
	res.DelegatedFQDN = dns.FQDN

	if in.WorkloadRoleARN != "" {
		if _, err := step(ctx, r, lifecycle.Provider[resources.AMPAccessInputs, resources.AMPAccessOutputs](resources.NewAMPAccessProvider(infra)),
			resources.KindAMPAccess, resources.AMPAccessInputs{WorkloadRoleARN: in.WorkloadRoleARN}); err != nil {
			return nil, err
		}
	}

	if _, err := step(ctx, r, lifecycle.Provider[resources.DatadogAPIKeyInputs, resources.DatadogAPIKeyOutputs](resources.NewDatadogAPIKeyProvider(infra)),
		resources.KindDatadogAPIKey, resources.DatadogAPIKeyInputs{}); err != nil {
		return nil, err
	}

	mgmt := r.ManagementClient(ctx, sa.ClientID, sa.ClientSecret)
	if _, err := step(ctx, r, lifecycle.Provider[resources.ProjectAPIKeyInputs, resources.ProjectAPIKeyOutputs](resources.NewProjectAPIKeyProvider(mgmt)),
		resources.KindProjectAPIKey, resources.ProjectAPIKeyInputs{
			OrganizationID: env.OrganizationID,
			ProjectName:    SLIProjectName,
			KeyName:        APIKeyName(cell),
		}); err != nil {
		return nil, err
	}
	if rec, ok := r.Store.Lookup(resources.KindProjectAPIKey, resources.KindProjectAPIKey); ok {
		res.ProjectID = rec.ID
	}

	if in.Kubeconfig != "" {
		if _, err := step(ctx, r, lifecycle.Provider[resources.UninstallerInputs, resources.UninstallerOutputs](resources.NewUninstallerProvider(r.Uninstaller)),
			resources.KindUninstaller, resources.UninstallerInputs{
				Kubeconfig:     in.Kubeconfig,
				PinetoolsImage: in.PinetoolsImage,
			}); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// step reconciles one resource against its state record: absent creates,
// unchanged skips, in-place changes update, replace-forcing changes abort.
func step[I, O any](ctx context.Context, r *Runner, p lifecycle.Provider[I, O], kind string, inputs I) (O, error) {
	var zero O

	if rec, ok := r.Store.Lookup(kind, kind); ok {
		var olds O
		if len(rec.Outputs) > 0 {
			if err := json.Unmarshal(rec.Outputs, &olds); err != nil {
				return zero, fmt.Errorf("decode recorded %s outputs: %w", kind, err)
			}
		}

		diff, err := p.Diff(ctx, rec.ID, olds, inputs)
		if err != nil {
			return zero, fmt.Errorf("diff %s: %w", kind, err)
		}

		switch {
		case !diff.Changed:
			r.Observer.Event(Event{Type: EventResourceExists, Step: kind, Resource: rec.ID})
			return olds, nil
		case diff.RequiresReplace():
			err := fmt.Errorf("%s: %s changed but the resource is immutable; destroy before changing it", kind, strings.Join(diff.Replaces, ", "))
			r.Observer.Event(Event{Type: EventResourceFailed, Step: kind, Resource: rec.ID, Message: err.Error()})
			return zero, err
		default:
			outs, err := p.Update(ctx, rec.ID, olds, inputs)
			if err != nil {
				r.Observer.Event(Event{Type: EventResourceFailed, Step: kind, Resource: rec.ID, Message: err.Error()})
				return zero, fmt.Errorf("update %s: %w", kind, err)
			}
			if err := r.record(ctx, kind, rec.ID, inputs, outs); err != nil {
				return zero, err
			}
			r.Observer.Event(Event{Type: EventResourceUpdated, Step: kind, Resource: rec.ID})
			return outs, nil
		}
	}

	r.Observer.Event(Event{Type: EventResourceCreating, Step: kind})
	id, outs, err := p.Create(ctx, inputs)
	if err != nil {
		r.Observer.Event(Event{Type: EventResourceFailed, Step: kind, Message: err.Error()})
		return zero, fmt.Errorf("create %s: %w", kind, err)
	}
	if err := r.record(ctx, kind, id, inputs, outs); err != nil {
		// The resource exists remotely but is not recorded; surface the id
		// so the operator can reconcile by hand.
		return zero, fmt.Errorf("%s %s created but not recorded: %w", kind, id, err)
	}
	r.Observer.Event(Event{Type: EventResourceCreated, Step: kind, Resource: id})
	return outs, nil
}

func (r *Runner) record(ctx context.Context, kind, id string, inputs, outputs any) error {
	rawIn, err := json.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("encode %s inputs: %w", kind, err)
	}
	rawOut, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("encode %s outputs: %w", kind, err)
	}
	return r.Store.Put(ctx, state.Record{
		Kind:    kind,
		Name:    kind,
		ID:      id,
		Inputs:  rawIn,
		Outputs: rawOut,
	})
}
