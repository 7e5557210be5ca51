package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/resources"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/state"
)

// DestroyOptions tunes a destroy run.
type DestroyOptions struct {
	// SkipUninstall drops the uninstaller record without running the
	// in-cluster job, for clusters that are already gone.
	SkipUninstall bool
}

// Destroy walks the recorded resources in reverse creation order and deletes
// each one, removing its record immediately so a partially failed destroy
// can be re-run. Credentials for the delete calls come from the records that
// are still in the store: dependents are always deleted before the record
// holding the credential that deletes them.
func (r *Runner) Destroy(ctx context.Context, opts DestroyOptions) error {
	recs := r.Store.Records()
	if len(recs) == 0 {
		r.Observer.Printf("nothing recorded, nothing to destroy")
		return nil
	}

	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]

		if rec.Kind == resources.KindUninstaller && opts.SkipUninstall {
			r.Observer.Event(Event{Type: EventResourceSkipped, Step: rec.Kind, Resource: rec.ID})
			if err := r.Store.Remove(ctx, rec.Kind, rec.Name); err != nil {
				return err
			}
			continue
		}

		del, err := r.deleterFor(ctx, rec.Kind)
		if err != nil {
			return err
		}

		r.Observer.Event(Event{Type: EventResourceDeleting, Step: rec.Kind, Resource: rec.ID})
		if err := del.Delete(ctx, rec.ID, rec.Outputs); err != nil {
			r.Observer.Event(Event{Type: EventResourceFailed, Step: rec.Kind, Resource: rec.ID, Message: err.Error()})
			return fmt.Errorf("delete %s: %w", rec.Kind, err)
		}
		if err := r.Store.Remove(ctx, rec.Kind, rec.Name); err != nil {
			return err
		}
		r.Observer.Event(Event{Type: EventResourceDeleted, Step: rec.Kind, Resource: rec.ID})
	}

	return nil
}

func (r *Runner) deleterFor(ctx context.Context, kind string) (lifecycle.Deleter, error) {
	switch kind {
	case resources.KindEnvironment:
		return lifecycle.DeleterFor[resources.EnvironmentInputs, resources.EnvironmentOutputs](
			resources.NewEnvironmentProvider(r.AdminClient())), nil
	case resources.KindCpgwAPIKey:
		return lifecycle.DeleterFor[resources.CpgwAPIKeyInputs, resources.CpgwAPIKeyOutputs](
			resources.NewCpgwAPIKeyProvider(r.AdminClient())), nil
	case resources.KindServiceAccount:
		infra, err := r.infraFromState()
		if err != nil {
			return nil, err
		}
		return lifecycle.DeleterFor[resources.ServiceAccountInputs, resources.ServiceAccountOutputs](
			resources.NewServiceAccountProvider(infra)), nil
	case resources.KindDNSDelegation:
		infra, err := r.infraFromState()
		if err != nil {
			return nil, err
		}
		return lifecycle.DeleterFor[resources.DNSDelegationInputs, resources.DNSDelegationOutputs](
			resources.NewDNSDelegationProvider(infra)), nil
	case resources.KindAMPAccess:
		infra, err := r.infraFromState()
		if err != nil {
			return nil, err
		}
		return lifecycle.DeleterFor[resources.AMPAccessInputs, resources.AMPAccessOutputs](
			resources.NewAMPAccessProvider(infra)), nil
	case resources.KindDatadogAPIKey:
		infra, err := r.infraFromState()
		if err != nil {
			return nil, err
		}
		return lifecycle.DeleterFor[resources.DatadogAPIKeyInputs, resources.DatadogAPIKeyOutputs](
			resources.NewDatadogAPIKeyProvider(infra)), nil
	case resources.KindProjectAPIKey:
		mgmt, err := r.managementFromState(ctx)
		if err != nil {
			return nil, err
		}
		return lifecycle.DeleterFor[resources.ProjectAPIKeyInputs, resources.ProjectAPIKeyOutputs](
			resources.NewProjectAPIKeyProvider(mgmt)), nil
	case resources.KindUninstaller:
		return lifecycle.DeleterFor[resources.UninstallerInputs, resources.UninstallerOutputs](
			resources.NewUninstallerProvider(r.Uninstaller)), nil
	default:
		return nil, fmt.Errorf("state records unknown resource kind %q", kind)
	}
}

// infraFromState rebuilds the gateway-key client from the recorded key. The
// record is present whenever an infra resource still is: the key is deleted
// after everything minted under it.
func (r *Runner) infraFromState() (Gateway, error) {
	var outs resources.CpgwAPIKeyOutputs
	if err := r.outputsFromState(resources.KindCpgwAPIKey, &outs); err != nil {
		return nil, err
	}
	return r.InfraClient(outs.Key), nil
}

// managementFromState rebuilds the bearer-token client from the recorded
// service account credentials.
func (r *Runner) managementFromState(ctx context.Context) (Gateway, error) {
	var outs resources.ServiceAccountOutputs
	if err := r.outputsFromState(resources.KindServiceAccount, &outs); err != nil {
		return nil, err
	}
	return r.ManagementClient(ctx, outs.ClientID, outs.ClientSecret), nil
}

func (r *Runner) outputsFromState(kind string, into any) error {
	rec, ok := r.Store.Lookup(kind, kind)
	if !ok {
		return fmt.Errorf("state has no %s record to authenticate the delete with", kind)
	}
	return decodeOutputs(rec, into)
}

func decodeOutputs(rec state.Record, into any) error {
	if len(rec.Outputs) == 0 {
		return fmt.Errorf("%s record has no outputs", rec.Kind)
	}
	if err := json.Unmarshal(rec.Outputs, into); err != nil {
		return fmt.Errorf("decode recorded %s outputs: %w", rec.Kind, err)
	}
	return nil
}
