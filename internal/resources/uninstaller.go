package resources

import (
	"context"
	"errors"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/lifecycle"
)

// UninstallerReadyID is the fixed id of the uninstaller record. Nothing is
// provisioned at create time, so there is no remote identifier to use.
const UninstallerReadyID = "uninstaller-ready"

// UninstallRunner runs the in-cluster uninstall job and waits for it to
// finish. Implemented by k8s.Uninstaller.
type UninstallRunner interface {
	Uninstall(ctx context.Context, kubeconfig []byte, image string) error
}

// UninstallerInputs captures everything needed to run the uninstall job
// later, at destroy time, when the cluster credentials may no longer be
// derivable from configuration.
type UninstallerInputs struct {
	Kubeconfig     string `json:"kubeconfig"`
	PinetoolsImage string `json:"pinetools_image"`
}

// UninstallerOutputs echoes the inputs so the destroy walk has them.
type UninstallerOutputs struct {
	UninstallerInputs
}

// UninstallerProvider is a hook resource: create is a no-op and delete runs
// `pinetools cluster uninstall` inside the cluster. It is recorded after
// everything else, so the reverse destroy walk runs the uninstall before
// any credential the cluster still depends on is revoked.
type UninstallerProvider struct {
	runner UninstallRunner
}

func NewUninstallerProvider(runner UninstallRunner) *UninstallerProvider {
	return &UninstallerProvider{runner: runner}
}

func (p *UninstallerProvider) Create(_ context.Context, inputs UninstallerInputs) (string, UninstallerOutputs, error) {
	return UninstallerReadyID, UninstallerOutputs{UninstallerInputs: inputs}, nil
}

// Diff reports changes so the recorded kubeconfig and image stay fresh, but
// never forces a replacement. Replacing would run the uninstall job against
// a live cluster.
func (p *UninstallerProvider) Diff(_ context.Context, _ string, olds UninstallerOutputs, news UninstallerInputs) (lifecycle.Diff, error) {
	changed := olds.Kubeconfig != news.Kubeconfig || olds.PinetoolsImage != news.PinetoolsImage
	return lifecycle.Diff{Changed: changed}, nil
}

func (p *UninstallerProvider) Update(_ context.Context, _ string, _ UninstallerOutputs, news UninstallerInputs) (UninstallerOutputs, error) {
	return UninstallerOutputs{UninstallerInputs: news}, nil
}

func (p *UninstallerProvider) Delete(ctx context.Context, _ string, outputs UninstallerOutputs) error {
	if outputs.Kubeconfig == "" {
		return errors.New("uninstaller record has no kubeconfig")
	}
	if outputs.PinetoolsImage == "" {
		return errors.New("uninstaller record has no pinetools image")
	}
	return p.runner.Uninstall(ctx, []byte(outputs.Kubeconfig), outputs.PinetoolsImage)
}
