package commands

import (
	"github.com/spf13/cobra"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/cmd/pinecone-byoc/handlers"
)

// Destroy returns the destroy command.
//
// Destroy walks the recorded resources in reverse creation order. The
// in-cluster uninstall job runs first, while the credentials it needs are
// still valid; each deleted record is removed from state immediately, so a
// partially failed destroy can be re-run.
func Destroy() *cobra.Command {
	var (
		configPath    string
		skipUninstall bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the deployment's control-plane records",
		Long: `Destroy deletes everything bootstrap recorded, in reverse order:

  - the in-cluster uninstall job runs first (skip with --skip-uninstall
    when the cluster is already gone)
  - then the project, credentials, DNS delegation and environment

Records already deleted remotely are treated as gone. A failed destroy
leaves the remaining records in state; re-run the command to continue.

Example:
  pinecone-byoc destroy -c byoc.yaml

WARNING: This operation is irreversible. Minted keys are revoked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, skipUninstall)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to deployment configuration file (required)")
	cmd.Flags().BoolVar(&skipUninstall, "skip-uninstall", false, "Skip the in-cluster uninstall job (cluster already deleted)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
