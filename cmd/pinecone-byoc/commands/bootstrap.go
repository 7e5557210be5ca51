package commands

import (
	"github.com/spf13/cobra"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/cmd/pinecone-byoc/handlers"
)

// Bootstrap returns the bootstrap command.
//
// Bootstrap registers the deployment with the control plane in dependency
// order: environment, gateway key, service account, DNS delegation, metrics
// access, Datadog key and the data-plane project key. Every minted resource
// is recorded in the state store before the next step runs, so a failed run
// can simply be re-run.
func Bootstrap() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Register the deployment with the Pinecone control plane",
		Long: `Bootstrap creates the control-plane records a BYOC deployment needs:

  - the tenant environment and its organization identity
  - a gateway API key scoped to the environment
  - a service account with OAuth client credentials
  - the NS delegation for the deployment's subdomain
  - metrics federation and Datadog ingestion credentials
  - a data-plane API key under the deployment's project

Resources are created in dependency order and recorded in the state store
as they are minted. Re-running bootstrap skips everything already recorded
with unchanged inputs.

The operator's admin key is read from PINECONE_API_KEY.

Example:
  pinecone-byoc bootstrap -c byoc.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Bootstrap(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to deployment configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
