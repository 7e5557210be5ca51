// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the pinecone-byoc CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pinecone-byoc",
		Short: "Register and tear down a Pinecone BYOC deployment",
	}

	cmd.AddCommand(Bootstrap())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Version())

	return cmd
}
