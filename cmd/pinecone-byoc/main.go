// Package main is the entry point for the pinecone-byoc CLI.
//
// pinecone-byoc registers a bring-your-own-cloud deployment with the
// Pinecone control plane: it mints the tenant environment, its credentials,
// DNS delegation and metrics access in dependency order, records everything
// in a state file, and tears it all down again in reverse, running the
// in-cluster uninstall job first.
//
// Commands: bootstrap, destroy, version.
package main

import (
	"fmt"
	"os"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/cmd/pinecone-byoc/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
