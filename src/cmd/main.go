// Command graphd runs the acyclic node-graph service described in
// SPEC_FULL.md. Its subcommands, serve and provision, each take a
// single positional argument — a service name — used to locate
// config/<service>.json.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "graphd",
		Short: "acyclic node-graph service",
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newProvisionCmd())
	return root
}
