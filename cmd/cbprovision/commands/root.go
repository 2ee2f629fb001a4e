// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the cbprovision CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cbprovision",
		Short: "Provision a disposable single-node Couchbase cluster",
	}

	cmd.AddCommand(Provision())
	cmd.AddCommand(Version())

	return cmd
}
