// Package main is the entry point for the cbprovision CLI.
//
// cbprovision takes a freshly started single-node Couchbase Server from
// unconfigured to fully provisioned: node bootstrap, buckets, scopes,
// collections, and indexes, driven entirely through the management and
// query REST APIs.
//
// For detailed usage information, run:
//
//	cbprovision --help
package main

import (
	"fmt"
	"os"

	"github.com/kralphs/testcontainers-couchbase/cmd/cbprovision/commands"
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
