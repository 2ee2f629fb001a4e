package commands

import (
	"github.com/spf13/cobra"

	"github.com/kralphs/testcontainers-couchbase/cmd/cbprovision/handlers"
)

// Provision returns the command that takes a fresh node to a fully
// provisioned cluster.
//
// Required flags:
//
//	--host: externally reachable hostname of the node
//
// Optional flags:
//
//	--internal-ip: node address on the container network
//	--port: internal=host port mapping, repeatable
//	--username, --password: admin credentials to establish
//	--services: services to enable (kv, n1ql, index, fts, cbas, eventing)
//	--bucket: bucket definition name[:quotaMB], repeatable
//	--flush: enable the flush endpoint on all buckets
//	--no-primary-index: skip primary index creation on all buckets
//
// Timeouts are read from the CB_TIMEOUT_* environment variables.
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Bootstrap a node and create its buckets",
		Long: `Bootstrap a freshly started Couchbase node and create its buckets.

The node is initialized through the management REST API (services, memory
quotas, admin credentials, alternate addresses), then the requested buckets
are created and primary indexes built once the query catalog converges.

Examples:
  # Provision a node exposed on localhost with the default services
  cbprovision provision --host localhost --bucket main

  # Docker-mapped ports, two buckets, one with a custom quota
  cbprovision provision --host localhost \
    --internal-ip 172.17.0.2 \
    --port 8091=32769 --port 8093=32771 --port 11210=32775 \
    --bucket main:256 --bucket cache`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "localhost", "Externally reachable hostname of the node")
	cmd.Flags().StringVar(&opts.InternalIP, "internal-ip", "", "Node address on the container network")
	cmd.Flags().StringSliceVar(&opts.Ports, "port", nil, "Port mapping internal=host (repeatable)")
	cmd.Flags().StringVar(&opts.Username, "username", "", "Admin username to establish")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Admin password to establish")
	cmd.Flags().StringSliceVar(&opts.Services, "services", nil, "Services to enable (default kv,n1ql,index)")
	cmd.Flags().StringArrayVar(&opts.Buckets, "bucket", nil, "Bucket definition name[:quotaMB] (repeatable)")
	cmd.Flags().BoolVar(&opts.FlushEnabled, "flush", false, "Enable the flush endpoint on all buckets")
	cmd.Flags().BoolVar(&opts.NoPrimaryIndex, "no-primary-index", false, "Skip primary index creation on all buckets")

	return cmd
}
