// Package rest provides a thin typed binding to the Couchbase REST
// administration endpoints and the query-execution endpoint.
//
// The client is a pure request/response layer: it surfaces status and
// body, but contains no convergence logic. Retrying a business
// predicate against the eventually-consistent control plane is the
// provisioner's job (see internal/poll); the only retry here is the
// bounded transport-level RetryTransport.
package rest

import (
	"context"

	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// NodeManager configures cluster-wide node settings during bootstrap.
type NodeManager interface {
	// ClusterInfo fetches /pools, the first endpoint to respond once
	// the node is reachable. It also carries the cluster edition.
	ClusterInfo(ctx context.Context) (*PoolsInfo, error)

	// RenameNode rebinds the internal hostname of the node.
	RenameNode(ctx context.Context, hostname string) error

	// InitializeServices submits the enabled-service identifier list.
	InitializeServices(ctx context.Context, services []spec.Service) error

	// SetMemoryQuotas submits per-service memory quotas in MB.
	SetMemoryQuotas(ctx context.Context, quotas map[spec.Service]int) error

	// SetAdminCredentials sets the admin username and password.
	SetAdminCredentials(ctx context.Context, username, password string) error

	// SetExternalAddresses registers the external hostname and the
	// mapped ports, keyed by alternate-address field name.
	SetExternalAddresses(ctx context.Context, hostname string, ports map[string]int) error

	// ConfigureIndexer sets the indexer storage mode.
	ConfigureIndexer(ctx context.Context, storageMode string) error
}

// BucketManager creates buckets, scopes, and collections.
type BucketManager interface {
	CreateBucket(ctx context.Context, name string, quotaMB int, flushEnabled bool) error

	// BucketConfig fetches the terse bucket config, whose nodesExt
	// services listing reflects which services see the bucket.
	BucketConfig(ctx context.Context, name string) (*TerseConfig, error)

	CreateScope(ctx context.Context, bucket, scope string) error
	CreateCollection(ctx context.Context, bucket, scope, collection string, maxTTL int) error
}

// QueryRunner executes N1QL statements against the query service.
type QueryRunner interface {
	// Query runs a single statement. A response whose status is not
	// success is returned as a *QueryError so callers can inspect the
	// server-reported problems.
	Query(ctx context.Context, statement string) (*QueryResult, error)
}

// Client is the full control-plane surface the provisioner needs.
type Client interface {
	NodeManager
	BucketManager
	QueryRunner
}
