package rest

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// InstrumentedClient decorates a Client with per-operation duration and
// failure metrics. It is an explicit wrapper applied at the call site;
// nothing is intercepted behind the caller's back.
type InstrumentedClient struct {
	next     Client
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// Instrument wraps next, registering its metrics with reg.
func Instrument(next Client, reg prometheus.Registerer) *InstrumentedClient {
	c := &InstrumentedClient{
		next: next,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "couchbase_provision",
			Name:      "controlplane_call_duration_seconds",
			Help:      "Duration of control-plane calls by operation.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "couchbase_provision",
			Name:      "controlplane_call_failures_total",
			Help:      "Failed control-plane calls by operation.",
		}, []string{"operation"}),
	}
	reg.MustRegister(c.duration, c.failures)
	return c
}

func (c *InstrumentedClient) observe(op string, start time.Time, err error) {
	c.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.failures.WithLabelValues(op).Inc()
	}
}

// ClusterInfo implements NodeManager.
func (c *InstrumentedClient) ClusterInfo(ctx context.Context) (info *PoolsInfo, err error) {
	start := time.Now()
	defer func() { c.observe("cluster_info", start, err) }()
	return c.next.ClusterInfo(ctx)
}

// RenameNode implements NodeManager.
func (c *InstrumentedClient) RenameNode(ctx context.Context, hostname string) (err error) {
	start := time.Now()
	defer func() { c.observe("rename_node", start, err) }()
	return c.next.RenameNode(ctx, hostname)
}

// InitializeServices implements NodeManager.
func (c *InstrumentedClient) InitializeServices(ctx context.Context, services []spec.Service) (err error) {
	start := time.Now()
	defer func() { c.observe("initialize_services", start, err) }()
	return c.next.InitializeServices(ctx, services)
}

// SetMemoryQuotas implements NodeManager.
func (c *InstrumentedClient) SetMemoryQuotas(ctx context.Context, quotas map[spec.Service]int) (err error) {
	start := time.Now()
	defer func() { c.observe("set_memory_quotas", start, err) }()
	return c.next.SetMemoryQuotas(ctx, quotas)
}

// SetAdminCredentials implements NodeManager.
func (c *InstrumentedClient) SetAdminCredentials(ctx context.Context, username, password string) (err error) {
	start := time.Now()
	defer func() { c.observe("set_admin_credentials", start, err) }()
	return c.next.SetAdminCredentials(ctx, username, password)
}

// SetExternalAddresses implements NodeManager.
func (c *InstrumentedClient) SetExternalAddresses(ctx context.Context, hostname string, ports map[string]int) (err error) {
	start := time.Now()
	defer func() { c.observe("set_external_addresses", start, err) }()
	return c.next.SetExternalAddresses(ctx, hostname, ports)
}

// ConfigureIndexer implements NodeManager.
func (c *InstrumentedClient) ConfigureIndexer(ctx context.Context, storageMode string) (err error) {
	start := time.Now()
	defer func() { c.observe("configure_indexer", start, err) }()
	return c.next.ConfigureIndexer(ctx, storageMode)
}

// CreateBucket implements BucketManager.
func (c *InstrumentedClient) CreateBucket(ctx context.Context, name string, quotaMB int, flushEnabled bool) (err error) {
	start := time.Now()
	defer func() { c.observe("create_bucket", start, err) }()
	return c.next.CreateBucket(ctx, name, quotaMB, flushEnabled)
}

// BucketConfig implements BucketManager.
func (c *InstrumentedClient) BucketConfig(ctx context.Context, name string) (cfg *TerseConfig, err error) {
	start := time.Now()
	defer func() { c.observe("bucket_config", start, err) }()
	return c.next.BucketConfig(ctx, name)
}

// CreateScope implements BucketManager.
func (c *InstrumentedClient) CreateScope(ctx context.Context, bucket, scope string) (err error) {
	start := time.Now()
	defer func() { c.observe("create_scope", start, err) }()
	return c.next.CreateScope(ctx, bucket, scope)
}

// CreateCollection implements BucketManager.
func (c *InstrumentedClient) CreateCollection(ctx context.Context, bucket, scope, collection string, maxTTL int) (err error) {
	start := time.Now()
	defer func() { c.observe("create_collection", start, err) }()
	return c.next.CreateCollection(ctx, bucket, scope, collection, maxTTL)
}

// Query implements QueryRunner.
func (c *InstrumentedClient) Query(ctx context.Context, statement string) (res *QueryResult, err error) {
	start := time.Now()
	defer func() { c.observe("query", start, err) }()
	return c.next.Query(ctx, statement)
}
