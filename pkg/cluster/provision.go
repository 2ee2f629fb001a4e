package cluster

import (
	"context"

	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// Option configures a provisioning run.
type Option func(*Context)

// WithClient injects a control-plane client, replacing the default
// HTTP client. Useful for instrumentation (rest.Instrument) or tests.
func WithClient(client rest.Client) Option {
	return func(c *Context) { c.Client = client }
}

// WithObserver injects a progress observer.
func WithObserver(o Observer) Option {
	return func(c *Context) { c.Observer = o }
}

// WithTimeouts overrides the environment-derived timeouts.
func WithTimeouts(t *Timeouts) Option {
	return func(c *Context) { c.Timeouts = t }
}

// WithClock injects the time source used by convergence polling.
func WithClock(clock Clock) Option {
	return func(c *Context) { c.Clock = clock }
}

// Provision takes a fresh single-node cluster from unreachable to
// fully provisioned: sequential bootstrap, then concurrent bucket,
// scope, and collection provisioning per the cluster spec.
//
// Bootstrap failures abort the whole run before any bucket call. A
// failure inside one bucket's branch is fatal to that branch only;
// sibling branches always run to completion, and Provision returns an
// aggregated error naming every failed entity.
func Provision(ctx context.Context, cs *spec.ClusterSpec, ep Endpoint, opts ...Option) error {
	pctx := &Context{
		Context:  ctx,
		Spec:     cs,
		Endpoint: ep,
		Timeouts: LoadTimeouts(),
		Clock:    poll.RealClock{},
		State:    &State{},
	}
	for _, opt := range opts {
		opt(pctx)
	}
	if pctx.Observer == nil {
		pctx.Observer = DefaultObserver()
	}
	if pctx.Client == nil {
		mgmt := spec.ManagementPortPair()
		queryPort := spec.ServiceQuery.PortPairs()[0].Port
		pctx.Client = rest.NewHTTPClient(ep.Host, ep.Port(mgmt.Port), ep.Port(queryPort), cs.Username, cs.Password)
	}

	if err := runPhases(pctx, bootstrapPhases(pctx)); err != nil {
		return err
	}
	return provisionBuckets(pctx)
}
