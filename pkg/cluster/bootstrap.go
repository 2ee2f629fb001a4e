package cluster

import (
	"context"
	"errors"

	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

const (
	storageModeEnterprise = "memory_optimized"
	storageModeCommunity  = "forestdb"
)

var errNotReachable = errors.New("cluster info never returned success")

// bootstrapPhases assembles the sequential bootstrap pipeline for the
// spec. The indexer phase only exists when the index service is
// enabled.
func bootstrapPhases(ctx *Context) []Phase {
	phases := []Phase{
		phaseFunc{"online", waitOnline},
		phaseFunc{"edition", discoverEdition},
		phaseFunc{"rename", renameNode},
		phaseFunc{"services", initializeServices},
		phaseFunc{"quotas", setMemoryQuotas},
		phaseFunc{"admin", configureAdmin},
		phaseFunc{"external-ports", configureExternalAddresses},
	}
	if ctx.Spec.HasService(spec.ServiceIndex) {
		phases = append(phases, phaseFunc{"indexer", configureIndexer})
	}
	return phases
}

// waitOnline polls /pools until the node responds. The response is
// kept in State for the edition phase.
func waitOnline(ctx *Context) error {
	type probe struct {
		info *rest.PoolsInfo
		err  error
	}

	res := poll.Until(ctx, ctx.Timeouts.Online,
		func(c context.Context) probe {
			info, err := ctx.Client.ClusterInfo(c)
			return probe{info: info, err: err}
		},
		func(p probe) bool { return p.err == nil },
		func() probe { return probe{err: errNotReachable} },
		ctx.pollOpts()...,
	)
	if res.err != nil {
		return &ConnectivityError{Endpoint: ctx.Endpoint.Host, Timeout: ctx.Timeouts.Online, Err: res.err}
	}

	ctx.State.Pools = res.info
	return nil
}

// discoverEdition records the edition exactly once and fails fast when
// an enterprise-only service is requested on a community target. This
// runs strictly before any bucket work.
func discoverEdition(ctx *Context) error {
	enterprise := ctx.State.Pools.IsEnterprise
	ctx.Spec.RecordEdition(enterprise)
	ctx.Observer.Printf("target is %s edition", editionName(enterprise))

	if enterprise {
		return nil
	}
	for _, svc := range ctx.Spec.EnabledServices() {
		if svc.EnterpriseOnly() {
			return &EditionMismatchError{Service: svc}
		}
	}
	return nil
}

func editionName(enterprise bool) string {
	if enterprise {
		return "enterprise"
	}
	return "community"
}

// renameNode rebinds the internal hostname to the node's resolved
// address so the SDK can distinguish internal from external
// addressing.
func renameNode(ctx *Context) error {
	return ctx.Client.RenameNode(ctx, ctx.Endpoint.internalHost())
}

func initializeServices(ctx *Context) error {
	return ctx.Client.InitializeServices(ctx, ctx.Spec.EnabledServices())
}

// setMemoryQuotas submits quotas for every enabled service with a
// nonzero minimum: the caller override when present, otherwise the
// service minimum.
func setMemoryQuotas(ctx *Context) error {
	quotas := make(map[spec.Service]int)
	for _, svc := range ctx.Spec.EnabledServices() {
		if svc.MinQuotaMB() > 0 {
			quotas[svc] = ctx.Spec.QuotaFor(svc)
		}
	}
	if len(quotas) == 0 {
		return nil
	}
	return ctx.Client.SetMemoryQuotas(ctx, quotas)
}

func configureAdmin(ctx *Context) error {
	return ctx.Client.SetAdminCredentials(ctx, ctx.Spec.Username, ctx.Spec.Password)
}

// configureExternalAddresses registers the external hostname and the
// mapped port pairs of the management interface and every enabled
// service.
func configureExternalAddresses(ctx *Context) error {
	ports := make(map[string]int)

	mgmt := spec.ManagementPortPair()
	ports[mgmt.Field] = ctx.Endpoint.Port(mgmt.Port)
	ports[mgmt.TLSField] = ctx.Endpoint.Port(mgmt.TLSPort)

	for _, svc := range ctx.Spec.EnabledServices() {
		for _, pair := range svc.PortPairs() {
			ports[pair.Field] = ctx.Endpoint.Port(pair.Port)
			ports[pair.TLSField] = ctx.Endpoint.Port(pair.TLSPort)
		}
	}

	return ctx.Client.SetExternalAddresses(ctx, ctx.Endpoint.Host, ports)
}

func configureIndexer(ctx *Context) error {
	mode := storageModeCommunity
	if ctx.Spec.IsEnterprise() {
		mode = storageModeEnterprise
	}
	return ctx.Client.ConfigureIndexer(ctx, mode)
}
