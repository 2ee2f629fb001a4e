package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/kralphs/testcontainers-couchbase/internal/async"
	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// provisionBuckets fans out across all buckets concurrently. Buckets
// are independent: a failing bucket never cancels a sibling, and all
// failures are aggregated into the returned error.
func provisionBuckets(ctx *Context) error {
	if len(ctx.Spec.Buckets) == 0 {
		return nil
	}

	tasks := make([]async.Task, 0, len(ctx.Spec.Buckets))
	for _, b := range ctx.Spec.Buckets {
		tasks = append(tasks, async.Task{
			Name: "bucket " + b.Name,
			Func: func(context.Context) error { return provisionBucket(ctx, b) },
		})
	}

	ctx.Observer.Printf("provisioning %d bucket(s)", len(tasks))
	return async.Run(ctx, tasks)
}

// provisionBucket drives the per-bucket sub-machine: create, wait for
// service visibility, wait for the query catalog, build the primary
// index, then fan out across scopes.
func provisionBucket(ctx *Context, b spec.BucketSpec) error {
	entity := "bucket " + b.Name
	obs := ctx.Observer.WithFields(map[string]string{"bucket": b.Name})
	obs.Printf("creating bucket (quota %dMB)", b.QuotaMB)

	if err := ctx.Client.CreateBucket(ctx, b.Name, b.QuotaMB, b.FlushEnabled); err != nil {
		return &ProvisioningError{Entity: entity, Step: "create", Err: err}
	}

	if err := waitServicesVisible(ctx, b.Name); err != nil {
		return err
	}

	if ctx.Spec.HasService(spec.ServiceQuery) {
		if err := waitKeyspaceVisible(ctx, entity, b.Name, "", ""); err != nil {
			return err
		}
		if b.PrimaryIndex {
			if err := ensurePrimaryIndex(ctx, entity, b.Name, "", ""); err != nil {
				return err
			}
		}
	}

	if len(b.Scopes) == 0 {
		obs.Printf("bucket ready")
		return nil
	}

	tasks := make([]async.Task, 0, len(b.Scopes))
	for _, s := range b.Scopes {
		tasks = append(tasks, async.Task{
			Name: fmt.Sprintf("scope %s.%s", b.Name, s.Name),
			Func: func(context.Context) error { return provisionScope(ctx, b, s) },
		})
	}
	if err := async.Run(ctx, tasks); err != nil {
		return err
	}

	obs.Printf("bucket ready")
	return nil
}

// waitServicesVisible polls the bucket's terse config until every
// enabled service identifier appears as a prefix of some reported
// service key. The prefix match accounts for SSL and sub-service
// variants (kvSSL, indexHttp, eventingAdminPort, ...).
func waitServicesVisible(ctx *Context, bucket string) error {
	enabled := ctx.Spec.EnabledServices()

	type probe struct {
		cfg *rest.TerseConfig
		err error
	}

	res := poll.Until(ctx, ctx.Timeouts.Services,
		func(c context.Context) probe {
			cfg, err := ctx.Client.BucketConfig(c, bucket)
			return probe{cfg: cfg, err: err}
		},
		func(p probe) bool { return p.err == nil && servicesVisible(p.cfg, enabled) },
		func() probe { return probe{} },
		ctx.pollOpts()...,
	)
	if res.cfg == nil || !servicesVisible(res.cfg, enabled) {
		return &ProvisioningError{
			Entity: "bucket " + bucket,
			Step:   "services-visible",
			Err:    fmt.Errorf("services %v not visible within %s", enabled, ctx.Timeouts.Services),
		}
	}
	return nil
}

func servicesVisible(cfg *rest.TerseConfig, enabled []spec.Service) bool {
	for _, svc := range enabled {
		if !serviceListed(cfg, string(svc)) {
			return false
		}
	}
	return true
}

func serviceListed(cfg *rest.TerseConfig, ident string) bool {
	for _, node := range cfg.NodesExt {
		for key := range node.Services {
			if strings.HasPrefix(key, ident) {
				return true
			}
		}
	}
	return false
}
