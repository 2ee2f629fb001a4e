package cluster

import (
	"context"
	"fmt"

	"github.com/kralphs/testcontainers-couchbase/internal/async"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// provisionScope creates the scope, then fans out across its
// collections concurrently.
func provisionScope(ctx *Context, b spec.BucketSpec, s spec.ScopeSpec) error {
	entity := fmt.Sprintf("scope %s.%s", b.Name, s.Name)

	if err := ctx.Client.CreateScope(ctx, b.Name, s.Name); err != nil {
		return &ProvisioningError{Entity: entity, Step: "create", Err: err}
	}

	if len(s.Collections) == 0 {
		return nil
	}

	tasks := make([]async.Task, 0, len(s.Collections))
	for _, col := range s.Collections {
		tasks = append(tasks, async.Task{
			Name: fmt.Sprintf("collection %s.%s.%s", b.Name, s.Name, col.Name),
			Func: func(context.Context) error { return provisionCollection(ctx, b, s, col) },
		})
	}
	return async.Run(ctx, tasks)
}

// provisionCollection drives the per-collection sub-machine. The order
// is strict: create, keyspace visible, primary index, secondary
// indexes. Index steps only exist when the query service is enabled.
func provisionCollection(ctx *Context, b spec.BucketSpec, s spec.ScopeSpec, col spec.CollectionSpec) error {
	entity := fmt.Sprintf("collection %s.%s.%s", b.Name, s.Name, col.Name)
	obs := ctx.Observer.WithFields(map[string]string{
		"bucket":     b.Name,
		"scope":      s.Name,
		"collection": col.Name,
	})
	obs.Printf("creating collection")

	if err := ctx.Client.CreateCollection(ctx, b.Name, s.Name, col.Name, col.MaxTTL); err != nil {
		return &ProvisioningError{Entity: entity, Step: "create", Err: err}
	}

	if !ctx.Spec.HasService(spec.ServiceQuery) {
		return nil
	}

	if err := waitKeyspaceVisible(ctx, entity, b.Name, s.Name, col.Name); err != nil {
		return err
	}

	if col.PrimaryIndex {
		if err := ensurePrimaryIndex(ctx, entity, b.Name, s.Name, col.Name); err != nil {
			return err
		}
	}

	if len(col.SecondaryIndexes) > 0 {
		if err := buildSecondaryIndexes(ctx, entity, b.Name, s.Name, col.Name, col.SecondaryIndexes); err != nil {
			return err
		}
	}

	obs.Printf("collection ready")
	return nil
}
