package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
)

// keyspaceRef renders the backtick-quoted keyspace reference for DDL
// statements: `bucket` or `bucket`.`scope`.`collection`.
func keyspaceRef(bucket, scope, collection string) string {
	if scope == "" {
		return "`" + bucket + "`"
	}
	return fmt.Sprintf("`%s`.`%s`.`%s`", bucket, scope, collection)
}

// keyspaceStatement builds the system:keyspaces probe. The query
// catalog lags entity creation, which is why this is polled at all.
func keyspaceStatement(bucket, scope, collection string) string {
	if scope == "" {
		return fmt.Sprintf(`SELECT RAW ks.name FROM system:keyspaces AS ks WHERE ks.name = %q`, bucket)
	}
	return fmt.Sprintf("SELECT RAW ks.name FROM system:keyspaces AS ks WHERE ks.`bucket` = %q AND ks.`scope` = %q AND ks.name = %q",
		bucket, scope, collection)
}

// indexStateStatement builds the system:indexes probe for either the
// primary index or the non-primary indexes of one keyspace. The filter
// is always scoped to the exact keyspace: for collections the full
// bucket/scope/collection triple, never an aggregate across buckets.
func indexStateStatement(bucket, scope, collection string, primary bool) string {
	primaryCond := "idx.is_primary = true"
	if !primary {
		primaryCond = "(idx.is_primary IS MISSING OR idx.is_primary = false)"
	}
	if scope == "" {
		return fmt.Sprintf(`SELECT RAW idx.state FROM system:indexes AS idx WHERE idx.keyspace_id = %q AND %s`,
			bucket, primaryCond)
	}
	return fmt.Sprintf(`SELECT RAW idx.state FROM system:indexes AS idx WHERE idx.bucket_id = %q AND idx.scope_id = %q AND idx.keyspace_id = %q AND %s`,
		bucket, scope, collection, primaryCond)
}

// waitKeyspaceVisible polls system:keyspaces until the entity is
// registered in the query catalog.
func waitKeyspaceVisible(ctx *Context, entity, bucket, scope, collection string) error {
	stmt := keyspaceStatement(bucket, scope, collection)
	ok := pollQuery(ctx, ctx.Timeouts.Keyspace, stmt, func(res *rest.QueryResult) bool {
		return len(res.Results) > 0
	})
	if !ok {
		return &ProvisioningError{
			Entity: entity,
			Step:   "keyspace-visible",
			Err:    fmt.Errorf("keyspace not registered within %s", ctx.Timeouts.Keyspace),
		}
	}
	return nil
}

// ensurePrimaryIndex issues CREATE PRIMARY INDEX and waits for it to
// come online. A deferred-build response from the server counts as a
// successful creation; the online poll still applies.
func ensurePrimaryIndex(ctx *Context, entity, bucket, scope, collection string) error {
	stmt := "CREATE PRIMARY INDEX ON " + keyspaceRef(bucket, scope, collection)
	if _, err := ctx.Client.Query(ctx, stmt); err != nil && !rest.IsDeferredBuild(err) {
		return &ProvisioningError{Entity: entity, Step: "primary-index", Err: err}
	}

	probe := indexStateStatement(bucket, scope, collection, true)
	ok := pollQuery(ctx, ctx.Timeouts.Index, probe, func(res *rest.QueryResult) bool {
		return anyOnline(res)
	})
	if !ok {
		return &ProvisioningError{
			Entity: entity,
			Step:   "primary-index-online",
			Err:    fmt.Errorf("primary index not online within %s", ctx.Timeouts.Index),
		}
	}
	return nil
}

// buildSecondaryIndexes issues each DDL statement in order, tolerating
// the deferred-build response per statement, then waits until every
// non-primary index of the collection is online.
func buildSecondaryIndexes(ctx *Context, entity, bucket, scope, collection string, ddls []string) error {
	for _, ddl := range ddls {
		if _, err := ctx.Client.Query(ctx, ddl); err != nil && !rest.IsDeferredBuild(err) {
			return &ProvisioningError{Entity: entity, Step: "secondary-index", Err: err}
		}
	}

	probe := indexStateStatement(bucket, scope, collection, false)
	ok := pollQuery(ctx, ctx.Timeouts.Index, probe, func(res *rest.QueryResult) bool {
		return len(res.Results) >= len(ddls) && allOnline(res)
	})
	if !ok {
		return &ProvisioningError{
			Entity: entity,
			Step:   "secondary-indexes-online",
			Err:    fmt.Errorf("%d secondary index(es) not online within %s", len(ddls), ctx.Timeouts.Index),
		}
	}
	return nil
}

// pollQuery repeatedly runs a statement until done holds for a
// successful response, returning false on timeout.
func pollQuery(ctx *Context, timeout time.Duration, statement string, done func(*rest.QueryResult) bool) bool {
	type probe struct {
		res *rest.QueryResult
		err error
	}

	out := poll.Until(ctx, timeout,
		func(c context.Context) probe {
			res, err := ctx.Client.Query(c, statement)
			return probe{res: res, err: err}
		},
		func(p probe) bool { return p.err == nil && p.res != nil && done(p.res) },
		func() probe { return probe{err: context.DeadlineExceeded} },
		ctx.pollOpts()...,
	)
	return out.err == nil
}

func anyOnline(res *rest.QueryResult) bool {
	states, err := rest.DecodeRows[string](res)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "online" {
			return true
		}
	}
	return false
}

func allOnline(res *rest.QueryResult) bool {
	states, err := rest.DecodeRows[string](res)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state != "online" {
			return false
		}
	}
	return len(states) > 0
}
