package cluster

import (
	"fmt"
	"time"

	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// ConnectivityError means the node never became reachable within the
// bootstrap timeout. Nothing has been provisioned.
type ConnectivityError struct {
	Endpoint string
	Timeout  time.Duration
	Err      error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("node at %s not reachable within %s: %v", e.Endpoint, e.Timeout, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// EditionMismatchError means an enterprise-only service was requested
// on a community-edition target. Raised before any bucket call.
type EditionMismatchError struct {
	Service spec.Service
}

func (e *EditionMismatchError) Error() string {
	return fmt.Sprintf("service %q requires enterprise edition, but the target is community edition", e.Service)
}

// ConfigurationError means a bootstrap step failed. The whole
// operation stops; no bucket work has started.
type ConfigurationError struct {
	Phase string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("bootstrap phase %q failed: %v", e.Phase, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ProvisioningError means a bucket, scope, collection, or index step
// failed. It is fatal to that entity's branch only; sibling branches
// run to completion and the failures are aggregated.
type ProvisioningError struct {
	Entity string
	Step   string
	Err    error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning %s failed at step %q: %v", e.Entity, e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
