// Package poll provides the convergence primitive used by every
// waiting step of provisioning: probe an eventually-consistent control
// plane at a fixed interval until a predicate holds or a deadline
// passes.
//
// This is deliberately distinct from transport-level retry (see
// pkg/rest): the poller retries a business predicate against an
// async control plane, not a failed HTTP exchange.
package poll
