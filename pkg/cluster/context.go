package cluster

import (
	"context"
	"time"

	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// Clock abstracts the time source so convergence deadlines are
// testable without real sleeping.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// State holds results shared across bootstrap phases. It is populated
// as phases complete and read by later phases.
type State struct {
	// Pools is the /pools response captured while waiting for the node
	// to come online; the edition phase reads it.
	Pools *rest.PoolsInfo
}

// Context wraps the dependencies and state of one provisioning run.
// It is read-only during the concurrent bucket fan-out.
type Context struct {
	context.Context

	Spec     *spec.ClusterSpec
	Endpoint Endpoint
	Client   rest.Client
	Observer Observer
	Timeouts *Timeouts
	Clock    Clock
	State    *State
}

func (c *Context) pollOpts() []poll.Option {
	return []poll.Option{
		poll.WithClock(c.Clock),
		poll.WithInterval(c.Timeouts.PollInterval),
	}
}
