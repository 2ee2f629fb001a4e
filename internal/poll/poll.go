package poll

import (
	"context"
	"time"
)

// DefaultInterval is the fixed delay between probes.
const DefaultInterval = 1 * time.Second

// Config holds poller configuration.
type Config struct {
	Interval time.Duration
	Clock    Clock
}

// Option is a functional option for poller configuration.
type Option func(*Config)

// WithInterval sets the fixed delay between probes.
func WithInterval(d time.Duration) Option {
	return func(c *Config) { c.Interval = d }
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(c *Config) { c.Clock = clock }
}

// Until invokes probe immediately and returns its result as soon as
// done holds for it. Otherwise it sleeps a fixed interval and probes
// again, tracking elapsed time from the first invocation. Once elapsed
// time exceeds timeout the loop stops and onTimeout's value is
// returned; deciding whether that sentinel is fatal is the caller's
// business. Context cancellation is treated like a timeout.
//
// The probe is never invoked again after done has held.
func Until[T any](ctx context.Context, timeout time.Duration, probe func(context.Context) T, done func(T) bool, onTimeout func() T, opts ...Option) T {
	cfg := &Config{
		Interval: DefaultInterval,
		Clock:    RealClock{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	start := cfg.Clock.Now()
	for {
		result := probe(ctx)
		if done(result) {
			return result
		}
		if cfg.Clock.Now().Sub(start) > timeout {
			return onTimeout()
		}
		if err := cfg.Clock.Sleep(ctx, cfg.Interval); err != nil {
			return onTimeout()
		}
		if cfg.Clock.Now().Sub(start) > timeout {
			return onTimeout()
		}
	}
}
