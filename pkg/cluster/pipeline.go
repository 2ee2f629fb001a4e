package cluster

import (
	"errors"
	"time"
)

// Phase is one step of the sequential bootstrap state machine. A phase
// only runs after every prior phase has succeeded.
type Phase interface {
	Name() string
	Run(ctx *Context) error
}

type phaseFunc struct {
	name string
	run  func(*Context) error
}

func (p phaseFunc) Name() string           { return p.name }
func (p phaseFunc) Run(ctx *Context) error { return p.run(ctx) }

// runPhases executes all bootstrap phases sequentially. The first
// failure stops the pipeline; REST failures without a more specific
// classification are wrapped as ConfigurationError.
func runPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("starting bootstrap with %d phases", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		ctx.Observer.Printf("[%s (%d/%d)] starting", phase.Name(), i+1, len(phases))

		if err := phase.Run(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", phase.Name(), err)
			return classifyBootstrapError(phase.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", phase.Name(), time.Since(phaseStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("bootstrap completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func classifyBootstrapError(phase string, err error) error {
	var connErr *ConnectivityError
	var editionErr *EditionMismatchError
	if errors.As(err, &connErr) || errors.As(err, &editionErr) {
		return err
	}
	return &ConfigurationError{Phase: phase, Err: err}
}
