package cluster

import (
	"os"

	"github.com/rs/zerolog"
)

// Observer receives progress output during provisioning.
type Observer interface {
	Printf(format string, v ...any)

	// WithFields returns a new Observer carrying additional context
	// fields on every message.
	WithFields(fields map[string]string) Observer
}

// NewObserver returns an Observer backed by the given zerolog logger.
func NewObserver(log zerolog.Logger) Observer {
	return &zerologObserver{log: log}
}

// DefaultObserver returns an Observer logging to stderr.
func DefaultObserver() Observer {
	return NewObserver(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
}

// NopObserver returns an Observer that discards everything.
func NopObserver() Observer {
	return NewObserver(zerolog.Nop())
}

type zerologObserver struct {
	log zerolog.Logger
}

func (o *zerologObserver) Printf(format string, v ...any) {
	o.log.Info().Msgf(format, v...)
}

func (o *zerologObserver) WithFields(fields map[string]string) Observer {
	logCtx := o.log.With()
	for k, v := range fields {
		logCtx = logCtx.Str(k, v)
	}
	return &zerologObserver{log: logCtx.Logger()}
}
