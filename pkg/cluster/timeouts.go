package cluster

import (
	"os"
	"time"
)

// Timeouts holds the bounded deadlines of every waiting step.
// All values can be overridden via environment variables.
type Timeouts struct {
	Online       time.Duration // node reachable after start
	Services     time.Duration // bucket visible to all enabled services
	Keyspace     time.Duration // keyspace registered in the query catalog
	Index        time.Duration // index build reaching online
	PollInterval time.Duration // fixed delay between convergence probes
}

// LoadTimeouts loads timeout configuration from environment variables.
// Unset or invalid values fall back to defaults.
//
// Environment variables:
//   - CB_TIMEOUT_ONLINE (default: 60s)
//   - CB_TIMEOUT_SERVICES (default: 30s)
//   - CB_TIMEOUT_KEYSPACE (default: 30s)
//   - CB_TIMEOUT_INDEX (default: 60s)
//   - CB_POLL_INTERVAL (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Online:       parseDuration("CB_TIMEOUT_ONLINE", 60*time.Second),
		Services:     parseDuration("CB_TIMEOUT_SERVICES", 30*time.Second),
		Keyspace:     parseDuration("CB_TIMEOUT_KEYSPACE", 30*time.Second),
		Index:        parseDuration("CB_TIMEOUT_INDEX", 60*time.Second),
		PollInterval: parseDuration("CB_POLL_INTERVAL", time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default is used.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
