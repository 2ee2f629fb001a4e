// Package handlers implements the business logic for CLI commands.
//
// Handler functions are called by the command definitions in the
// commands package. They are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kralphs/testcontainers-couchbase/pkg/cluster"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// ProvisionOptions carries the parsed provision command flags.
type ProvisionOptions struct {
	Host       string
	InternalIP string
	// Ports are internal=host mappings, e.g. "8091=32769".
	Ports    []string
	Username string
	Password string
	// Services are service identifiers (kv, n1ql, index, fts, cbas,
	// eventing). Empty means the defaults.
	Services []string
	// Buckets are bucket definitions of the form name[:quotaMB].
	Buckets        []string
	FlushEnabled   bool
	NoPrimaryIndex bool
}

// provisionCluster runs the provisioning - replaced in tests.
var provisionCluster = cluster.Provision

// Provision builds a cluster spec from the parsed flags and drives a
// fresh node to a fully provisioned state.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	services := make([]spec.Service, 0, len(opts.Services))
	for _, s := range opts.Services {
		services = append(services, spec.Service(strings.TrimSpace(s)))
	}

	buckets := make([]spec.BucketSpec, 0, len(opts.Buckets))
	for _, def := range opts.Buckets {
		b, err := parseBucket(def, opts.FlushEnabled, opts.NoPrimaryIndex)
		if err != nil {
			return err
		}
		buckets = append(buckets, b)
	}

	cs, err := spec.NewCluster(spec.ClusterOptions{
		Username: opts.Username,
		Password: opts.Password,
		Services: services,
		Buckets:  buckets,
	})
	if err != nil {
		return err
	}

	ports, err := parsePorts(opts.Ports)
	if err != nil {
		return err
	}
	ep := cluster.Endpoint{
		Host:        opts.Host,
		InternalIP:  opts.InternalIP,
		MappedPorts: ports,
	}

	return provisionCluster(ctx, cs, ep)
}

// parseBucket parses a name[:quotaMB] bucket definition.
func parseBucket(def string, flushEnabled, noPrimaryIndex bool) (spec.BucketSpec, error) {
	name := def
	opts := spec.BucketOptions{
		FlushEnabled:   flushEnabled,
		NoPrimaryIndex: noPrimaryIndex,
	}
	if i := strings.IndexByte(def, ':'); i >= 0 {
		name = def[:i]
		quota, err := strconv.Atoi(def[i+1:])
		if err != nil {
			return spec.BucketSpec{}, fmt.Errorf("invalid bucket definition %q: quota must be an integer", def)
		}
		opts.QuotaMB = quota
	}
	return spec.NewBucket(name, opts)
}

// parsePorts parses internal=host port mappings.
func parsePorts(defs []string) (map[int]int, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	ports := make(map[int]int, len(defs))
	for _, def := range defs {
		internal, host, ok := strings.Cut(def, "=")
		if !ok {
			return nil, fmt.Errorf("invalid port mapping %q: expected internal=host", def)
		}
		in, err := strconv.Atoi(internal)
		if err != nil {
			return nil, fmt.Errorf("invalid port mapping %q: internal port must be an integer", def)
		}
		out, err := strconv.Atoi(host)
		if err != nil {
			return nil, fmt.Errorf("invalid port mapping %q: host port must be an integer", def)
		}
		ports[in] = out
	}
	return ports, nil
}
