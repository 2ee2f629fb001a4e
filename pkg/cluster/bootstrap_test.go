package cluster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralphs/testcontainers-couchbase/internal/poll"
	"github.com/kralphs/testcontainers-couchbase/pkg/rest"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

func testTimeouts() *Timeouts {
	return &Timeouts{
		Online:       60 * time.Second,
		Services:     30 * time.Second,
		Keyspace:     30 * time.Second,
		Index:        60 * time.Second,
		PollInterval: time.Second,
	}
}

func testOptions(mock *rest.MockClient) []Option {
	return []Option{
		WithClient(mock),
		WithObserver(NopObserver()),
		WithClock(poll.NewFakeClock(time.Unix(0, 0))),
		WithTimeouts(testTimeouts()),
	}
}

func mustCluster(t *testing.T, opts spec.ClusterOptions) *spec.ClusterSpec {
	t.Helper()
	c, err := spec.NewCluster(opts)
	require.NoError(t, err)
	return c
}

func TestProvision_BootstrapSequence(t *testing.T) {
	mock := &rest.MockClient{}
	cs := mustCluster(t, spec.ClusterOptions{})

	err := Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ClusterInfo",
		"RenameNode",
		"InitializeServices",
		"SetMemoryQuotas",
		"SetAdminCredentials",
		"SetExternalAddresses",
		"ConfigureIndexer",
	}, mock.Calls())
}

func TestProvision_ConnectivityTimeout(t *testing.T) {
	mock := &rest.MockClient{
		ClusterInfoFunc: func(context.Context) (*rest.PoolsInfo, error) {
			return nil, errors.New("connection refused")
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{})

	err := Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...)
	require.Error(t, err)

	var connErr *ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "localhost", connErr.Endpoint)
	assert.Zero(t, mock.CallCount("RenameNode"), "no later phase may run")
}

func TestProvision_EditionGateFiresBeforeAnyBucketCall(t *testing.T) {
	mock := &rest.MockClient{
		ClusterInfoFunc: func(context.Context) (*rest.PoolsInfo, error) {
			return &rest.PoolsInfo{IsEnterprise: false}, nil
		},
	}
	b, err := spec.NewBucket("b1", spec.BucketOptions{})
	require.NoError(t, err)
	cs := mustCluster(t, spec.ClusterOptions{
		Services: []spec.Service{spec.ServiceKV, spec.ServiceAnalytics},
		Buckets:  []spec.BucketSpec{b},
	})

	err = Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...)
	require.Error(t, err)

	var editionErr *EditionMismatchError
	require.ErrorAs(t, err, &editionErr)
	assert.Equal(t, spec.ServiceAnalytics, editionErr.Service)
	assert.Zero(t, mock.CallCount("CreateBucket"), "edition gate must fire before any bucket call")
	assert.Zero(t, mock.CallCount("RenameNode"))
}

func TestProvision_RecordsEditionOnce(t *testing.T) {
	mock := &rest.MockClient{
		ClusterInfoFunc: func(context.Context) (*rest.PoolsInfo, error) {
			return &rest.PoolsInfo{IsEnterprise: true}, nil
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{})

	require.NoError(t, Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...))
	assert.True(t, cs.EditionKnown())
	assert.True(t, cs.IsEnterprise())
}

func TestProvision_RenameUsesInternalIP(t *testing.T) {
	var renamed string
	mock := &rest.MockClient{
		RenameNodeFunc: func(_ context.Context, hostname string) error {
			renamed = hostname
			return nil
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{})

	ep := Endpoint{Host: "localhost", InternalIP: "172.17.0.2"}
	require.NoError(t, Provision(context.Background(), cs, ep, testOptions(mock)...))
	assert.Equal(t, "172.17.0.2", renamed)
}

func TestProvision_QuotaResolution(t *testing.T) {
	var got map[spec.Service]int
	mock := &rest.MockClient{
		SetMemoryQuotasFunc: func(_ context.Context, quotas map[spec.Service]int) error {
			got = quotas
			return nil
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{
		Services: []spec.Service{spec.ServiceKV, spec.ServiceQuery, spec.ServiceSearch},
		Quotas:   map[spec.Service]int{spec.ServiceKV: 512},
	})

	require.NoError(t, Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...))

	assert.Equal(t, map[spec.Service]int{
		spec.ServiceKV:     512, // caller override
		spec.ServiceSearch: 256, // service minimum
	}, got, "query service carries no quota")
}

func TestProvision_ExternalPortsOnlyForEnabledServices(t *testing.T) {
	var gotHost string
	var gotPorts map[string]int
	mock := &rest.MockClient{
		SetExternalAddressesFunc: func(_ context.Context, hostname string, ports map[string]int) error {
			gotHost = hostname
			gotPorts = ports
			return nil
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{
		Services: []spec.Service{spec.ServiceKV, spec.ServiceQuery},
	})

	ep := Endpoint{
		Host: "localhost",
		MappedPorts: map[int]int{
			8091:  32769,
			11210: 32775,
			8093:  32771,
		},
	}
	require.NoError(t, Provision(context.Background(), cs, ep, testOptions(mock)...))

	assert.Equal(t, "localhost", gotHost)
	assert.Equal(t, 32769, gotPorts["mgmt"])
	assert.Equal(t, 32775, gotPorts["kv"])
	assert.Equal(t, 32771, gotPorts["n1ql"])
	assert.Contains(t, gotPorts, "capi", "kv carries the legacy view ports")
	assert.NotContains(t, gotPorts, "fts", "disabled services are not registered")
	assert.NotContains(t, gotPorts, "cbas")
	// Unmapped ports pass through unchanged.
	assert.Equal(t, 11207, gotPorts["kvSSL"])
}

func TestProvision_IndexerStorageMode(t *testing.T) {
	tests := []struct {
		name       string
		enterprise bool
		want       string
	}{
		{"enterprise", true, "memory_optimized"},
		{"community", false, "forestdb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode string
			mock := &rest.MockClient{
				ClusterInfoFunc: func(context.Context) (*rest.PoolsInfo, error) {
					return &rest.PoolsInfo{IsEnterprise: tt.enterprise}, nil
				},
				ConfigureIndexerFunc: func(_ context.Context, storageMode string) error {
					mode = storageMode
					return nil
				},
			}
			cs := mustCluster(t, spec.ClusterOptions{})

			require.NoError(t, Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...))
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestProvision_IndexerSkippedWithoutIndexService(t *testing.T) {
	mock := &rest.MockClient{}
	cs := mustCluster(t, spec.ClusterOptions{
		Services: []spec.Service{spec.ServiceKV, spec.ServiceQuery},
	})

	require.NoError(t, Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...))
	assert.Zero(t, mock.CallCount("ConfigureIndexer"))
}

func TestProvision_BootstrapFailureBecomesConfigurationError(t *testing.T) {
	mock := &rest.MockClient{
		RenameNodeFunc: func(context.Context, string) error {
			return &rest.APIError{Method: "POST", Path: "/node/controller/rename", StatusCode: 400}
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{})

	err := Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "rename", cfgErr.Phase)

	var apiErr *rest.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Zero(t, mock.CallCount("InitializeServices"), "pipeline must stop at the failed phase")
}

func TestProvision_BecomesOnlineAfterRetries(t *testing.T) {
	attempts := 0
	mock := &rest.MockClient{
		ClusterInfoFunc: func(context.Context) (*rest.PoolsInfo, error) {
			attempts++
			if attempts < 4 {
				return nil, errors.New("connection refused")
			}
			return &rest.PoolsInfo{}, nil
		},
	}
	cs := mustCluster(t, spec.ClusterOptions{})

	require.NoError(t, Provision(context.Background(), cs, Endpoint{Host: "localhost"}, testOptions(mock)...))
	assert.Equal(t, 4, attempts)
}
