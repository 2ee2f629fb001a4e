package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralphs/testcontainers-couchbase/pkg/cluster"
	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origProvision := provisionCluster
	t.Cleanup(func() {
		provisionCluster = origProvision
	})
}

func TestProvision_BuildsSpecFromFlags(t *testing.T) {
	saveAndRestoreFactories(t)

	var gotSpec *spec.ClusterSpec
	var gotEndpoint cluster.Endpoint
	provisionCluster = func(_ context.Context, cs *spec.ClusterSpec, ep cluster.Endpoint, _ ...cluster.Option) error {
		gotSpec = cs
		gotEndpoint = ep
		return nil
	}

	err := Provision(context.Background(), ProvisionOptions{
		Host:       "localhost",
		InternalIP: "172.17.0.2",
		Ports:      []string{"8091=32769", "8093=32771"},
		Username:   "admin",
		Password:   "secret123",
		Services:   []string{"kv", "n1ql"},
		Buckets:    []string{"main:256", "cache"},
	})
	require.NoError(t, err)

	require.NotNil(t, gotSpec)
	assert.Equal(t, "admin", gotSpec.Username)
	assert.Equal(t, "secret123", gotSpec.Password)
	assert.Equal(t, []spec.Service{spec.ServiceKV, spec.ServiceQuery}, gotSpec.EnabledServices())

	require.Contains(t, gotSpec.Buckets, "main")
	assert.Equal(t, 256, gotSpec.Buckets["main"].QuotaMB)
	require.Contains(t, gotSpec.Buckets, "cache")
	assert.Equal(t, spec.MinBucketQuotaMB, gotSpec.Buckets["cache"].QuotaMB)
	assert.True(t, gotSpec.Buckets["main"].PrimaryIndex)

	assert.Equal(t, "localhost", gotEndpoint.Host)
	assert.Equal(t, "172.17.0.2", gotEndpoint.InternalIP)
	assert.Equal(t, map[int]int{8091: 32769, 8093: 32771}, gotEndpoint.MappedPorts)
}

func TestProvision_NoPrimaryIndexAppliesToAllBuckets(t *testing.T) {
	saveAndRestoreFactories(t)

	var gotSpec *spec.ClusterSpec
	provisionCluster = func(_ context.Context, cs *spec.ClusterSpec, _ cluster.Endpoint, _ ...cluster.Option) error {
		gotSpec = cs
		return nil
	}

	err := Provision(context.Background(), ProvisionOptions{
		Host:           "localhost",
		Buckets:        []string{"a", "b"},
		NoPrimaryIndex: true,
	})
	require.NoError(t, err)

	assert.False(t, gotSpec.Buckets["a"].PrimaryIndex)
	assert.False(t, gotSpec.Buckets["b"].PrimaryIndex)
}

func TestProvision_InvalidBucketQuota(t *testing.T) {
	saveAndRestoreFactories(t)

	provisionCluster = func(context.Context, *spec.ClusterSpec, cluster.Endpoint, ...cluster.Option) error {
		t.Fatal("provisioning must not run with invalid flags")
		return nil
	}

	err := Provision(context.Background(), ProvisionOptions{
		Host:    "localhost",
		Buckets: []string{"main:huge"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota must be an integer")
}

func TestProvision_InvalidPortMapping(t *testing.T) {
	saveAndRestoreFactories(t)

	provisionCluster = func(context.Context, *spec.ClusterSpec, cluster.Endpoint, ...cluster.Option) error {
		t.Fatal("provisioning must not run with invalid flags")
		return nil
	}

	err := Provision(context.Background(), ProvisionOptions{
		Host:  "localhost",
		Ports: []string{"8091"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected internal=host")
}

func TestProvision_UnknownService(t *testing.T) {
	saveAndRestoreFactories(t)

	err := Provision(context.Background(), ProvisionOptions{
		Host:     "localhost",
		Services: []string{"kv", "carrier-pigeon"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown service")
}

func TestProvision_PropagatesClusterError(t *testing.T) {
	saveAndRestoreFactories(t)

	wantErr := errors.New("node never came up")
	provisionCluster = func(context.Context, *spec.ClusterSpec, cluster.Endpoint, ...cluster.Option) error {
		return wantErr
	}

	err := Provision(context.Background(), ProvisionOptions{Host: "localhost"})
	assert.ErrorIs(t, err, wantErr)
}
