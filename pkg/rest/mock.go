package rest

import (
	"context"
	"sync"

	"github.com/kralphs/testcontainers-couchbase/pkg/spec"
)

// MockClient is a func-field mock implementation of Client. A nil
// field succeeds with a zero-value response. Every invocation is
// recorded, so tests can assert which calls were (not) issued.
type MockClient struct {
	mu    sync.Mutex
	calls []string

	ClusterInfoFunc          func(ctx context.Context) (*PoolsInfo, error)
	RenameNodeFunc           func(ctx context.Context, hostname string) error
	InitializeServicesFunc   func(ctx context.Context, services []spec.Service) error
	SetMemoryQuotasFunc      func(ctx context.Context, quotas map[spec.Service]int) error
	SetAdminCredentialsFunc  func(ctx context.Context, username, password string) error
	SetExternalAddressesFunc func(ctx context.Context, hostname string, ports map[string]int) error
	ConfigureIndexerFunc     func(ctx context.Context, storageMode string) error
	CreateBucketFunc         func(ctx context.Context, name string, quotaMB int, flushEnabled bool) error
	BucketConfigFunc         func(ctx context.Context, name string) (*TerseConfig, error)
	CreateScopeFunc          func(ctx context.Context, bucket, scope string) error
	CreateCollectionFunc     func(ctx context.Context, bucket, scope, collection string, maxTTL int) error
	QueryFunc                func(ctx context.Context, statement string) (*QueryResult, error)
}

func (m *MockClient) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns a copy of the recorded call names in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how often the named operation was invoked.
func (m *MockClient) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

// ClusterInfo implements NodeManager.
func (m *MockClient) ClusterInfo(ctx context.Context) (*PoolsInfo, error) {
	m.record("ClusterInfo")
	if m.ClusterInfoFunc != nil {
		return m.ClusterInfoFunc(ctx)
	}
	return &PoolsInfo{}, nil
}

// RenameNode implements NodeManager.
func (m *MockClient) RenameNode(ctx context.Context, hostname string) error {
	m.record("RenameNode")
	if m.RenameNodeFunc != nil {
		return m.RenameNodeFunc(ctx, hostname)
	}
	return nil
}

// InitializeServices implements NodeManager.
func (m *MockClient) InitializeServices(ctx context.Context, services []spec.Service) error {
	m.record("InitializeServices")
	if m.InitializeServicesFunc != nil {
		return m.InitializeServicesFunc(ctx, services)
	}
	return nil
}

// SetMemoryQuotas implements NodeManager.
func (m *MockClient) SetMemoryQuotas(ctx context.Context, quotas map[spec.Service]int) error {
	m.record("SetMemoryQuotas")
	if m.SetMemoryQuotasFunc != nil {
		return m.SetMemoryQuotasFunc(ctx, quotas)
	}
	return nil
}

// SetAdminCredentials implements NodeManager.
func (m *MockClient) SetAdminCredentials(ctx context.Context, username, password string) error {
	m.record("SetAdminCredentials")
	if m.SetAdminCredentialsFunc != nil {
		return m.SetAdminCredentialsFunc(ctx, username, password)
	}
	return nil
}

// SetExternalAddresses implements NodeManager.
func (m *MockClient) SetExternalAddresses(ctx context.Context, hostname string, ports map[string]int) error {
	m.record("SetExternalAddresses")
	if m.SetExternalAddressesFunc != nil {
		return m.SetExternalAddressesFunc(ctx, hostname, ports)
	}
	return nil
}

// ConfigureIndexer implements NodeManager.
func (m *MockClient) ConfigureIndexer(ctx context.Context, storageMode string) error {
	m.record("ConfigureIndexer")
	if m.ConfigureIndexerFunc != nil {
		return m.ConfigureIndexerFunc(ctx, storageMode)
	}
	return nil
}

// CreateBucket implements BucketManager.
func (m *MockClient) CreateBucket(ctx context.Context, name string, quotaMB int, flushEnabled bool) error {
	m.record("CreateBucket")
	if m.CreateBucketFunc != nil {
		return m.CreateBucketFunc(ctx, name, quotaMB, flushEnabled)
	}
	return nil
}

// BucketConfig implements BucketManager.
func (m *MockClient) BucketConfig(ctx context.Context, name string) (*TerseConfig, error) {
	m.record("BucketConfig")
	if m.BucketConfigFunc != nil {
		return m.BucketConfigFunc(ctx, name)
	}
	return &TerseConfig{Name: name, NodesExt: []TerseExtNode{{Services: AllServicePorts()}}}, nil
}

// CreateScope implements BucketManager.
func (m *MockClient) CreateScope(ctx context.Context, bucket, scope string) error {
	m.record("CreateScope")
	if m.CreateScopeFunc != nil {
		return m.CreateScopeFunc(ctx, bucket, scope)
	}
	return nil
}

// CreateCollection implements BucketManager.
func (m *MockClient) CreateCollection(ctx context.Context, bucket, scope, collection string, maxTTL int) error {
	m.record("CreateCollection")
	if m.CreateCollectionFunc != nil {
		return m.CreateCollectionFunc(ctx, bucket, scope, collection, maxTTL)
	}
	return nil
}

// Query implements QueryRunner.
func (m *MockClient) Query(ctx context.Context, statement string) (*QueryResult, error) {
	m.record("Query")
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, statement)
	}
	return &QueryResult{Status: "success"}, nil
}

// AllServicePorts returns a nodesExt services map listing every known
// service, as a fully provisioned single node would report it.
func AllServicePorts() map[string]int {
	return map[string]int{
		"mgmt":              8091,
		"kv":                11210,
		"kvSSL":             11207,
		"capi":              8092,
		"n1ql":              8093,
		"n1qlSSL":           18093,
		"indexHttp":         9102,
		"fts":               8094,
		"cbas":              8095,
		"eventingAdminPort": 8096,
	}
}
