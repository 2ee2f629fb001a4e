package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCluster_Defaults(t *testing.T) {
	c, err := NewCluster(ClusterOptions{})
	require.NoError(t, err)

	assert.Equal(t, DefaultUsername, c.Username)
	assert.Equal(t, DefaultPassword, c.Password)
	assert.True(t, c.HasService(ServiceKV))
	assert.True(t, c.HasService(ServiceQuery))
	assert.True(t, c.HasService(ServiceIndex))
	assert.False(t, c.HasService(ServiceAnalytics))
	assert.False(t, c.EditionKnown())
}

func TestNewCluster_ShortPassword(t *testing.T) {
	_, err := NewCluster(ClusterOptions{Username: "admin", Password: "pw"})
	assert.Error(t, err)
}

func TestNewCluster_UnknownService(t *testing.T) {
	_, err := NewCluster(ClusterOptions{Services: []Service{"views"}})
	assert.Error(t, err)
}

func TestNewCluster_QuotaOverride(t *testing.T) {
	c, err := NewCluster(ClusterOptions{
		Services: []Service{ServiceKV, ServiceIndex},
		Quotas:   map[Service]int{ServiceKV: 512},
	})
	require.NoError(t, err)

	assert.Equal(t, 512, c.QuotaFor(ServiceKV))
	assert.Equal(t, 256, c.QuotaFor(ServiceIndex))
}

func TestNewCluster_QuotaBelowMinimum(t *testing.T) {
	_, err := NewCluster(ClusterOptions{
		Quotas: map[Service]int{ServiceKV: 128},
	})
	assert.Error(t, err)
}

func TestNewCluster_QuotaForQueryService(t *testing.T) {
	_, err := NewCluster(ClusterOptions{
		Quotas: map[Service]int{ServiceQuery: 256},
	})
	assert.Error(t, err, "query service has no memory quota")
}

func TestRecordEdition_WriteOnce(t *testing.T) {
	c, err := NewCluster(ClusterOptions{})
	require.NoError(t, err)

	c.RecordEdition(true)
	assert.True(t, c.IsEnterprise())
	assert.True(t, c.EditionKnown())

	c.RecordEdition(false)
	assert.True(t, c.IsEnterprise(), "second write must be ignored")
}

func TestEnabledServices_CanonicalOrder(t *testing.T) {
	c, err := NewCluster(ClusterOptions{
		Services: []Service{ServiceIndex, ServiceKV, ServiceQuery},
	})
	require.NoError(t, err)

	assert.Equal(t, []Service{ServiceKV, ServiceQuery, ServiceIndex}, c.EnabledServices())
}

func TestNewBucket_Defaults(t *testing.T) {
	b, err := NewBucket("b1", BucketOptions{})
	require.NoError(t, err)

	assert.Equal(t, MinBucketQuotaMB, b.QuotaMB)
	assert.False(t, b.FlushEnabled)
	assert.True(t, b.PrimaryIndex)
	assert.Empty(t, b.Scopes)
}

func TestNewBucket_QuotaBelowFloor(t *testing.T) {
	_, err := NewBucket("b1", BucketOptions{QuotaMB: 64})
	assert.Error(t, err)
}

func TestNewBucket_EmptyName(t *testing.T) {
	_, err := NewBucket("", BucketOptions{})
	assert.Error(t, err)
}

func TestPutBucket_OverwritesDuplicateName(t *testing.T) {
	first, err := NewBucket("b1", BucketOptions{QuotaMB: 100})
	require.NoError(t, err)
	second, err := NewBucket("b1", BucketOptions{QuotaMB: 256, FlushEnabled: true})
	require.NoError(t, err)

	c, err := NewCluster(ClusterOptions{Buckets: []BucketSpec{first, second}})
	require.NoError(t, err)

	require.Len(t, c.Buckets, 1)
	assert.Equal(t, 256, c.Buckets["b1"].QuotaMB)
	assert.True(t, c.Buckets["b1"].FlushEnabled)
}

func TestWithScope_CopiesAndOverwrites(t *testing.T) {
	s1, err := NewScope("s1")
	require.NoError(t, err)

	b, err := NewBucket("b1", BucketOptions{})
	require.NoError(t, err)

	withScope := b.WithScope(s1)
	assert.Empty(t, b.Scopes, "original bucket must be unchanged")
	require.Len(t, withScope.Scopes, 1)

	col, err := NewCollection("c1", CollectionOptions{})
	require.NoError(t, err)
	replacement := s1.WithCollection(col)
	updated := withScope.WithScope(replacement)
	require.Len(t, updated.Scopes, 1)
	assert.Len(t, updated.Scopes["s1"].Collections, 1)
	assert.Empty(t, withScope.Scopes["s1"].Collections, "prior copy must be unchanged")
}

func TestNewCollection_Defaults(t *testing.T) {
	c, err := NewCollection("c1", CollectionOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, c.MaxTTL)
	assert.True(t, c.PrimaryIndex)
	assert.Empty(t, c.SecondaryIndexes)
}

func TestNewCollection_SecondaryIndexOrderPreserved(t *testing.T) {
	ddls := []string{
		"CREATE INDEX ix_a ON `b1`.`s1`.`c1`(a)",
		"CREATE INDEX ix_b ON `b1`.`s1`.`c1`(b)",
	}
	c, err := NewCollection("c1", CollectionOptions{SecondaryIndexes: ddls, NoPrimaryIndex: true})
	require.NoError(t, err)

	assert.Equal(t, ddls, c.SecondaryIndexes)
	assert.False(t, c.PrimaryIndex)
}

func TestService_Quotas(t *testing.T) {
	tests := []struct {
		svc   Service
		min   int
		field string
	}{
		{ServiceKV, 256, "memoryQuota"},
		{ServiceQuery, 0, ""},
		{ServiceIndex, 256, "indexMemoryQuota"},
		{ServiceSearch, 256, "ftsMemoryQuota"},
		{ServiceAnalytics, 1024, "cbasMemoryQuota"},
		{ServiceEventing, 256, "eventingMemoryQuota"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.min, tt.svc.MinQuotaMB(), string(tt.svc))
		assert.Equal(t, tt.field, tt.svc.QuotaField(), string(tt.svc))
	}
}

func TestService_EnterpriseOnly(t *testing.T) {
	assert.True(t, ServiceAnalytics.EnterpriseOnly())
	assert.True(t, ServiceEventing.EnterpriseOnly())
	assert.False(t, ServiceKV.EnterpriseOnly())
	assert.False(t, ServiceQuery.EnterpriseOnly())
}

func TestService_KVCarriesViewPorts(t *testing.T) {
	pairs := ServiceKV.PortPairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "kv", pairs[0].Field)
	assert.Equal(t, "capi", pairs[1].Field)
}
