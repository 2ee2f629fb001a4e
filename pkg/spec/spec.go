package spec

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is compiled once at package init for spec validation.
var validate = validator.New()

const (
	// DefaultUsername is the admin username used when none is given.
	DefaultUsername = "Administrator"
	// DefaultPassword is the admin password used when none is given.
	DefaultPassword = "password"
	// MinBucketQuotaMB is the smallest bucket quota the server accepts.
	MinBucketQuotaMB = 100
)

// ClusterSpec describes the desired state of a single-node test
// cluster: admin credentials, enabled services, per-service quota
// overrides, and the buckets to provision.
//
// All fields are fixed once the spec is handed to the provisioner.
// The discovered edition is the sole exception: it is recorded exactly
// once during bootstrap, before any bucket work starts.
type ClusterSpec struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=6"`

	// Services is the set of enabled services.
	Services map[Service]bool

	// Quotas overrides the fixed minimum memory quota (MB) per service.
	Quotas map[Service]int

	// Buckets is keyed by bucket name; inserting a duplicate name
	// overwrites the prior definition.
	Buckets map[string]BucketSpec

	enterprise   bool
	editionKnown bool
}

// ClusterOptions configures NewCluster.
type ClusterOptions struct {
	Username string
	Password string
	// Services defaults to kv, n1ql, index when empty.
	Services []Service
	// Quotas overrides per-service minimum quotas (MB).
	Quotas map[Service]int
	// Buckets are inserted in order; later duplicates overwrite.
	Buckets []BucketSpec
}

// NewCluster builds a validated ClusterSpec.
func NewCluster(opts ClusterOptions) (*ClusterSpec, error) {
	c := &ClusterSpec{
		Username: opts.Username,
		Password: opts.Password,
		Services: make(map[Service]bool),
		Quotas:   make(map[Service]int),
		Buckets:  make(map[string]BucketSpec),
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Password == "" {
		c.Password = DefaultPassword
	}

	services := opts.Services
	if len(services) == 0 {
		services = []Service{ServiceKV, ServiceQuery, ServiceIndex}
	}
	for _, svc := range services {
		if !svc.IsValid() {
			return nil, fmt.Errorf("unknown service %q", svc)
		}
		c.Services[svc] = true
	}

	for svc, mb := range opts.Quotas {
		if !svc.IsValid() {
			return nil, fmt.Errorf("quota for unknown service %q", svc)
		}
		if svc.MinQuotaMB() == 0 {
			return nil, fmt.Errorf("service %q does not take a memory quota", svc)
		}
		if mb < svc.MinQuotaMB() {
			return nil, fmt.Errorf("quota %dMB for service %q is below the minimum %dMB", mb, svc, svc.MinQuotaMB())
		}
		c.Quotas[svc] = mb
	}

	for _, b := range opts.Buckets {
		c.Buckets[b.Name] = b
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid cluster spec: %w", err)
	}
	return c, nil
}

// PutBucket inserts a bucket definition, overwriting any prior bucket
// with the same name. Must not be called once provisioning starts.
func (c *ClusterSpec) PutBucket(b BucketSpec) {
	c.Buckets[b.Name] = b
}

// HasService reports whether the given service is enabled.
func (c *ClusterSpec) HasService(s Service) bool {
	return c.Services[s]
}

// EnabledServices returns the enabled services in canonical order.
func (c *ClusterSpec) EnabledServices() []Service {
	var out []Service
	for _, svc := range AllServices() {
		if c.Services[svc] {
			out = append(out, svc)
		}
	}
	return out
}

// QuotaFor resolves the memory quota for a service: the caller
// override if present, otherwise the service's fixed minimum.
func (c *ClusterSpec) QuotaFor(s Service) int {
	if mb, ok := c.Quotas[s]; ok {
		return mb
	}
	return s.MinQuotaMB()
}

// RecordEdition stores the discovered cluster edition. The first call
// wins; subsequent calls are ignored.
func (c *ClusterSpec) RecordEdition(enterprise bool) {
	if c.editionKnown {
		return
	}
	c.enterprise = enterprise
	c.editionKnown = true
}

// IsEnterprise reports the discovered edition. It is false until the
// edition has been recorded during bootstrap.
func (c *ClusterSpec) IsEnterprise() bool {
	return c.enterprise
}

// EditionKnown reports whether the edition has been discovered.
func (c *ClusterSpec) EditionKnown() bool {
	return c.editionKnown
}

// BucketSpec describes one bucket and its scopes.
type BucketSpec struct {
	Name string `validate:"required"`

	// QuotaMB is the bucket memory quota, at least 100.
	QuotaMB int `validate:"gte=100"`

	// FlushEnabled allows the bucket to be flushed via the REST API.
	FlushEnabled bool

	// PrimaryIndex requests a primary index on the bucket. The index is
	// only built when the query service is enabled.
	PrimaryIndex bool

	// Scopes is keyed by scope name; duplicates overwrite.
	Scopes map[string]ScopeSpec
}

// BucketOptions configures NewBucket. The zero value yields the
// defaults: 100MB quota, flush disabled, primary index enabled.
type BucketOptions struct {
	QuotaMB        int
	FlushEnabled   bool
	NoPrimaryIndex bool
	// Scopes are inserted in order; later duplicates overwrite.
	Scopes []ScopeSpec
}

// NewBucket builds a validated BucketSpec.
func NewBucket(name string, opts BucketOptions) (BucketSpec, error) {
	b := BucketSpec{
		Name:         name,
		QuotaMB:      opts.QuotaMB,
		FlushEnabled: opts.FlushEnabled,
		PrimaryIndex: !opts.NoPrimaryIndex,
		Scopes:       make(map[string]ScopeSpec),
	}
	if b.QuotaMB == 0 {
		b.QuotaMB = MinBucketQuotaMB
	}
	for _, s := range opts.Scopes {
		b.Scopes[s.Name] = s
	}
	if err := validate.Struct(b); err != nil {
		return BucketSpec{}, fmt.Errorf("invalid bucket spec %q: %w", name, err)
	}
	return b, nil
}

// WithScope returns a copy of the bucket with the scope inserted,
// overwriting any prior scope of the same name.
func (b BucketSpec) WithScope(s ScopeSpec) BucketSpec {
	scopes := make(map[string]ScopeSpec, len(b.Scopes)+1)
	for name, sc := range b.Scopes {
		scopes[name] = sc
	}
	scopes[s.Name] = s
	b.Scopes = scopes
	return b
}

// ScopeSpec describes one scope and its collections.
type ScopeSpec struct {
	Name string `validate:"required"`

	// Collections is keyed by collection name; duplicates overwrite.
	Collections map[string]CollectionSpec
}

// NewScope builds a validated ScopeSpec. Collections are inserted in
// order; later duplicates overwrite.
func NewScope(name string, collections ...CollectionSpec) (ScopeSpec, error) {
	s := ScopeSpec{
		Name:        name,
		Collections: make(map[string]CollectionSpec),
	}
	for _, c := range collections {
		s.Collections[c.Name] = c
	}
	if err := validate.Struct(s); err != nil {
		return ScopeSpec{}, fmt.Errorf("invalid scope spec %q: %w", name, err)
	}
	return s, nil
}

// WithCollection returns a copy of the scope with the collection
// inserted, overwriting any prior collection of the same name.
func (s ScopeSpec) WithCollection(c CollectionSpec) ScopeSpec {
	collections := make(map[string]CollectionSpec, len(s.Collections)+1)
	for name, col := range s.Collections {
		collections[name] = col
	}
	collections[c.Name] = c
	s.Collections = collections
	return s
}

// CollectionSpec describes one collection and its indexes.
type CollectionSpec struct {
	Name string `validate:"required"`

	// MaxTTL is the document expiry in seconds; 0 means no expiration.
	MaxTTL int `validate:"gte=0"`

	// PrimaryIndex requests a primary index on the collection. The
	// index is only built when the query service is enabled.
	PrimaryIndex bool

	// SecondaryIndexes holds complete index DDL statements, issued in
	// order. The statements are opaque to the provisioner.
	SecondaryIndexes []string
}

// CollectionOptions configures NewCollection. The zero value yields the
// defaults: no expiry, primary index enabled, no secondary indexes.
type CollectionOptions struct {
	MaxTTL           int
	NoPrimaryIndex   bool
	SecondaryIndexes []string
}

// NewCollection builds a validated CollectionSpec.
func NewCollection(name string, opts CollectionOptions) (CollectionSpec, error) {
	c := CollectionSpec{
		Name:             name,
		MaxTTL:           opts.MaxTTL,
		PrimaryIndex:     !opts.NoPrimaryIndex,
		SecondaryIndexes: append([]string(nil), opts.SecondaryIndexes...),
	}
	if err := validate.Struct(c); err != nil {
		return CollectionSpec{}, fmt.Errorf("invalid collection spec %q: %w", name, err)
	}
	return c, nil
}
