// Package spec defines the immutable specification tree for a test
// cluster: ClusterSpec → BucketSpec → ScopeSpec → CollectionSpec.
//
// Specs are plain data built through constructors that validate at
// construction time. Once a spec is handed to the provisioner it must
// not be modified; the discovered cluster edition is the single
// exception and is recorded exactly once during bootstrap.
package spec
