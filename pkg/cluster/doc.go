// Package cluster provisions a disposable single-node Couchbase
// cluster for integration testing.
//
// Provisioning runs in two halves. Bootstrap is a strictly sequential
// phase pipeline that takes a fresh node from unreachable to ready:
// wait for the REST API, discover the edition, rename the node to its
// internal address, initialize services, set memory quotas, configure
// admin credentials and external addresses, and set the indexer
// storage mode. After bootstrap, bucket provisioning fans out: all
// buckets concurrently, all scopes of a bucket concurrently, all
// collections of a scope concurrently, with strict ordering only
// inside a single collection (create, keyspace visible, primary
// index, secondary indexes).
//
// The control plane is eventually consistent, so every waiting step
// polls with a bounded timeout. A failing branch never cancels its
// siblings; failures are aggregated into the returned error.
package cluster
