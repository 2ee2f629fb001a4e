package spec

// Service identifies a Couchbase cluster service by the identifier the
// REST API uses for service setup.
type Service string

const (
	// ServiceKV is the key-value data service.
	ServiceKV Service = "kv"
	// ServiceQuery is the N1QL query service.
	ServiceQuery Service = "n1ql"
	// ServiceIndex is the global secondary index service.
	ServiceIndex Service = "index"
	// ServiceSearch is the full-text search service.
	ServiceSearch Service = "fts"
	// ServiceAnalytics is the analytics service (enterprise only).
	ServiceAnalytics Service = "cbas"
	// ServiceEventing is the eventing service (enterprise only).
	ServiceEventing Service = "eventing"
)

// AllServices returns every known service in canonical order.
func AllServices() []Service {
	return []Service{ServiceKV, ServiceQuery, ServiceIndex, ServiceSearch, ServiceAnalytics, ServiceEventing}
}

// IsValid returns true if the service identifier is known.
func (s Service) IsValid() bool {
	switch s {
	case ServiceKV, ServiceQuery, ServiceIndex, ServiceSearch, ServiceAnalytics, ServiceEventing:
		return true
	default:
		return false
	}
}

// MinQuotaMB returns the fixed minimum memory quota for the service.
// The query service has no memory quota and returns 0.
func (s Service) MinQuotaMB() int {
	switch s {
	case ServiceKV, ServiceIndex, ServiceSearch, ServiceEventing:
		return 256
	case ServiceAnalytics:
		return 1024
	default:
		return 0
	}
}

// QuotaField returns the form field used when submitting the service's
// memory quota to POST /pools/default. The KV service uses the bare
// field name; all other services carry a service prefix.
func (s Service) QuotaField() string {
	switch s {
	case ServiceKV:
		return "memoryQuota"
	case ServiceIndex:
		return "indexMemoryQuota"
	case ServiceSearch:
		return "ftsMemoryQuota"
	case ServiceAnalytics:
		return "cbasMemoryQuota"
	case ServiceEventing:
		return "eventingMemoryQuota"
	default:
		return ""
	}
}

// EnterpriseOnly returns true for services only available on
// enterprise-edition clusters.
func (s Service) EnterpriseOnly() bool {
	return s == ServiceAnalytics || s == ServiceEventing
}

// PortPair describes one plain/TLS port pair a service listens on,
// together with the field names used when registering alternate
// addresses via PUT /node/controller/setupAlternateAddresses/external.
type PortPair struct {
	Field    string
	TLSField string
	Port     int
	TLSPort  int
}

// PortPairs returns the port pairs the service exposes. KV additionally
// carries the legacy view-service (capi) ports. Services without an
// externally addressable port return nil.
func (s Service) PortPairs() []PortPair {
	switch s {
	case ServiceKV:
		return []PortPair{
			{Field: "kv", TLSField: "kvSSL", Port: 11210, TLSPort: 11207},
			{Field: "capi", TLSField: "capiSSL", Port: 8092, TLSPort: 18092},
		}
	case ServiceQuery:
		return []PortPair{{Field: "n1ql", TLSField: "n1qlSSL", Port: 8093, TLSPort: 18093}}
	case ServiceIndex:
		return []PortPair{{Field: "indexHttp", TLSField: "indexHttps", Port: 9102, TLSPort: 19102}}
	case ServiceSearch:
		return []PortPair{{Field: "fts", TLSField: "ftsSSL", Port: 8094, TLSPort: 18094}}
	case ServiceAnalytics:
		return []PortPair{{Field: "cbas", TLSField: "cbasSSL", Port: 8095, TLSPort: 18095}}
	case ServiceEventing:
		return []PortPair{{Field: "eventingAdminPort", TLSField: "eventingSSL", Port: 8096, TLSPort: 18096}}
	default:
		return nil
	}
}

// ManagementPortPair returns the cluster-manager port pair. It is
// registered as an alternate address regardless of enabled services.
func ManagementPortPair() PortPair {
	return PortPair{Field: "mgmt", TLSField: "mgmtSSL", Port: 8091, TLSPort: 18091}
}
