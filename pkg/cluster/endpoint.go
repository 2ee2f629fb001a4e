package cluster

// Endpoint describes how to reach a running node: the externally
// visible host, the node's internal network address, and the mapping
// from internal ports to host-mapped ports. Whatever runs the
// container resolves these values; the provisioner only consumes them.
type Endpoint struct {
	// Host is the externally reachable hostname or address.
	Host string

	// InternalIP is the node's address on the container network. The
	// node is renamed to it during bootstrap so the SDK can later
	// distinguish internal from external addressing. Falls back to
	// Host when empty.
	InternalIP string

	// MappedPorts maps internal ports to host ports. A missing entry
	// means the port is reachable unmapped.
	MappedPorts map[int]int
}

// Port resolves an internal port to its host-mapped port.
func (e Endpoint) Port(internal int) int {
	if p, ok := e.MappedPorts[internal]; ok {
		return p
	}
	return internal
}

func (e Endpoint) internalHost() string {
	if e.InternalIP != "" {
		return e.InternalIP
	}
	return e.Host
}
