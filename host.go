package redisz

import (
	"net"

	"github.com/redis/go-redis/v9"
)

// Descriptor describes the connection a client talks to.
type Descriptor interface {
	// IsPathBased reports a local connection such as a unix domain socket.
	IsPathBased() bool
	// Host returns the remote host identifier.
	Host() string
}

// ResolveHost returns the display value for the remote host of d.
// Path-based connections resolve to Localhost. Anything that cannot be read,
// including a nil descriptor, a panicking accessor, or an empty host,
// resolves to Unknown. ResolveHost never panics.
func ResolveHost(d Descriptor) (host string) {
	defer func() {
		if r := recover(); r != nil {
			host = Unknown
		}
	}()

	if d == nil {
		return Unknown
	}
	if d.IsPathBased() {
		return Localhost
	}
	if host = d.Host(); host == "" {
		return Unknown
	}
	return host
}

// DescriptorFor adapts a go-redis client to a Descriptor.
// Returns nil for client types it does not know, which resolves to Unknown.
func DescriptorFor(rdb redis.UniversalClient) Descriptor {
	switch c := rdb.(type) {
	case *redis.Client:
		return clientDescriptor{client: c}
	case *redis.ClusterClient:
		return clusterDescriptor{client: c}
	case *redis.Ring:
		return ringDescriptor{client: c}
	default:
		return nil
	}
}

// clientDescriptor reads the options on every call; they are never cached.
type clientDescriptor struct {
	client *redis.Client
}

func (d clientDescriptor) IsPathBased() bool {
	return d.client.Options().Network == "unix"
}

// failoverAddr is the address go-redis gives sentinel-backed clients in place
// of the current master's.
const failoverAddr = "FailoverClient"

func (d clientDescriptor) Host() string {
	addr := d.client.Options().Addr
	if addr == failoverAddr {
		return ""
	}
	return hostOf(addr)
}

type clusterDescriptor struct {
	client *redis.ClusterClient
}

func (clusterDescriptor) IsPathBased() bool {
	return false
}

// Host reports the first seed address; the node serving a given command is
// not known to the hook.
func (d clusterDescriptor) Host() string {
	addrs := d.client.Options().Addrs
	if len(addrs) == 0 {
		return ""
	}
	return hostOf(addrs[0])
}

type ringDescriptor struct {
	client *redis.Ring
}

func (ringDescriptor) IsPathBased() bool {
	return false
}

// Host reports the address of the shard with the lowest name. Which shard a
// key hashes to is not known to the hook.
func (d ringDescriptor) Host() string {
	var name, addr string
	first := true
	for shard, a := range d.client.Options().Addrs {
		if first || shard < name {
			name, addr, first = shard, a, false
		}
	}
	return hostOf(addr)
}

// hostOf strips the port from addr. An address without a port is returned
// as is.
func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
