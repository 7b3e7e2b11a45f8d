package redisz

import (
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNilClient is reported when Instrument is given no client.
var ErrNilClient = errors.New("redisz: nil client")

// registry remembers every live client Instrument has been called for. Keys
// are weak pointers, and an entry is dropped once its client is collected.
var registry = struct {
	clients map[interface{}]struct{}
	mu      sync.Mutex
}{
	clients: make(map[interface{}]struct{}),
}

// Instrument adds a tracing hook to rdb and returns it.
//
// Only the first call for a given client has any effect; later calls are
// no-ops, so a client never produces more than one span per command. A failed
// attempt on a real client still counts as the first call. Failures are logged
// and counted, never returned: rdb keeps working uninstrumented.
//
// Clients are tracked without being kept alive: a closed client that is no
// longer referenced is garbage collected as usual.
func Instrument(rdb redis.UniversalClient, opts ...Option) redis.UniversalClient {
	cfg := newConfig(opts)
	client := fmt.Sprintf("%T", rdb)

	first, err := install(rdb, cfg)
	switch {
	case err != nil:
		cfg.metrics.installFailed()
		cfg.logger.Warn("failed to apply Redis instrumentation",
			zap.String("client", client),
			zap.Error(err),
		)
	case !first:
		cfg.logger.Debug("Redis client already instrumented", zap.String("client", client))
	}

	return rdb
}

// Installed reports whether Instrument has been called for rdb.
func Installed(rdb redis.UniversalClient) bool {
	key, err := keyFor(rdb)
	if err != nil {
		return false
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	_, ok := registry.clients[key]
	return ok
}

// install marks rdb installed and adds the hook. first is false when rdb had
// already been marked by an earlier call.
func install(rdb redis.UniversalClient, cfg *config) (first bool, err error) {
	if _, err := keyFor(rdb); err != nil {
		return false, err
	}
	if !markInstalled(rdb) {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "redisz: adding hook")
			} else {
				err = errors.Errorf("redisz: adding hook: %v", r)
			}
		}
	}()

	rdb.AddHook(NewHook(newInterceptor(DescriptorFor(rdb), cfg)))
	return true, nil
}

// keyFor returns the registry key for rdb: a weak pointer to the client.
func keyFor(rdb redis.UniversalClient) (interface{}, error) {
	switch c := rdb.(type) {
	case nil:
		return nil, ErrNilClient
	case *redis.Client:
		return weakKey(c)
	case *redis.ClusterClient:
		return weakKey(c)
	case *redis.Ring:
		return weakKey(c)
	default:
		return nil, errors.Errorf("redisz: client type %T cannot be tracked", rdb)
	}
}

func weakKey[T any](c *T) (interface{}, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	return weak.Make(c), nil
}

// markInstalled sets the installed flag for rdb and reports whether this call
// was the one to set it. rdb must already have passed keyFor.
func markInstalled(rdb redis.UniversalClient) bool {
	switch c := rdb.(type) {
	case *redis.Client:
		return track(c)
	case *redis.ClusterClient:
		return track(c)
	default:
		return track(rdb.(*redis.Ring))
	}
}

// track adds c to the registry and arranges for the entry to be dropped when
// c is collected.
func track[T any](c *T) bool {
	key := weak.Make(c)

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.clients[key]; ok {
		return false
	}
	registry.clients[key] = struct{}{}
	runtime.AddCleanup(c, forget, interface{}(key))
	return true
}

func forget(key interface{}) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	delete(registry.clients, key)
}

