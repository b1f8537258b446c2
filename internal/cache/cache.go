// Package cache implements the namespaced LRU cache subsystem described in
// the cache design: five independently-sized stores, each guaranteeing
// at-most-one computation per key under concurrent access via singleflight,
// the way the teacher's indirect golang.org/x/sync dependency is put to use
// here for the first time as a direct one.
package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Default capacities per namespace (§4.8's table). Callers may override them
// by passing their own capacity to NewStore (processor.Options does this for
// the expression and compiled stores).
const (
	DefaultExpressionCapacity = 1024
	DefaultOptimizedCapacity  = 512
	DefaultCompiledCapacity   = 2048
	DefaultBuilderCapacity    = 512
	DefaultFileCapacity       = 256
)

// Store is one namespace: a fixed-capacity LRU guarded by a singleflight
// group so that concurrent GetOrCompute calls for the same key collapse
// into a single computation, per the "parse once" correctness requirement.
type Store[V any] struct {
	namespace string
	lru       *lru.Cache[uint64, V]
	group     singleflight.Group
	mu        sync.Mutex
}

// NewStore builds a namespace with the given capacity. A non-positive
// capacity disables caching for this namespace: GetOrCompute always calls
// compute and never consults or populates the LRU. Callers own the mapping
// from namespace name to default capacity (§4.8's table); processor and
// fileloader each construct one Store per namespace they need.
func NewStore[V any](namespace string, capacity int) (*Store[V], error) {
	if capacity <= 0 {
		return &Store[V]{namespace: namespace}, nil
	}
	l, err := lru.New[uint64, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("cache: building %s store: %w", namespace, err)
	}
	return &Store[V]{namespace: namespace, lru: l}, nil
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. Concurrent calls for the same key under contention share one
// in-flight computation.
func (s *Store[V]) GetOrCompute(key uint64, compute func() (V, error)) (V, error) {
	if s.lru == nil {
		return compute()
	}

	s.mu.Lock()
	if v, ok := s.lru.Get(key); ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	groupKey := fmt.Sprintf("%s:%d", s.namespace, key)
	v, err, _ := s.group.Do(groupKey, func() (any, error) {
		value, err := compute()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.lru.Add(key, value)
		s.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate removes key from the namespace. No package in this module calls
// it: the file loader puts a file's checksum into its cache key instead.
func (s *Store[V]) Invalidate(key uint64) {
	if s.lru == nil {
		return
	}
	s.mu.Lock()
	s.lru.Remove(key)
	s.mu.Unlock()
}

// Len reports the current number of entries, mainly for tests and metrics.
func (s *Store[V]) Len() int {
	if s.lru == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Purge clears every entry in the namespace.
func (s *Store[V]) Purge() {
	if s.lru == nil {
		return
	}
	s.mu.Lock()
	s.lru.Purge()
	s.mu.Unlock()
}
