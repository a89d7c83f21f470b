// Package cache provides a concurrency-safe memoizing cache used to avoid
// recomputing expensive pairwise distances (Levenshtein, weighted edit
// distance) for the same pair of lines twice, plus the key types needed for
// ordered and order-independent (symmetric) lookups.
package cache

import "sync"

// goldenRatio64 is the hash-combine constant floor(2^63 * (sqrt(5)-1)),
// the same constant used by Boost's hash_combine and its C++ ancestors.
const goldenRatio64 uint64 = 0x9e3779b97f4a7c15

// Combine folds h into seed using the golden-ratio hash-combine formula.
// The shift is digits-2 (62 for a 64-bit key), not an arbitrary small
// constant: using too small a shift barely perturbs seed's low bits before
// the XOR, giving the combine step far less avalanche than intended.
func Combine(seed, h uint64) uint64 {
	return seed ^ (h + goldenRatio64 + (seed << 62) + (seed >> 2))
}

// MultiHash folds a sequence of hashes, right-to-left, into one combined
// hash.
func MultiHash(hashes ...uint64) uint64 {
	var seed uint64
	for i := len(hashes) - 1; i >= 0; i-- {
		seed = Combine(seed, hashes[i])
	}
	return seed
}

// SymmetricMultiHash combines two hashes order-independently: combining
// (a, b) and (b, a) always produces the same result.
func SymmetricMultiHash(a, b uint64) uint64 {
	if a > b {
		a, b = b, a
	}
	return MultiHash(a, b)
}

// HashFunc computes a 64-bit hash for a key. It need not be
// collision-resistant; it is used only to pick a canonical ordering for
// symmetric pair keys.
type HashFunc[K any] func(K) uint64

// OrderedPair is a lookup key for two order-sensitive arguments: looking up
// (a, b) is distinct from looking up (b, a).
type OrderedPair[K comparable] struct {
	A, B K
}

// SymmetricPair is a lookup key for two arguments where the operation being
// cached is order-independent: f(a, b) == f(b, a). Build one with
// NewSymmetricPair so that (a, b) and (b, a) always produce the same key.
type SymmetricPair[K comparable] struct {
	A, B K
}

// NewSymmetricPair canonicalizes a and b by their hash so that the pair
// (a, b) and the pair (b, a) produce an identical key.
func NewSymmetricPair[K comparable](a, b K, hash HashFunc[K]) SymmetricPair[K] {
	if hash(a) > hash(b) {
		a, b = b, a
	}
	return SymmetricPair[K]{A: a, B: b}
}

// Cache memoizes values of type V keyed by K. It is safe for concurrent
// use: a lookup takes a shared read lock on a hit; a miss escalates to an
// exclusive write lock and rechecks the map before computing, so two
// goroutines racing on the same missing key never compute it twice.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

// New creates an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{items: make(map[K]V)}
}

// GetOrCompute returns the cached value for key, computing it with compute
// and storing the result if key is not yet present.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() V) V {
	c.mu.RLock()
	if v, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v
	}
	v := compute()
	c.items[key] = v
	return v
}

// Get returns the cached value for key and whether it was present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
