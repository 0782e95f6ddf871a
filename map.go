package immutable

import "iter"

// Map is a persistent, unordered key-value collection backed by a hash
// array mapped trie. The zero value is a valid empty Map that hashes keys
// with DefaultHasher; use EmptyMap, FromMap, or FromPairs to configure a
// different Hasher or a default-fallback callback.
type Map[K comparable, V any] struct {
	root     *hamtNode[K, V]
	hasher   Hasher[K]
	fallback func(K) (V, bool)
}

func (m Map[K, V]) rootNode() *hamtNode[K, V] {
	if m.root == nil {
		return emptyHAMTNode[K, V]()
	}
	return m.root
}

func (m Map[K, V]) hasherOrDefault() Hasher[K] {
	if m.hasher != nil {
		return m.hasher
	}
	return DefaultHasher[K]()
}

// EmptyMap returns the empty Map, hashing keys with h. An optional
// default-fallback callback, invoked by FetchDefault on a missing key, can
// be supplied as the second argument.
func EmptyMap[K comparable, V any](h Hasher[K], fallback ...func(K) (V, bool)) Map[K, V] {
	m := Map[K, V]{hasher: h}
	if len(fallback) > 0 {
		m.fallback = fallback[0]
	}
	return m
}

// FromMap builds a Map from a native map, hashing keys with h.
func FromMap[K comparable, V any](source map[K]V, h Hasher[K], fallback ...func(K) (V, bool)) Map[K, V] {
	b := EmptyMap[K, V](h, fallback...).Transient()
	for k, v := range source {
		b.Set(k, v)
	}
	return b.Persist()
}

// FromPairs builds a Map from a sequence of [2]any{key, value} pairs,
// hashing keys with h. Each pair's first element must be a K and second a
// V; FromPairs panics otherwise, since a malformed literal pair list is a
// programmer error.
func FromPairs[K comparable, V any](pairs [][2]any, h Hasher[K], fallback ...func(K) (V, bool)) Map[K, V] {
	b := EmptyMap[K, V](h, fallback...).Transient()
	for _, pair := range pairs {
		b.Set(pair[0].(K), pair[1].(V))
	}
	return b.Persist()
}

// Len returns the number of entries in m.
func (m Map[K, V]) Len() int {
	return m.rootNode().count
}

// IsEmpty reports whether m has no entries.
func (m Map[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Get returns the value for k, failing with ErrKeyNotFound if absent.
func (m Map[K, V]) Get(k K) (V, error) {
	val, ok := m.rootNode().get(k, m.hasherOrDefault().Hash(k))
	if !ok {
		var zero V
		return zero, wrap(ErrKeyNotFound)
	}
	return val, nil
}

// TryGet is the non-failing form of Get.
func (m Map[K, V]) TryGet(k K) (V, bool) {
	return m.rootNode().get(k, m.hasherOrDefault().Hash(k))
}

// Fetch returns the value for k, or dflt if absent.
func (m Map[K, V]) Fetch(k K, dflt V) V {
	if val, ok := m.TryGet(k); ok {
		return val
	}
	return dflt
}

// FetchFunc returns the value for k, or the result of calling orElse if
// absent. orElse is only invoked on a miss.
func (m Map[K, V]) FetchFunc(k K, orElse func(K) V) V {
	if val, ok := m.TryGet(k); ok {
		return val
	}
	return orElse(k)
}

// FetchDefault returns the value for k, falling back to the callback
// configured on m (via EmptyMap/FromMap/FromPairs) when k is absent, and
// failing with ErrKeyNotFound if no such callback was configured or it
// also reports a miss. Like Fetch/FetchFunc, it never inserts k into m.
func (m Map[K, V]) FetchDefault(k K) (V, error) {
	if val, ok := m.TryGet(k); ok {
		return val, nil
	}
	if m.fallback != nil {
		if val, ok := m.fallback(k); ok {
			return val, nil
		}
	}
	var zero V
	return zero, wrap(ErrKeyNotFound)
}

// HasKey reports whether k is present in m.
func (m Map[K, V]) HasKey(k K) bool {
	_, ok := m.TryGet(k)
	return ok
}

// Set returns a Map with k associated to val, replacing any prior value.
func (m Map[K, V]) Set(k K, val V) Map[K, V] {
	entry := hamtEntry[K, V]{key: k, value: val, hash: m.hasherOrDefault().Hash(k)}
	newRoot, _ := m.rootNode().set(entry, 0)
	return Map[K, V]{root: newRoot, hasher: m.hasher, fallback: m.fallback}
}

// Delete returns a Map with k removed, failing with ErrKeyNotFound if k
// was not present.
func (m Map[K, V]) Delete(k K) (Map[K, V], error) {
	newRoot, deleted := m.rootNode().delete(k, m.hasherOrDefault().Hash(k), 0)
	if !deleted {
		return m, wrap(ErrKeyNotFound)
	}
	return Map[K, V]{root: newRoot, hasher: m.hasher, fallback: m.fallback}, nil
}

// TryDelete is the non-failing form of Delete: on a missing key it returns
// (m, false) with m unchanged instead of an error.
func (m Map[K, V]) TryDelete(k K) (Map[K, V], bool) {
	result, err := m.Delete(k)
	if err != nil {
		return m, false
	}
	return result, true
}

// Each calls yield for every (key, value) pair, stopping early if yield
// returns false. Iteration order is unspecified.
func (m Map[K, V]) Each(yield func(K, V) bool) {
	m.rootNode().each(yield)
}

// EachKey calls yield for every key. Iteration order is unspecified.
func (m Map[K, V]) EachKey(yield func(K) bool) {
	m.Each(func(k K, _ V) bool { return yield(k) })
}

// EachValue calls yield for every value. Iteration order is unspecified.
func (m Map[K, V]) EachValue(yield func(V) bool) {
	m.Each(func(_ K, v V) bool { return yield(v) })
}

// All returns m's entries as a restartable Go range-over-func iterator:
// for k, v := range m.All() { ... }. Iteration order is unspecified.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.Each(yield)
	}
}

// Keys returns every key as a Vector. Order is unspecified but stable for
// a given Map value.
func (m Map[K, V]) Keys() Vector[K] {
	b := Empty[K]().Transient()
	m.EachKey(func(k K) bool {
		b.Push(k)
		return true
	})
	return b.Persist()
}

// Values returns every value as a Vector. Order matches Keys() pairwise.
func (m Map[K, V]) Values() Vector[V] {
	b := Empty[V]().Transient()
	m.EachValue(func(v V) bool {
		b.Push(v)
		return true
	})
	return b.Persist()
}

// ToNativeMap returns m's entries as a native Go map.
func (m Map[K, V]) ToNativeMap() map[K]V {
	out := make(map[K]V, m.Len())
	m.Each(func(k K, v V) bool {
		out[k] = v
		return true
	})
	return out
}

// Merge returns a Map with every entry of other set into m, other's values
// winning on key collision.
func (m Map[K, V]) Merge(other Map[K, V]) Map[K, V] {
	b := m.Transient()
	other.Each(func(k K, v V) bool {
		b.Set(k, v)
		return true
	})
	return b.Persist()
}

// MergeNative is Merge against a native Go map.
func (m Map[K, V]) MergeNative(other map[K]V) Map[K, V] {
	b := m.Transient()
	for k, v := range other {
		b.Set(k, v)
	}
	return b.Persist()
}

// EqualBy reports whether m and other have the same set of keys, with
// pairwise equal values under eq.
func (m Map[K, V]) EqualBy(other Map[K, V], eq func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.Each(func(k K, v V) bool {
		ov, ok := other.TryGet(k)
		if !ok || !eq(v, ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

// Hash returns a hash code for m using vh to hash values (keys are hashed
// with m's own Hasher). The result is order-independent, so equal Maps
// (under the same vh/eq) always produce equal hash codes.
func (m Map[K, V]) Hash(vh Hasher[V]) uint64 {
	var acc uint64
	keyHash := m.hasherOrDefault()
	m.Each(func(k K, v V) bool {
		// XOR-combine per entry so the total is independent of iteration
		// order; each entry's own hash still mixes key and value together.
		entryAcc := uint64(1469598103934665603)
		entryAcc ^= keyHash.Hash(k)
		entryAcc *= 1099511628211
		entryAcc ^= vh.Hash(v)
		entryAcc *= 1099511628211
		acc ^= entryAcc
		return true
	})
	return acc
}

// MapEqual compares a and b by native Go equality (==) on values; it is
// the comparable-value counterpart to EqualBy, for the common case where V
// already supports ==.
func MapEqual[K comparable, V comparable](a, b Map[K, V]) bool {
	return a.EqualBy(b, func(x, y V) bool { return x == y })
}

// MapHash hashes m using the default Hasher for V; the comparable-value
// counterpart to Hash, for the common case where V is one of Go's built-in
// scalar kinds.
func MapHash[K comparable, V comparable](m Map[K, V]) uint64 {
	return m.Hash(DefaultHasher[V]())
}
