package immutable

// MapBuilder is a transient, single-owner view over a Map, for batching
// many sets/deletes without allocating an intermediate persistent value at
// each step. A MapBuilder must be used from a single goroutine and must
// not be shared; call Persist to obtain the resulting Map and invalidate
// the builder.
type MapBuilder[K comparable, V any] struct {
	owner    uint64
	root     *hamtNode[K, V]
	hasher   Hasher[K]
	fallback func(K) (V, bool)
	done     bool
}

// TryPersist is the non-panicking form of Persist.
func (b *MapBuilder[K, V]) TryPersist() (Map[K, V], error) {
	if b.done {
		return Map[K, V]{}, wrap(ErrInvalidTransient)
	}
	b.done = true
	b.root.owner = 0
	return Map[K, V]{root: b.root, hasher: b.hasher, fallback: b.fallback}, nil
}

// Transient returns a MapBuilder seeded from m. m itself is left
// unaffected by subsequent builder operations.
func (m Map[K, V]) Transient() *MapBuilder[K, V] {
	owner := nextOwnerID()
	// cloneOrAdopt, not a shallow struct copy: hamtNode.children/values are
	// slices, so a shallow copy would alias m's backing arrays and let the
	// builder's first in-place mutation corrupt m.
	root := m.rootNode().cloneOrAdopt(owner)
	return &MapBuilder[K, V]{owner: owner, root: root, hasher: m.hasher, fallback: m.fallback}
}

// WithMapTransient creates a transient from m, runs fn against it, and
// returns the persisted result. fn must not retain the builder beyond its
// own call.
func WithMapTransient[K comparable, V any](m Map[K, V], fn func(*MapBuilder[K, V])) Map[K, V] {
	b := m.Transient()
	fn(b)
	return b.Persist()
}

func (b *MapBuilder[K, V]) hasherOrDefault() Hasher[K] {
	if b.hasher != nil {
		return b.hasher
	}
	return DefaultHasher[K]()
}

// Len returns the number of entries currently in the builder.
func (b *MapBuilder[K, V]) Len() int {
	return b.root.count
}

// Get returns the value for k, failing with ErrKeyNotFound if absent, or
// ErrInvalidTransient if the builder was already persisted.
func (b *MapBuilder[K, V]) Get(k K) (V, error) {
	var zero V
	if b.done {
		return zero, wrap(ErrInvalidTransient)
	}
	val, ok := b.root.get(k, b.hasherOrDefault().Hash(k))
	if !ok {
		return zero, wrap(ErrKeyNotFound)
	}
	return val, nil
}

// HasKey reports whether k is present in the builder.
func (b *MapBuilder[K, V]) HasKey(k K) bool {
	_, ok := b.root.get(k, b.hasherOrDefault().Hash(k))
	return ok
}

// Set associates k with val in place, failing with ErrInvalidTransient if
// the builder was already persisted.
func (b *MapBuilder[K, V]) Set(k K, val V) error {
	if b.done {
		return wrap(ErrInvalidTransient)
	}
	entry := hamtEntry[K, V]{key: k, value: val, hash: b.hasherOrDefault().Hash(k)}
	b.root, _ = b.root.set(entry, b.owner)
	return nil
}

// Delete removes k in place, failing with ErrKeyNotFound if absent, or
// ErrInvalidTransient if the builder was already persisted.
func (b *MapBuilder[K, V]) Delete(k K) error {
	if b.done {
		return wrap(ErrInvalidTransient)
	}
	newRoot, deleted := b.root.delete(k, b.hasherOrDefault().Hash(k), b.owner)
	if !deleted {
		return wrap(ErrKeyNotFound)
	}
	b.root = newRoot
	return nil
}

// Persist closes the builder and returns the resulting persistent Map. Any
// further Get, Set, Delete or Persist on b fails with ErrInvalidTransient;
// Len and HasKey, which return no error, do not check and still answer
// from the persisted contents. Since a second Persist is a programmer
// error, Persist panics
// rather than returning an error callers would have to check on every
// call. Use TryPersist directly if a second Persist is a possibility worth
// handling.
func (b *MapBuilder[K, V]) Persist() Map[K, V] {
	m, err := b.TryPersist()
	if err != nil {
		panic(err)
	}
	return m
}
