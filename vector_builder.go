package immutable

import (
	"sync/atomic"

	"github.com/lucaong/immutable/internal/bitidx"
)

// vectorTransientID is the source of unique, per-transient owner tags.
// Owner tag 0 is reserved for persistent nodes, so ids start at 1.
var vectorTransientID uint64

func nextOwnerID() uint64 {
	return atomic.AddUint64(&vectorTransientID, 1)
}

// VectorBuilder is a transient, single-owner view over a Vector, for
// batching many pushes/pops/sets without allocating an intermediate
// persistent value at each step. A VectorBuilder must be used from a
// single goroutine and must not be shared; call Persist to obtain the
// resulting Vector and invalidate the builder.
type VectorBuilder[T any] struct {
	owner uint64
	root  *vectorNode[T]
	tail  []T
	done  bool
}

// ErrInvalidTransient-returning form of Persist; see Persist.
func (b *VectorBuilder[T]) TryPersist() (Vector[T], error) {
	if b.done {
		return Vector[T]{}, wrap(ErrInvalidTransient)
	}
	b.done = true
	b.root.owner = 0
	tail := append([]T(nil), b.tail...)
	return Vector[T]{root: b.root, tail: tail}, nil
}

// Transient returns a VectorBuilder seeded from v. v itself is left
// unaffected by subsequent builder operations.
func (v Vector[T]) Transient() *VectorBuilder[T] {
	owner := nextOwnerID()
	root := v.rootNode()
	clone := *root
	clone.owner = owner
	tail := make([]T, len(v.tail), bitidx.Width)
	copy(tail, v.tail)
	return &VectorBuilder[T]{owner: owner, root: &clone, tail: tail}
}

// WithTransient creates a transient from v, runs fn against it, and
// returns the persisted result. fn must not retain the builder beyond its
// own call.
func WithTransient[T any](v Vector[T], fn func(*VectorBuilder[T])) Vector[T] {
	b := v.Transient()
	fn(b)
	return b.Persist()
}

// Len returns the number of elements currently in the builder.
func (b *VectorBuilder[T]) Len() int {
	return b.root.count + len(b.tail)
}

// Get returns the element at index i, failing with ErrOutOfRange if out of
// bounds, or ErrInvalidTransient if the builder was already persisted.
func (b *VectorBuilder[T]) Get(i int) (T, error) {
	var zero T
	if b.done {
		return zero, wrap(ErrInvalidTransient)
	}
	if i < 0 || i >= b.Len() {
		return zero, wrap(ErrOutOfRange)
	}
	if i >= b.root.count {
		return b.tail[i-b.root.count], nil
	}
	return b.root.get(i), nil
}

// Set replaces the element at index i in place, failing with
// ErrOutOfRange if out of bounds or ErrInvalidTransient if already
// persisted.
func (b *VectorBuilder[T]) Set(i int, val T) error {
	if b.done {
		return wrap(ErrInvalidTransient)
	}
	if i < 0 || i >= b.Len() {
		return wrap(ErrOutOfRange)
	}
	if i < b.root.count {
		b.root = b.root.update(i, val, b.owner)
		return nil
	}
	b.tail[i-b.root.count] = val
	return nil
}

// Push appends val, mutating the builder in place.
func (b *VectorBuilder[T]) Push(val T) error {
	if b.done {
		return wrap(ErrInvalidTransient)
	}
	if len(b.tail) < bitidx.Width-1 {
		b.tail = append(b.tail, val)
		return nil
	}

	full := append(b.tail, val)
	root, err := b.root.pushLeaf(full, b.owner)
	if err != nil {
		return err
	}
	b.root = root
	b.tail = make([]T, 0, bitidx.Width)
	return nil
}

// Pop removes and returns the last element, failing with ErrOutOfRange if
// empty.
func (b *VectorBuilder[T]) Pop() (T, error) {
	var zero T
	if b.done {
		return zero, wrap(ErrInvalidTransient)
	}
	if b.Len() == 0 {
		return zero, wrap(ErrOutOfRange)
	}

	if len(b.tail) > 0 {
		last := b.tail[len(b.tail)-1]
		b.tail = b.tail[:len(b.tail)-1]
		return last, nil
	}

	newRoot, leaf, err := b.root.popLeaf(b.owner)
	if err != nil {
		return zero, err
	}
	b.root = newRoot
	tail := make([]T, len(leaf)-1, bitidx.Width)
	copy(tail, leaf[:len(leaf)-1])
	b.tail = tail
	return leaf[len(leaf)-1], nil
}

// Persist closes the builder and returns the resulting persistent Vector.
// Any further Get, Set, Push, Pop or Persist on b fails with
// ErrInvalidTransient; Len, which returns no error, does not check and
// still reports the builder's last length. Since a second Persist is a
// programmer error (the builder
// handshake is meant to be used once), Persist panics rather than
// returning an error callers would have to check on every call. Use
// TryPersist directly if a second Persist is a possibility worth handling.
func (b *VectorBuilder[T]) Persist() Vector[T] {
	v, err := b.TryPersist()
	if err != nil {
		panic(err)
	}
	return v
}
