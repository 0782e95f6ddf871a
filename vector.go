// Package immutable implements persistent (immutable) collections: an
// ordered, integer-indexed Vector and an unordered key-value Map. Every
// operation that looks like a mutation returns a new logical value while
// the receiver is left observably unchanged; new values share most of
// their internal structure with the old ones via bit-partitioned tries
// (internal/bitidx, vectornode.go, hamtnode.go).
package immutable

import (
	"iter"

	"github.com/lucaong/immutable/internal/bitidx"
)

// Vector is a persistent, integer-indexed sequence. The zero value is a
// valid empty Vector.
type Vector[T any] struct {
	root *vectorNode[T]
	tail []T
}

func (v Vector[T]) rootNode() *vectorNode[T] {
	if v.root == nil {
		return emptyVectorNode[T]()
	}
	return v.root
}

// Empty returns the empty Vector. Equivalent to the zero value.
func Empty[T any]() Vector[T] {
	return Vector[T]{}
}

// Of builds a Vector from the given elements.
func Of[T any](items ...T) Vector[T] {
	return From(items)
}

// From builds a Vector from a native slice. The slice is copied; later
// mutation of items does not affect the returned Vector.
func From[T any](items []T) Vector[T] {
	full := len(items) / bitidx.Width * bitidx.Width
	root := vectorNodeFrom(items[:full])
	var tail []T
	if rest := items[full:]; len(rest) > 0 {
		tail = append([]T(nil), rest...)
	}
	return Vector[T]{root: root, tail: tail}
}

// Len returns the number of elements in the Vector.
func (v Vector[T]) Len() int {
	return v.rootNode().count + len(v.tail)
}

// IsEmpty reports whether the Vector has no elements.
func (v Vector[T]) IsEmpty() bool {
	return v.Len() == 0
}

// Any reports whether the Vector has at least one element.
func (v Vector[T]) Any() bool {
	return v.Len() > 0
}

// Get returns the element at index i, failing with ErrOutOfRange if i is
// not in [0, Len()).
func (v Vector[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= v.Len() {
		return zero, wrap(ErrOutOfRange)
	}
	root := v.rootNode()
	if i >= root.count {
		return v.tail[i-root.count], nil
	}
	return root.get(i), nil
}

// TryGet is the non-failing form of Get: it returns (zero, false) instead
// of an error when i is out of range.
func (v Vector[T]) TryGet(i int) (T, bool) {
	val, err := v.Get(i)
	return val, err == nil
}

// At returns the element at index i, or fallback if i is out of range.
func (v Vector[T]) At(i int, fallback T) T {
	if val, ok := v.TryGet(i); ok {
		return val
	}
	return fallback
}

// First returns the first element, failing with ErrOutOfRange if empty.
func (v Vector[T]) First() (T, error) {
	return v.Get(0)
}

// TryFirst is the non-failing form of First.
func (v Vector[T]) TryFirst() (T, bool) {
	return v.TryGet(0)
}

// Last returns the last element, failing with ErrOutOfRange if empty.
func (v Vector[T]) Last() (T, error) {
	if len(v.tail) > 0 {
		return v.tail[len(v.tail)-1], nil
	}
	root := v.rootNode()
	if root.count == 0 {
		var zero T
		return zero, wrap(ErrOutOfRange)
	}
	leaf := root.lastLeaf()
	return leaf[len(leaf)-1], nil
}

// TryLast is the non-failing form of Last.
func (v Vector[T]) TryLast() (T, bool) {
	return v.TryGet(v.Len() - 1)
}

// Set returns a Vector with the element at index i replaced by val,
// failing with ErrOutOfRange if i is not in [0, Len()).
func (v Vector[T]) Set(i int, val T) (Vector[T], error) {
	if i < 0 || i >= v.Len() {
		return Vector[T]{}, wrap(ErrOutOfRange)
	}
	root := v.rootNode()
	if i < root.count {
		return Vector[T]{root: root.update(i, val, 0), tail: v.tail}, nil
	}
	newTail := append([]T(nil), v.tail...)
	newTail[i-root.count] = val
	return Vector[T]{root: root, tail: newTail}, nil
}

// Push returns a Vector with val appended.
func (v Vector[T]) Push(val T) Vector[T] {
	root := v.rootNode()
	if len(v.tail) < bitidx.Width-1 {
		newTail := make([]T, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = val
		return Vector[T]{root: root, tail: newTail}
	}

	full := append(append([]T(nil), v.tail...), val)
	newRoot, _ := root.pushLeaf(full, 0)
	return Vector[T]{root: newRoot}
}

// Pop returns the last element and a Vector without it, failing with
// ErrOutOfRange if the Vector is empty.
func (v Vector[T]) Pop() (T, Vector[T], error) {
	var zero T
	if v.IsEmpty() {
		return zero, v, wrap(ErrOutOfRange)
	}

	if len(v.tail) > 0 {
		last := v.tail[len(v.tail)-1]
		newTail := v.tail[:len(v.tail)-1 : len(v.tail)-1]
		return last, Vector[T]{root: v.root, tail: newTail}, nil
	}

	newRoot, leaf, err := v.rootNode().popLeaf(0)
	if err != nil {
		return zero, v, err
	}
	last := leaf[len(leaf)-1]
	newTail := leaf[:len(leaf)-1 : len(leaf)-1]
	return last, Vector[T]{root: newRoot, tail: newTail}, nil
}

// TryPop is the non-failing form of Pop: on an empty Vector it returns
// (zero, v, false) instead of an error, and v is returned unchanged.
func (v Vector[T]) TryPop() (T, Vector[T], bool) {
	val, rest, err := v.Pop()
	if err != nil {
		return val, v, false
	}
	return val, rest, true
}

// Each calls yield for every element in index order, stopping early if
// yield returns false.
func (v Vector[T]) Each(yield func(T) bool) {
	if !v.rootNode().each(yield) {
		return
	}
	for _, val := range v.tail {
		if !yield(val) {
			return
		}
	}
}

// All returns v's elements as a restartable Go range-over-func iterator:
// for x := range v.All() { ... }. Unlike Each, which consumes a callback
// directly, every call to All (and every range over its result) starts
// fresh from the beginning.
func (v Vector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		v.Each(yield)
	}
}

// ToSlice returns the Vector's elements as a new native slice.
func (v Vector[T]) ToSlice() []T {
	out := make([]T, 0, v.Len())
	v.Each(func(t T) bool {
		out = append(out, t)
		return true
	})
	return out
}

// EqualBy reports whether v and other have the same length and pairwise
// equal elements under eq. Identical backing tries short-circuit to true.
func (v Vector[T]) EqualBy(other Vector[T], eq func(a, b T) bool) bool {
	if v.Len() != other.Len() {
		return false
	}
	if v.root == other.root && v.Len() == other.Len() && sameTail(v.tail, other.tail) {
		return true
	}
	n := v.Len()
	for i := 0; i < n; i++ {
		a, _ := v.Get(i)
		b, _ := other.Get(i)
		if !eq(a, b) {
			return false
		}
	}
	return true
}

// Equal compares a and b by native Go equality (==) on elements; it is
// the comparable-element counterpart to EqualBy, for the common case
// where T already supports ==.
func Equal[T comparable](a, b Vector[T]) bool {
	return a.EqualBy(b, func(x, y T) bool { return x == y })
}

func sameTail[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}

// Compare lexicographically orders v against other using cmp (which must
// return <0, 0, >0 like strings.Compare). On a common prefix, the shorter
// Vector is less.
func (v Vector[T]) Compare(other Vector[T], cmp func(a, b T) int) int {
	n := v.Len()
	if other.Len() < n {
		n = other.Len()
	}
	for i := 0; i < n; i++ {
		a, _ := v.Get(i)
		b, _ := other.Get(i)
		if c := cmp(a, b); c != 0 {
			return c
		}
	}
	switch {
	case v.Len() < other.Len():
		return -1
	case v.Len() > other.Len():
		return 1
	default:
		return 0
	}
}

// Concat appends every element of other after v's elements.
func (v Vector[T]) Concat(other Vector[T]) Vector[T] {
	b := v.Transient()
	other.Each(func(t T) bool {
		b.Push(t)
		return true
	})
	return b.Persist()
}

// Uniq returns a Vector keeping only the first occurrence of each element,
// as determined by h, preserving order.
func (v Vector[T]) Uniq(h Hasher[T], eq func(a, b T) bool) Vector[T] {
	seen := newHashSeen(h, eq)
	result := Empty[T]().Transient()
	v.Each(func(t T) bool {
		if seen.add(t) {
			result.Push(t)
		}
		return true
	})
	return result.Persist()
}

// Difference returns the elements of v not present in other, preserving
// v's order.
func (v Vector[T]) Difference(other Vector[T], h Hasher[T], eq func(a, b T) bool) Vector[T] {
	exclude := newHashSeen(h, eq)
	other.Each(func(t T) bool {
		exclude.add(t)
		return true
	})
	result := Empty[T]().Transient()
	v.Each(func(t T) bool {
		if !exclude.has(t) {
			result.Push(t)
		}
		return true
	})
	return result.Persist()
}

// Intersect returns the elements of v also present in other, preserving
// v's order and de-duplicating.
func (v Vector[T]) Intersect(other Vector[T], h Hasher[T], eq func(a, b T) bool) Vector[T] {
	include := newHashSeen(h, eq)
	other.Each(func(t T) bool {
		include.add(t)
		return true
	})
	seen := newHashSeen(h, eq)
	result := Empty[T]().Transient()
	v.Each(func(t T) bool {
		if include.has(t) && seen.add(t) {
			result.Push(t)
		}
		return true
	})
	return result.Persist()
}

// Union returns the elements of v followed by the elements of other not
// already included, preserving left-to-right order and de-duplicating.
func (v Vector[T]) Union(other Vector[T], h Hasher[T], eq func(a, b T) bool) Vector[T] {
	seen := newHashSeen(h, eq)
	result := Empty[T]().Transient()
	v.Each(func(t T) bool {
		if seen.add(t) {
			result.Push(t)
		}
		return true
	})
	other.Each(func(t T) bool {
		if seen.add(t) {
			result.Push(t)
		}
		return true
	})
	return result.Persist()
}

// Hash returns a hash code for v using h to hash elements. Equal vectors
// (under the same h/eq) always produce equal hash codes.
func (v Vector[T]) Hash(h Hasher[T]) uint64 {
	var acc uint64 = 1469598103934665603 // FNV offset basis, combined per element
	v.Each(func(t T) bool {
		acc ^= h.Hash(t)
		acc *= 1099511628211 // FNV prime
		return true
	})
	return acc
}
