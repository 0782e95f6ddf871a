package immutable

import (
	"github.com/lucaong/immutable/internal/bitidx"
)

// vectorNode is one node of the bit-partitioned vector trie: a branch
// (level >= 1, children populated) or a leaf (level == 0, values
// populated). It is always a whole number of full Width-wide leaves deep;
// the partially-filled trailing block lives outside the trie, on the
// Vector facade's tail.
//
// owner is 0 for persistent nodes. A transient stamps its own nonzero id
// on any node it creates or first mutates; a later mutation by the same
// transient finds the tag already matching and mutates in place instead
// of cloning.
type vectorNode[T any] struct {
	level    int
	count    int
	children [bitidx.Width]*vectorNode[T]
	values   [bitidx.Width]T
	nvalues  int
	owner    uint64
}

func emptyVectorNode[T any]() *vectorNode[T] {
	return &vectorNode[T]{}
}

func newVectorLeaf[T any](vals []T, owner uint64) *vectorNode[T] {
	n := &vectorNode[T]{count: len(vals), nvalues: len(vals), owner: owner}
	copy(n.values[:], vals)
	return n
}

func newVectorBranch[T any](level int, owner uint64) *vectorNode[T] {
	return &vectorNode[T]{level: level, owner: owner}
}

// cloneOrAdopt returns a node this owner may mutate in place: itself, if
// the owner tag already matches (the transient already owns it), or a
// shallow copy stamped with owner otherwise. owner == 0 always clones,
// which is exactly the persistent (non-transient) path.
func (n *vectorNode[T]) cloneOrAdopt(owner uint64) *vectorNode[T] {
	if owner != 0 && n.owner == owner {
		return n
	}
	clone := *n
	clone.owner = owner
	return &clone
}

// vectorNodeFrom builds a trie from full Width-sized chunks of vals. Any
// remainder (len(vals) % Width != 0) is left for the caller to place in
// the facade's tail buffer.
func vectorNodeFrom[T any](vals []T) *vectorNode[T] {
	root := emptyVectorNode[T]()
	full := len(vals) / bitidx.Width * bitidx.Width
	for i := 0; i < full; i += bitidx.Width {
		root, _ = root.pushLeaf(vals[i:i+bitidx.Width], 0)
	}
	return root
}

// get returns the element at index i, which must be in [0, n.count).
func (n *vectorNode[T]) get(i int) T {
	node := n
	for node.level > 0 {
		node = node.children[bitidx.ChildIndex(i, node.level)]
	}
	return node.values[bitidx.ChildIndex(i, 0)]
}

// update returns a trie with the element at index i replaced by v. i must
// be in [0, n.count).
func (n *vectorNode[T]) update(i int, v T, owner uint64) *vectorNode[T] {
	clone := n.cloneOrAdopt(owner)
	if clone.level == 0 {
		clone.values[bitidx.ChildIndex(i, 0)] = v
		return clone
	}
	idx := bitidx.ChildIndex(i, clone.level)
	clone.children[idx] = clone.children[idx].update(i, v, owner)
	return clone
}

// pushLeaf appends a full (or, at most, Width-sized) leaf at the next
// available slot. The trie's current size must be a multiple of Width.
func (n *vectorNode[T]) pushLeaf(leaf []T, owner uint64) (*vectorNode[T], error) {
	if len(leaf) > bitidx.Width {
		return nil, wrap(ErrBadArgument)
	}
	if n.count%bitidx.Width != 0 {
		return nil, wrap(ErrBadArgument)
	}

	// An empty body is a level-0 node with no values and no children slot
	// to recurse into; it becomes the leaf outright instead of going
	// through doPushLeaf, which only ever operates on branches (level >= 1).
	if n.level == 0 && n.count == 0 {
		return newVectorLeaf(leaf, owner), nil
	}

	root := n
	// capacity of the current root is Width^(level+1).
	capacity := 1
	for i := 0; i <= root.level; i++ {
		capacity *= bitidx.Width
	}

	if root.count >= capacity {
		newRoot := newVectorBranch[T](root.level+1, owner)
		newRoot.children[0] = root
		newRoot.count = root.count
		root = newRoot
	}

	grown := root.doPushLeaf(leaf, owner)
	return grown, nil
}

func (n *vectorNode[T]) doPushLeaf(leaf []T, owner uint64) *vectorNode[T] {
	clone := n.cloneOrAdopt(owner)
	idx := bitidx.ChildIndex(clone.count, clone.level)
	if clone.children[idx] == nil {
		clone.children[idx] = newVectorPath(clone.level-1, leaf, owner)
	} else {
		clone.children[idx] = clone.children[idx].doPushLeaf(leaf, owner)
	}
	clone.count += len(leaf)
	return clone
}

// newVectorPath builds a chain of single-child branches from level down to
// 0, bottoming out at a leaf holding leaf.
func newVectorPath[T any](level int, leaf []T, owner uint64) *vectorNode[T] {
	if level == 0 {
		return newVectorLeaf(leaf, owner)
	}
	branch := newVectorBranch[T](level, owner)
	branch.children[0] = newVectorPath(level-1, leaf, owner)
	branch.count = len(leaf)
	return branch
}

// popLeaf removes the rightmost leaf and returns the resulting trie along
// with that leaf's values. The trie's current size must be a positive
// multiple of Width.
func (n *vectorNode[T]) popLeaf(owner uint64) (*vectorNode[T], []T, error) {
	if n.count == 0 {
		return nil, nil, wrap(ErrOutOfRange)
	}
	if n.count%bitidx.Width != 0 {
		return nil, nil, wrap(ErrBadArgument)
	}

	newRoot, leafVals := n.doPopLeaf(owner)
	if newRoot == nil {
		newRoot = emptyVectorNode[T]()
	}
	// Collapse: if the root now has only its first child populated, that
	// child becomes the new root. Fill order is strictly left to right, so
	// checking slot 1 suffices: if it's nil, nothing past it can be set.
	for newRoot.level > 0 && newRoot.children[1] == nil {
		if newRoot.children[0] == nil {
			newRoot = emptyVectorNode[T]()
			break
		}
		newRoot = newRoot.children[0]
	}
	return newRoot, leafVals, nil
}

// doPopLeaf removes the rightmost leaf from n, returning the new subtree
// (nil if n became entirely empty) and the removed leaf's values.
func (n *vectorNode[T]) doPopLeaf(owner uint64) (*vectorNode[T], []T) {
	// A root that is itself a single full leaf (level 0) has no children
	// slot to recurse into; popping it empties the trie outright.
	if n.level == 0 {
		return nil, append([]T(nil), n.values[:n.nvalues]...)
	}

	idx := bitidx.ChildIndex(n.count-bitidx.Width, n.level)

	if n.level == 1 {
		leaf := n.children[idx]
		vals := append([]T(nil), leaf.values[:leaf.nvalues]...)

		if idx == 0 {
			return nil, vals
		}
		clone := n.cloneOrAdopt(owner)
		clone.children[idx] = nil
		clone.count -= bitidx.Width
		return clone, vals
	}

	newChild, vals := n.children[idx].doPopLeaf(owner)
	if newChild == nil && idx == 0 {
		return nil, vals
	}
	clone := n.cloneOrAdopt(owner)
	clone.children[idx] = newChild
	clone.count -= bitidx.Width
	return clone, vals
}

// lastLeaf returns the values of the rightmost leaf. n.count must be > 0.
func (n *vectorNode[T]) lastLeaf() []T {
	node := n
	for node.level > 0 {
		idx := bitidx.ChildIndex(node.count-1, node.level)
		node = node.children[idx]
	}
	return append([]T(nil), node.values[:node.nvalues]...)
}

// each yields every element of the subtree in index order, stopping early
// if yield returns false.
func (n *vectorNode[T]) each(yield func(T) bool) bool {
	if n.level == 0 {
		for i := 0; i < n.nvalues; i++ {
			if !yield(n.values[i]) {
				return false
			}
		}
		return true
	}
	for i := 0; i < bitidx.Width; i++ {
		child := n.children[i]
		if child == nil {
			continue
		}
		if !child.each(yield) {
			return false
		}
	}
	return true
}
