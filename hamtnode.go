package immutable

import (
	"slices"

	"github.com/lucaong/immutable/internal/bitidx"
)

// maxHAMTDepth is the number of bit-groups a 64-bit hash yields
// (ceil(64/bitidx.Bits)). At this depth the hash is considered fully
// consumed: the node never grows children past it, colliding keys simply
// coexist in its values bucket forever.
const maxHAMTDepth = (64 + bitidx.Bits - 1) / bitidx.Bits

// hamtEntry is one (key, value) pair, along with the full hash computed
// for key at insertion time so that later collision-promotion never needs
// to re-hash an existing key.
type hamtEntry[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
}

// hamtNode is one node of the HAMT: a branch (bitmap != 0, children
// populated, values empty) or a leaf (bitmap == 0, values holds one entry,
// or several if depth has reached maxHAMTDepth and their hashes collided).
//
// owner is 0 for persistent nodes; a transient stamps its own nonzero id
// on any node it creates or first mutates, exactly like vectorNode.
type hamtNode[K comparable, V any] struct {
	bitmap   uint32
	children []*hamtNode[K, V]
	values   []hamtEntry[K, V]
	depth    int
	count    int
	owner    uint64
}

func emptyHAMTNode[K comparable, V any]() *hamtNode[K, V] {
	return &hamtNode[K, V]{}
}

func (n *hamtNode[K, V]) isEmpty() bool {
	return n.bitmap == 0 && len(n.values) == 0
}

// cloneOrAdopt returns a node this owner may mutate directly: itself, if
// the owner tag already matches, or a deep copy (fresh children/values
// backing arrays, since those are slices and would otherwise alias the
// original) stamped with owner otherwise.
func (n *hamtNode[K, V]) cloneOrAdopt(owner uint64) *hamtNode[K, V] {
	if owner != 0 && n.owner == owner {
		return n
	}
	return &hamtNode[K, V]{
		bitmap:   n.bitmap,
		depth:    n.depth,
		count:    n.count,
		owner:    owner,
		children: append([]*hamtNode[K, V](nil), n.children...),
		values:   append([]hamtEntry[K, V](nil), n.values...),
	}
}

// get returns the value stored for k, given its precomputed hash.
func (n *hamtNode[K, V]) get(k K, hash uint64) (V, bool) {
	node := n
	for node.bitmap != 0 {
		bitIndex := bitidx.HashChunk(hash, node.depth)
		if !bitidx.HasBit(node.bitmap, bitIndex) {
			var zero V
			return zero, false
		}
		node = node.children[bitidx.CompactOffset(node.bitmap, bitIndex)]
	}
	for _, e := range node.values {
		if e.key == k {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// set inserts or replaces e.key -> e.value, returning the new subtree and
// whether this was a new key (false means an existing key's value was
// replaced).
func (n *hamtNode[K, V]) set(e hamtEntry[K, V], owner uint64) (*hamtNode[K, V], bool) {
	if n.bitmap == 0 {
		for i, old := range n.values {
			if old.key == e.key {
				clone := n.cloneOrAdopt(owner)
				clone.values[i] = e
				return clone, false
			}
		}
		if len(n.values) == 0 {
			clone := n.cloneOrAdopt(owner)
			clone.values = append(clone.values, e)
			clone.count = 1
			return clone, true
		}
		if n.depth >= maxHAMTDepth {
			clone := n.cloneOrAdopt(owner)
			clone.values = append(clone.values, e)
			clone.count = len(clone.values)
			return clone, true
		}

		// This leaf holds exactly one key that doesn't collide with e at
		// this depth's bit-group; promote it into a branch, redistributing
		// every entry (the existing one, plus e) one level deeper.
		all := append(append([]hamtEntry[K, V](nil), n.values...), e)
		branch := &hamtNode[K, V]{depth: n.depth, owner: owner}
		for _, entry := range all {
			branch.placeEntry(entry, owner)
		}
		branch.recomputeCount()
		return branch, true
	}

	bitIndex := bitidx.HashChunk(e.hash, n.depth)
	offset := bitidx.CompactOffset(n.bitmap, bitIndex)

	if !bitidx.HasBit(n.bitmap, bitIndex) {
		clone := n.cloneOrAdopt(owner)
		child := &hamtNode[K, V]{depth: n.depth + 1, owner: owner, values: []hamtEntry[K, V]{e}, count: 1}
		clone.bitmap = bitidx.SetBit(clone.bitmap, bitIndex)
		clone.children = slices.Insert(clone.children, offset, child)
		clone.count++
		return clone, true
	}

	newChild, inserted := n.children[offset].set(e, owner)
	clone := n.cloneOrAdopt(owner)
	clone.children[offset] = newChild
	if inserted {
		clone.count++
	}
	return clone, inserted
}

// placeEntry inserts e, which is known not to already exist anywhere in
// this subtree, routing it to a child (creating or promoting one as
// needed) or, once depth has reached maxHAMTDepth, appending to the local
// collision bucket. Used only while rebuilding a freshly promoted branch,
// so it mutates its receiver directly: every node it touches was just
// created for this rebuild and owned exclusively by owner.
func (n *hamtNode[K, V]) placeEntry(e hamtEntry[K, V], owner uint64) {
	if n.depth >= maxHAMTDepth {
		n.values = append(n.values, e)
		return
	}

	bitIndex := bitidx.HashChunk(e.hash, n.depth)
	if !bitidx.HasBit(n.bitmap, bitIndex) {
		offset := bitidx.CompactOffset(n.bitmap, bitIndex)
		child := &hamtNode[K, V]{depth: n.depth + 1, owner: owner, values: []hamtEntry[K, V]{e}}
		n.bitmap = bitidx.SetBit(n.bitmap, bitIndex)
		n.children = slices.Insert(n.children, offset, child)
		return
	}

	offset := bitidx.CompactOffset(n.bitmap, bitIndex)
	child := n.children[offset]
	if child.bitmap == 0 && len(child.values) > 0 && child.depth < maxHAMTDepth {
		existing := child.values
		child.values = nil
		for _, old := range existing {
			child.placeEntry(old, owner)
		}
	}
	child.placeEntry(e, owner)
}

// recomputeCount recomputes n.count (and every descendant's) from the
// leaves up. Only needed right after placeEntry-based rebuilding, where
// bookkeeping a running total inline would be error-prone.
func (n *hamtNode[K, V]) recomputeCount() int {
	if n.bitmap == 0 {
		n.count = len(n.values)
		return n.count
	}
	total := 0
	for _, c := range n.children {
		total += c.recomputeCount()
	}
	n.count = total
	return total
}

// delete removes k, given its precomputed hash, returning the new subtree
// and whether k was present. A branch left with a single leaf child is not
// collapsed back into that leaf; get/set/delete all still work correctly
// by simply descending one extra level, it just costs an extra pointer hop.
func (n *hamtNode[K, V]) delete(k K, hash uint64, owner uint64) (*hamtNode[K, V], bool) {
	if n.bitmap == 0 {
		for i, e := range n.values {
			if e.key == k {
				clone := n.cloneOrAdopt(owner)
				clone.values = slices.Delete(clone.values, i, i+1)
				clone.count--
				return clone, true
			}
		}
		return n, false
	}

	bitIndex := bitidx.HashChunk(hash, n.depth)
	if !bitidx.HasBit(n.bitmap, bitIndex) {
		return n, false
	}
	offset := bitidx.CompactOffset(n.bitmap, bitIndex)

	newChild, deleted := n.children[offset].delete(k, hash, owner)
	if !deleted {
		return n, false
	}

	clone := n.cloneOrAdopt(owner)
	clone.count--
	if newChild.isEmpty() {
		clone.children = slices.Delete(clone.children, offset, offset+1)
		clone.bitmap = bitidx.ClearBit(clone.bitmap, bitIndex)
	} else {
		clone.children[offset] = newChild
	}
	return clone, true
}

// each yields every (key, value) pair reachable from n, stopping early if
// yield returns false. Order is unspecified but deterministic for a given
// node (DFS over the bitmap-compacted children).
func (n *hamtNode[K, V]) each(yield func(K, V) bool) bool {
	if n.bitmap == 0 {
		for _, e := range n.values {
			if !yield(e.key, e.value) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if !c.each(yield) {
			return false
		}
	}
	return true
}
