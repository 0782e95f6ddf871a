// Package bitidx holds the bit-partition arithmetic shared by the vector
// trie and the HAMT: branching factor, level-shift math, and popcount-based
// child compaction. Neither trie duplicates this arithmetic locally.
package bitidx

import "math/bits"

const (
	// Bits is the number of bits consumed per trie level (log2 of Width).
	Bits = 5

	// Width is the branching factor of both tries: 32 children/elements
	// per node.
	Width = 1 << Bits

	// Mask isolates one Bits-wide group.
	Mask = Width - 1
)

// ChildIndex returns the local child slot for index i at the given trie
// level (level 0 is the leaf level; a branch at level L covers bit-groups
// [L, L+1, ...) from the top).
func ChildIndex(i, level int) int {
	return (i >> (level * Bits)) & Mask
}

// HashChunk returns the Bits-wide group of hash consumed at the given HAMT
// depth (0 = root), reading from the low bits upward.
func HashChunk(hash uint64, depth int) int {
	return int((hash >> (depth * Bits)) & Mask)
}

// CompactOffset returns the popcount-compacted slot for bitIndex within a
// bitmap: the number of set bits strictly below bitIndex.
func CompactOffset(bitmap uint32, bitIndex int) int {
	return bits.OnesCount32(bitmap & ((uint32(1) << uint(bitIndex)) - 1))
}

// HasBit reports whether bitIndex is set in bitmap.
func HasBit(bitmap uint32, bitIndex int) bool {
	return bitmap&(uint32(1)<<uint(bitIndex)) != 0
}

// SetBit returns bitmap with bitIndex set.
func SetBit(bitmap uint32, bitIndex int) uint32 {
	return bitmap | (uint32(1) << uint(bitIndex))
}

// ClearBit returns bitmap with bitIndex cleared.
func ClearBit(bitmap uint32, bitIndex int) uint32 {
	return bitmap &^ (uint32(1) << uint(bitIndex))
}
