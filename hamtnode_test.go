package immutable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHAMTNodeSetGetDelete(t *testing.T) {
	t.Parallel()

	root := emptyHAMTNode[string, int]()

	root, inserted := root.set(hamtEntry[string, int]{key: "a", value: 1, hash: 0x01}, 0)
	require.True(t, inserted)
	root, inserted = root.set(hamtEntry[string, int]{key: "b", value: 2, hash: 0x02}, 0)
	require.True(t, inserted)

	val, ok := root.get("a", 0x01)
	require.True(t, ok)
	assert.Equal(t, 1, val)

	val, ok = root.get("b", 0x02)
	require.True(t, ok)
	assert.Equal(t, 2, val)

	_, ok = root.get("missing", 0x99)
	assert.False(t, ok)

	root, replaced := root.set(hamtEntry[string, int]{key: "a", value: 42, hash: 0x01}, 0)
	assert.False(t, replaced)
	val, _ = root.get("a", 0x01)
	assert.Equal(t, 42, val)
	assert.Equal(t, 2, root.count)

	root, deleted := root.delete("a", 0x01, 0)
	require.True(t, deleted)
	assert.Equal(t, 1, root.count)
	_, ok = root.get("a", 0x01)
	assert.False(t, ok)

	_, deleted = root.delete("a", 0x01, 0)
	assert.False(t, deleted)
}

func TestHAMTNodeCollidesAtFirstChunkPromotes(t *testing.T) {
	t.Parallel()

	// Both hashes share bit-group 0 (value 5) but diverge at bit-group 1
	// (0 vs 2), so inserting the second key must promote the shared leaf
	// into a branch rather than overwrite the first key.
	hashA := uint64(5)
	hashB := uint64(5) | (2 << 5)

	root := emptyHAMTNode[int, string]()
	root, _ = root.set(hamtEntry[int, string]{key: 100, value: "A", hash: hashA}, 0)
	root, _ = root.set(hamtEntry[int, string]{key: 200, value: "B", hash: hashB}, 0)

	require.NotZero(t, root.bitmap, "node must have promoted into a branch")
	require.Equal(t, 2, root.count)

	val, ok := root.get(100, hashA)
	require.True(t, ok)
	assert.Equal(t, "A", val)

	val, ok = root.get(200, hashB)
	require.True(t, ok)
	assert.Equal(t, "B", val)
}

func TestHAMTNodeFullHashCollisionBucket(t *testing.T) {
	t.Parallel()

	// Identical hashes (a genuine full collision) must coexist as distinct
	// entries once the node reaches maxHAMTDepth.
	const sameHash = uint64(7)

	root := emptyHAMTNode[int, string]()
	root, _ = root.set(hamtEntry[int, string]{key: 1, value: "one", hash: sameHash}, 0)
	root, _ = root.set(hamtEntry[int, string]{key: 2, value: "two", hash: sameHash}, 0)
	root, _ = root.set(hamtEntry[int, string]{key: 3, value: "three", hash: sameHash}, 0)

	require.Equal(t, 3, root.count)
	for key, want := range map[int]string{1: "one", 2: "two", 3: "three"} {
		val, ok := root.get(key, sameHash)
		require.True(t, ok)
		assert.Equal(t, want, val)
	}

	root, deleted := root.delete(2, sameHash, 0)
	require.True(t, deleted)
	assert.Equal(t, 2, root.count)
	_, ok := root.get(2, sameHash)
	assert.False(t, ok)
	_, ok = root.get(1, sameHash)
	assert.True(t, ok)
}

func TestHAMTNodeEach(t *testing.T) {
	t.Parallel()

	root := emptyHAMTNode[int, int]()
	for i := 0; i < 64; i++ {
		root, _ = root.set(hamtEntry[int, int]{key: i, value: i * i, hash: uint64(i) * 0x9E3779B1}, 0)
	}

	seen := make(map[int]int)
	root.each(func(k, v int) bool {
		seen[k] = v
		return true
	})
	require.Len(t, seen, 64)
	for i := 0; i < 64; i++ {
		assert.Equal(t, i*i, seen[i])
	}
}

func TestHAMTNodeTransientOwnerIsolation(t *testing.T) {
	t.Parallel()

	root := emptyHAMTNode[int, int]()
	root, _ = root.set(hamtEntry[int, int]{key: 1, value: 1, hash: 1}, 0)

	const owner = uint64(77)
	clone := root.cloneOrAdopt(owner)
	clone, _ = clone.set(hamtEntry[int, int]{key: 2, value: 2, hash: 2}, owner)

	_, ok := root.get(2, 2)
	assert.False(t, ok, "mutating the owned clone must not affect the persistent original")
	_, ok = clone.get(2, 2)
	assert.True(t, ok)
}
