package immutable_test

import (
	"testing"

	"github.com/lucaong/immutable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorZeroValue(t *testing.T) {
	t.Parallel()

	var v immutable.Vector[int]
	assert.Zero(t, v.Len())
	assert.True(t, v.IsEmpty())
	_, err := v.Get(0)
	assert.ErrorIs(t, err, immutable.ErrOutOfRange)
}

func TestVectorFromAndBulkPush(t *testing.T) {
	t.Parallel()

	const n = 1100 // spans multiple trie levels past a single 32-wide node
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	v := immutable.From(items)
	require.Equal(t, n, v.Len())
	for i := 0; i < n; i++ {
		val, err := v.Get(i)
		require.NoError(t, err)
		require.Equal(t, i, val)
	}

	pushed := immutable.Empty[int]()
	for i := 0; i < n; i++ {
		pushed = pushed.Push(i)
	}
	require.True(t, immutable.Equal(v, pushed), "repeated Push must build the same vector as From")
}

func TestVectorPush(t *testing.T) {
	t.Parallel()

	v := immutable.Empty[int]()
	for i := 0; i < 100; i++ {
		v = v.Push(i)
	}
	require.Equal(t, 100, v.Len())
	val, err := v.Last()
	require.NoError(t, err)
	require.Equal(t, 99, val)
}

func TestVectorPushIsPersistent(t *testing.T) {
	t.Parallel()

	base := immutable.Of(1, 2, 3)
	grown := base.Push(4)

	require.Equal(t, 3, base.Len())
	require.Equal(t, 4, grown.Len())
	val, err := base.Get(2)
	require.NoError(t, err)
	require.Equal(t, 3, val)
}

func TestVectorPop(t *testing.T) {
	t.Parallel()

	v := immutable.Of(0, 1, 2, 3, 4)
	for i := 4; i >= 0; i-- {
		var val int
		var err error
		val, v, err = v.Pop()
		require.NoError(t, err)
		require.Equal(t, i, val)
	}
	require.True(t, v.IsEmpty())

	_, _, err := v.Pop()
	assert.ErrorIs(t, err, immutable.ErrOutOfRange)

	_, _, ok := v.TryPop()
	assert.False(t, ok)
}

func TestVectorSet(t *testing.T) {
	t.Parallel()

	v := immutable.Of(1, 2, 3)
	updated, err := v.Set(1, 99)
	require.NoError(t, err)

	val, _ := updated.Get(1)
	assert.Equal(t, 99, val)

	original, _ := v.Get(1)
	assert.Equal(t, 2, original, "original vector should be unaffected")

	_, err = v.Set(10, 0)
	assert.ErrorIs(t, err, immutable.ErrOutOfRange)
}

func TestVectorEachAndToSlice(t *testing.T) {
	t.Parallel()

	v := immutable.Of(1, 2, 3, 4, 5)
	var collected []int
	v.Each(func(x int) bool {
		collected = append(collected, x)
		return x < 3
	})
	assert.Equal(t, []int{1, 2, 3}, collected, "Each should stop once yield returns false")
	assert.Equal(t, []int{1, 2, 3, 4, 5}, v.ToSlice())
}

func TestVectorAllIterator(t *testing.T) {
	t.Parallel()

	v := immutable.Of(1, 2, 3)
	var collected []int
	for x := range v.All() {
		collected = append(collected, x)
	}
	assert.Equal(t, []int{1, 2, 3}, collected)

	// A fresh range over the same iterator-producing call restarts.
	var second []int
	for x := range v.All() {
		second = append(second, x)
	}
	assert.Equal(t, collected, second)
}

func TestVectorEqualByAndCompare(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }
	cmp := func(a, b int) int { return a - b }

	a := immutable.Of(1, 2, 3)
	b := immutable.Of(1, 2, 3)
	c := immutable.Of(1, 2, 4)

	assert.True(t, a.EqualBy(b, eq))
	assert.False(t, a.EqualBy(c, eq))
	assert.True(t, immutable.Equal(a, b))
	assert.False(t, immutable.Equal(a, c))
	assert.Equal(t, 0, a.Compare(b, cmp))
	assert.Negative(t, a.Compare(c, cmp))
	assert.Positive(t, c.Compare(a, cmp))
	assert.Negative(t, immutable.Of(1, 2).Compare(immutable.Of(1, 2, 3), cmp))
}

func TestVectorConcat(t *testing.T) {
	t.Parallel()

	a := immutable.Of(1, 2, 3)
	b := immutable.Of(4, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, a.Concat(b).ToSlice())
}

func TestVectorSetOperations(t *testing.T) {
	t.Parallel()

	h := immutable.DefaultHasher[int]()
	eq := func(a, b int) bool { return a == b }

	a := immutable.Of(1, 2, 2, 3)
	b := immutable.Of(2, 3, 4)

	assert.Equal(t, []int{1, 2, 3}, a.Uniq(h, eq).ToSlice())
	assert.Equal(t, []int{1}, a.Difference(b, h, eq).ToSlice())
	assert.Equal(t, []int{2, 3}, a.Intersect(b, h, eq).ToSlice())
	assert.Equal(t, []int{1, 2, 3, 4}, a.Union(b, h, eq).ToSlice())
}

func TestVectorHash(t *testing.T) {
	t.Parallel()

	h := immutable.DefaultHasher[int]()
	a := immutable.Of(1, 2, 3)
	b := immutable.Of(1, 2, 3)
	c := immutable.Of(3, 2, 1)

	assert.Equal(t, a.Hash(h), b.Hash(h))
	assert.NotEqual(t, a.Hash(h), c.Hash(h))
}

func TestVectorBuilderHandshake(t *testing.T) {
	t.Parallel()

	v := immutable.Of(1, 2, 3)
	b := v.Transient()
	require.NoError(t, b.Push(4))
	require.NoError(t, b.Push(5))

	result := b.Persist()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.ToSlice())
	assert.Equal(t, []int{1, 2, 3}, v.ToSlice(), "original vector must stay untouched")

	_, err := b.TryPersist()
	assert.ErrorIs(t, err, immutable.ErrInvalidTransient)

	err = b.Push(6)
	assert.ErrorIs(t, err, immutable.ErrInvalidTransient)
}

func TestVectorBuilderBulkPush(t *testing.T) {
	t.Parallel()

	const n = 1100
	result := immutable.WithTransient(immutable.Empty[int](), func(b *immutable.VectorBuilder[int]) {
		for i := 0; i < n; i++ {
			require.NoError(t, b.Push(i))
		}
	})

	require.Equal(t, n, result.Len())
	val, err := result.Get(n - 1)
	require.NoError(t, err)
	assert.Equal(t, n-1, val)
}

func TestVectorBuilderPopOfEmpty(t *testing.T) {
	t.Parallel()

	b := immutable.Empty[int]().Transient()
	_, err := b.Pop()
	assert.ErrorIs(t, err, immutable.ErrOutOfRange)
}
