package immutable

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Hasher computes a 64-bit hash for values of type K. It is the concrete
// form of the "hashing primitives for arbitrary element types" collaborator
// that the HAMT and the Vector set operations consume but never compute
// themselves: the trie only ever asks a Hasher for a hash, it never
// inspects K's representation directly.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// HasherFunc adapts a plain function to a Hasher.
type HasherFunc[K any] func(K) uint64

// Hash implements Hasher.
func (f HasherFunc[K]) Hash(key K) uint64 { return f(key) }

// DefaultHasher returns a Hasher for any comparable type built from Go's
// common scalar kinds (every integer width, string, bool) using
// xxhash.Sum64, the hash primitive the reference pack already depends on
// for content-addressed lookups. Other comparable types (structs, pointer
// types, etc.) fall back to hashing their fmt.Sprintf("%#v", ...)
// representation, which is stable for a given value but not cheap; callers
// with a hot path over a custom key type should supply their own Hasher.
func DefaultHasher[K comparable]() Hasher[K] {
	return HasherFunc[K](func(k K) uint64 {
		return hashAny(k)
	})
}

func hashAny(v any) uint64 {
	switch x := v.(type) {
	case string:
		return xxhash.Sum64String(x)
	case int:
		return hashUint64(uint64(x))
	case int8:
		return hashUint64(uint64(x))
	case int16:
		return hashUint64(uint64(x))
	case int32:
		return hashUint64(uint64(x))
	case int64:
		return hashUint64(uint64(x))
	case uint:
		return hashUint64(uint64(x))
	case uint8:
		return hashUint64(uint64(x))
	case uint16:
		return hashUint64(uint64(x))
	case uint32:
		return hashUint64(uint64(x))
	case uint64:
		return hashUint64(x)
	case uintptr:
		return hashUint64(uint64(x))
	case bool:
		if x {
			return hashUint64(1)
		}
		return hashUint64(0)
	case float32:
		return hashUint64(uint64(math.Float32bits(x)))
	case float64:
		return hashUint64(math.Float64bits(x))
	default:
		return xxhash.Sum64String(fmt.Sprintf("%#v", x))
	}
}

func hashUint64(x uint64) uint64 {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(x >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}
