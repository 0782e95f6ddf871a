package immutable

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
)

// dumpConfig is the go-spew configuration String uses to render the native
// projection (slice or map) that follows the "Vector " / "Map " prefix.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// String renders v as the tag "Vector " followed by go-spew's multi-line
// dump of ToSlice(); for Of(1, 2, 3) the first line is
// "Vector ([]int) (len=3) {".
func (v Vector[T]) String() string {
	return fmt.Sprintf("Vector %s", dumpConfig.Sdump(v.ToSlice()))
}

// MarshalJSON renders v as a JSON array of its elements.
func (v Vector[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToSlice())
}

// UnmarshalJSON replaces v with the Vector built from a JSON array.
func (v *Vector[T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*v = From(items)
	return nil
}

// String renders m as the tag "Map " followed by go-spew's multi-line dump
// of ToNativeMap() with keys sorted; for a Map[string, int] with one entry
// the first line is "Map (map[string]int) (len=1) {".
func (m Map[K, V]) String() string {
	return fmt.Sprintf("Map %s", dumpConfig.Sdump(m.ToNativeMap()))
}

// MarshalJSON renders m as a JSON object. K must be a type encoding/json
// can use as an object key (string, integer, or encoding.TextMarshaler).
func (m Map[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToNativeMap())
}

// UnmarshalJSON replaces m with the Map built from a JSON object. The
// Hasher configured on m before this call is preserved.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	native := make(map[K]V)
	if err := json.Unmarshal(data, &native); err != nil {
		return err
	}
	hasher := m.hasher
	if hasher == nil {
		hasher = DefaultHasher[K]()
	}
	*m = FromMap(native, hasher)
	return nil
}
