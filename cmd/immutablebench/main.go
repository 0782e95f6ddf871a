// Command immutablebench builds a Vector and a Map of configurable size,
// round-trips each through JSON, and reports elapsed time and encoded
// size. It exists to give the module a runnable surface beyond `go test`;
// it is not part of the library's public API.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/lucaong/immutable"
)

func main() {
	size := flag.Int("size", 100_000, "number of elements/entries to build")
	flag.Parse()

	log.SetFlags(log.Lmicroseconds)

	benchVector(*size)
	benchMap(*size)
}

func benchVector(size int) {
	items := make([]int, size)
	for i := range items {
		items[i] = i
	}

	start := time.Now()
	v := immutable.From(items)
	buildElapsed := time.Since(start)

	start = time.Now()
	data, err := v.MarshalJSON()
	if err != nil {
		log.Fatalf("Vector.MarshalJSON: %v", err)
	}
	marshalElapsed := time.Since(start)

	var decoded immutable.Vector[int]
	start = time.Now()
	if err := decoded.UnmarshalJSON(data); err != nil {
		log.Fatalf("Vector.UnmarshalJSON: %v", err)
	}
	unmarshalElapsed := time.Since(start)

	if decoded.Len() != v.Len() {
		log.Fatalf("round-trip length mismatch: got %d, want %d", decoded.Len(), v.Len())
	}

	fmt.Printf("Vector[int] size=%d build=%v marshal=%v (%d bytes) unmarshal=%v\n",
		size, buildElapsed, marshalElapsed, len(data), unmarshalElapsed)
}

func benchMap(size int) {
	h := immutable.DefaultHasher[int]()
	native := make(map[int]int, size)
	for i := 0; i < size; i++ {
		native[i] = i * i
	}

	start := time.Now()
	m := immutable.FromMap(native, h)
	buildElapsed := time.Since(start)

	start = time.Now()
	data, err := m.MarshalJSON()
	if err != nil {
		log.Fatalf("Map.MarshalJSON: %v", err)
	}
	marshalElapsed := time.Since(start)

	decoded := immutable.EmptyMap[int, int](h)
	start = time.Now()
	if err := decoded.UnmarshalJSON(data); err != nil {
		log.Fatalf("Map.UnmarshalJSON: %v", err)
	}
	unmarshalElapsed := time.Since(start)

	if decoded.Len() != m.Len() {
		log.Fatalf("round-trip length mismatch: got %d, want %d", decoded.Len(), m.Len())
	}

	fmt.Printf("Map[int,int] size=%d build=%v marshal=%v (%d bytes) unmarshal=%v\n",
		size, buildElapsed, marshalElapsed, len(data), unmarshalElapsed)
}
