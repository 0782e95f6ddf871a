package immutable

import "github.com/pkg/errors"

// Sentinel errors for the four failure kinds the tries and facades raise.
// Every one is checkable with errors.Is regardless of the stack-trace
// wrapping applied at the raise site.
var (
	// ErrOutOfRange is returned when a Vector index is negative or not
	// less than the vector's size (Get, Set, Pop of an empty vector).
	ErrOutOfRange = errors.New("immutable: index out of range")

	// ErrKeyNotFound is returned when a Map key is absent (Get, Delete).
	ErrKeyNotFound = errors.New("immutable: key not found")

	// ErrBadArgument is returned by the low-level trie pushLeaf/popLeaf
	// operations when the leaf is the wrong size or the trie isn't
	// currently a whole number of leaves.
	ErrBadArgument = errors.New("immutable: bad argument")

	// ErrInvalidTransient is returned by any operation performed on a
	// transient builder after it has already been persisted.
	ErrInvalidTransient = errors.New("immutable: operation on persisted transient")
)

// wrap attaches a stack trace to a sentinel error at the point of
// detection, so a caller that logs the returned error (rather than just
// checking it with errors.Is) can see where inside the trie it came from.
func wrap(sentinel error) error {
	return errors.WithStack(sentinel)
}
