package pattern

// endMarker is the traversal-exhaustion sentinel consumed by the copyable
// walker. It is a distinct Go type, never constructed from a user term,
// so it can never collide with a real Term value.
type endMarker struct{}

// End is the single value of type endMarker, returned by Walker.Term
// once a traversal is exhausted.
var End Term = endMarker{}

// IsEnd reports whether t is the traversal-exhaustion sentinel.
func IsEnd(t Term) bool {
	_, ok := t.(endMarker)
	return ok
}
