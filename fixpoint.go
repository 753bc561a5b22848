package ccombinator

// Fix builds a recursive parser. It allocates an empty placeholder
// node, calls build with that placeholder and ctx, and expects build
// to return a parser R that references the placeholder anywhere it
// wants recursion. Fix then reshapes the placeholder in place to hold
// R's fields (preserving the placeholder's own reference count),
// marks it RETAIN_INNER so releasing it won't double-release children
// R already holds references to, and releases R's now-empty outer
// shell. The result is the placeholder, correctly shaped and safe to
// release without walking the R -> ... -> placeholder cycle.
//
// Grounded on spec.md §4.7 — the only complete description of this
// trick available; original_source never finished wiring its
// fixpoint/BIND machinery into cc_eval.c's dispatch.
func Fix(build func(placeholder *Node, ctx any) (*Node, error), ctx any) (*Node, error) {
	placeholder := newNode(KindLookup)
	placeholder.text = "<fix>"

	real, err := build(placeholder, ctx)
	if err != nil {
		Release(placeholder)
		return nil, err
	}
	if real == nil {
		Release(placeholder)
		return nil, errFixBuiltNil
	}

	reshapeInto(placeholder, real)

	// real's own shell is now redundant: everything it owned has
	// been moved onto placeholder, and placeholder is RETAIN_INNER
	// so releasing real's shell must not touch those children.
	real.retainInner = true
	Release(real)

	return placeholder, nil
}

var errFixBuiltNil = fixError("ccombinator: Fix's build function returned a nil parser")

type fixError string

func (e fixError) Error() string { return string(e) }
