package ccombinator

import "fmt"

// Parse runs root against source once, releasing root exactly once
// regardless of outcome — callers retain ownership of root's result
// the same way cc_parse's caller does in original_source/cc_eval.c,
// but never needs to release it again afterward.
//
// On success it returns the produced Value, a nil *ParseError and a
// nil error. On a parser-level failure it returns the zero Value, a
// populated *ParseError describing the furthest-reached failure, and
// a nil error. On an evaluator-internal error (corrupted scope stack,
// an undefined Kind reaching the dispatch) it returns a non-nil plain
// error instead; a *ParseError is meaningless in that case.
//
// Grounded on original_source/cc_eval.c's cc_parse: allocate an error
// accumulator, run the root parser once, and free root's reference
// whether or not the run succeeded.
func Parse(source *Source, root *Node) (Value, *ParseError, error) {
	if source == nil {
		Release(root)
		return nil, nil, fmt.Errorf("ccombinator: Parse requires a non-nil source")
	}
	if root == nil {
		return nil, nil, fmt.Errorf("ccombinator: Parse requires a non-nil parser")
	}
	defer Release(root)

	accum := &ParseError{Filename: displayFilename(source.Origin)}
	ev := newEvaluator(source, accum)

	out, status := ev.run(root)

	switch status {
	case evalSuccess:
		return out, nil, nil
	case evalFailure:
		return nil, accum, nil
	default:
		return nil, nil, ev.internalErr
	}
}

// ParseTyped is Parse with a generic result assertion, the ergonomic
// boundary spec.md §5's ParserFn-flavored callers want when they know
// the root parser's fold chain always produces a V. It returns an
// error if a non-nil successful result cannot be asserted to V; a nil
// result yields V's zero value and no error.
func ParseTyped[V any](source *Source, root *Node) (V, *ParseError, error) {
	var zero V
	out, perr, err := Parse(source, root)
	if err != nil || perr != nil {
		return zero, perr, err
	}
	if out == nil {
		return zero, nil, nil
	}
	v, ok := out.(V)
	if !ok {
		return zero, nil, fmt.Errorf("ccombinator: parse result is %T, not %T", out, zero)
	}
	return v, nil, nil
}
