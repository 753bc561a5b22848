package ccombinator

// CompiledFrom wraps an externally compiled parsing function as a
// Node usable anywhere a constructor's result is: the hook a future
// regex front end plugs a compiled pattern into without this module
// depending on a regex-compiler package (see SPEC_FULL.md's "Regex
// front-end hook"). fn is called with the active Source and the
// current byte offset; it must return the number of bytes it
// consumed on success, or a zero count, a nil value and a nil error to
// signal an ordinary backtracking failure (a zero count with a non-nil
// value is a successful zero-width match; a non-nil error is treated
// as an internal error, not a parse failure).
//
// Grounded on original_source/include/ccombinator.h's
// cc_regex_from/cc_regex, which compile a pattern into a cc_parser_t*
// ahead of time; CompiledFrom instead wraps an already-compiled
// matching function directly, since this port has no pattern compiler
// of its own to call first.
func CompiledFrom(fn func(source *Source, offset int) (consumed int, value Value, err error)) (*Node, error) {
	if fn == nil {
		return nil, errCompiledFromNil
	}
	n := newNode(KindCompiled)
	n.compiledFn = fn
	return n, nil
}

var errCompiledFromNil = compiledError("ccombinator: CompiledFrom requires a non-nil function")

type compiledError string

func (e compiledError) Error() string { return string(e) }
