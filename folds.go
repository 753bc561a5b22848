package ccombinator

import "strings"

// Convenience fold/apply callbacks. spec.md §1 explicitly keeps these
// out of the core's required surface ("convenience fold callbacks
// (concat, first, middle, last, null)") but a combinator library that
// ships no ready-made reducer at all is unusable out of the box, so
// they live here rather than in the evaluator/constructor files
// proper. Grounded on original_source/include/ccombinator.h's
// cc_fold_concat/cc_fold_first/cc_fold_middle/cc_fold_last/
// cc_fold_null/cc_apply_free.

// FoldConcat concatenates every collected value, each of which must
// be a string, into one string. Grounded on cc_fold_concat's doc
// comment ("expects all elements of r to be utf8-strings").
func FoldConcat(values []Value) Value {
	var b strings.Builder
	for _, v := range values {
		if s, ok := v.(string); ok {
			b.WriteString(s)
		}
	}
	return b.String()
}

// FoldFirst returns the first collected value, or nil if none were
// collected.
func FoldFirst(values []Value) Value {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// FoldMiddle returns the element nearest the middle of values — used
// by Token to discard the surrounding whitespace it wraps a parser
// with (spec.md's cc_token is documented as
// cc_and(3, cc_fold_middle, many(whitespace), a, many(whitespace))).
func FoldMiddle(values []Value) Value {
	if len(values) == 0 {
		return nil
	}
	return values[len(values)/2]
}

// FoldLast returns the last collected value, or nil if none were
// collected.
func FoldLast(values []Value) Value {
	if len(values) == 0 {
		return nil
	}
	return values[len(values)-1]
}

// FoldNull discards every collected value and returns nil.
func FoldNull(values []Value) Value {
	return nil
}

// ApplyFree discards its input and returns nil — an Apply callback
// for combinators that only care about a child having matched, not
// what it matched. Grounded on cc_apply_free.
func ApplyFree(Value) Value {
	return nil
}
