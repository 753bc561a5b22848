package ccombinator

import "fmt"

// Combinator constructors. Every *Node argument here has one
// reference consumed by the call: on success that reference is now
// owned by the returned node; on failure every argument is still
// released before returning the error, so a caller never has to
// clean up after a failed construction (spec.md §4.1).

// Expect runs p; on success it forwards p's result. On failure it
// adds label to the accumulated expected-list (spec.md §4.9).
func Expect(p *Node, label string) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Expect requires a non-nil parser")
	}
	n := newNode(KindExpect)
	n.text = label
	n.inner = p
	return n, nil
}

// Expectf is Expect with a printf-formatted label. Grounded on
// cc_expectf.
func Expectf(p *Node, format string, args ...any) (*Node, error) {
	return Expect(p, fmt.Sprintf(format, args...))
}

// Apply runs p; on success it replaces p's result with fn(result).
func Apply(p *Node, fn ApplyFn) (*Node, error) {
	if p == nil {
		releaseAll(p)
		return nil, fmt.Errorf("ccombinator: Apply requires a non-nil parser")
	}
	if fn == nil {
		releaseAll(p)
		return nil, fmt.Errorf("ccombinator: Apply requires a non-nil function")
	}
	n := newNode(KindApply)
	n.inner = p
	n.apply = fn
	return n, nil
}

// Not succeeds, consuming nothing, iff p fails; it never produces a
// result and never reports an expected-list entry of its own.
func Not(p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Not requires a non-nil parser")
	}
	n := newNode(KindNot)
	n.inner = p
	return n, nil
}

// Maybe runs p once; on failure it succeeds anyway with a nil result
// and no consumption.
func Maybe(p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Maybe requires a non-nil parser")
	}
	n := newNode(KindMaybe)
	n.inner = p
	return n, nil
}

// NoError runs p with error-accumulation suppressed for its duration.
func NoError(p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: NoError requires a non-nil parser")
	}
	n := newNode(KindNoError)
	n.inner = p
	return n, nil
}

// NoReturn runs p with result construction suppressed for its
// duration.
func NoReturn(p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: NoReturn requires a non-nil parser")
	}
	n := newNode(KindNoReturn)
	n.inner = p
	return n, nil
}

func validateChildren(who string, ps []*Node) error {
	for i, p := range ps {
		if p == nil {
			releaseAll(ps...)
			return fmt.Errorf("ccombinator: %s: child %d is nil", who, i)
		}
	}
	return nil
}

// And runs every child in ps in order; any failure fails the whole
// combinator without restoring state (spec.md §4.5 — AND does not
// backtrack). fold may be nil, in which case no results are
// collected and NORETURN applies to every child (spec.md §4.4).
func And(fold Fold, ps ...*Node) (*Node, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("ccombinator: And requires at least one parser")
	}
	if err := validateChildren("And", ps); err != nil {
		return nil, err
	}
	n := newNode(KindAnd)
	n.fold = fold
	n.children = ps
	return n, nil
}

// Or tries each child in ps in order; the first success wins. All
// children's expected-list contributions accumulate into the shared
// error (spec.md §4.4).
func Or(ps ...*Node) (*Node, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("ccombinator: Or requires at least one parser")
	}
	if err := validateChildren("Or", ps); err != nil {
		return nil, err
	}
	n := newNode(KindOr)
	n.children = ps
	return n, nil
}

// Many runs p zero or more times, collecting and folding the results.
// Many never fails.
func Many(fold Fold, p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Many requires a non-nil parser")
	}
	n := newNode(KindMany)
	n.fold = fold
	n.inner = p
	return n, nil
}

// ManyUntil repeats p until terminator succeeds, folding the
// collected results — including the terminator's own result as the
// final element (spec.md §4.4).
func ManyUntil(fold Fold, p, terminator *Node) (*Node, error) {
	if p == nil || terminator == nil {
		releaseAll(p, terminator)
		return nil, fmt.Errorf("ccombinator: ManyUntil requires non-nil parsers")
	}
	n := newNode(KindManyUntil)
	n.fold = fold
	n.inner = p
	n.second = terminator
	return n, nil
}

// Count runs p exactly n times in sequence; any failure fails the
// whole combinator without restoring state (spec.md §4.5).
func Count(n int, fold Fold, p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Count requires a non-nil parser")
	}
	if n < 0 {
		releaseAll(p)
		return nil, fmt.Errorf("ccombinator: Count requires n >= 0, got %d", n)
	}
	node := newNode(KindCount)
	node.fold = fold
	node.inner = p
	node.n = n
	return node, nil
}

// Least runs p at least n times (those first n failures surface
// normally), then greedily for as many further matches as succeed
// (spec.md §4.4).
func Least(n int, fold Fold, p *Node) (*Node, error) {
	if p == nil {
		return nil, fmt.Errorf("ccombinator: Least requires a non-nil parser")
	}
	if n < 0 {
		releaseAll(p)
		return nil, fmt.Errorf("ccombinator: Least requires n >= 0, got %d", n)
	}
	node := newNode(KindLeast)
	node.fold = fold
	node.inner = p
	node.n = n
	return node, nil
}

// Chain parses `term (separator term)*`; if at least one separator
// matched, fold sees the full interleaved list, otherwise term's own
// result passes through unfolded (spec.md §4.4).
func Chain(fold Fold, term, separator *Node) (*Node, error) {
	if term == nil || separator == nil {
		releaseAll(term, separator)
		return nil, fmt.Errorf("ccombinator: Chain requires non-nil parsers")
	}
	n := newNode(KindChain)
	n.fold = fold
	n.inner = term
	n.second = separator
	return n, nil
}

// Postfix parses `term op*`; if at least one op matched, fold sees
// the full list, otherwise term's own result passes through unfolded
// (spec.md §4.4).
func Postfix(fold Fold, term, op *Node) (*Node, error) {
	if term == nil || op == nil {
		releaseAll(term, op)
		return nil, fmt.Errorf("ccombinator: Postfix requires non-nil parsers")
	}
	n := newNode(KindPostfix)
	n.fold = fold
	n.inner = term
	n.second = op
	return n, nil
}

// Token skips surrounding whitespace around a, the way cc_token is
// documented: equivalent to
// And(FoldMiddle, Many(nil, Whitespace()), a, Many(nil, Whitespace())).
func Token(a *Node) (*Node, error) {
	if a == nil {
		return nil, fmt.Errorf("ccombinator: Token requires a non-nil parser")
	}
	leading, err := Many(nil, Whitespace())
	if err != nil {
		releaseAll(a)
		return nil, err
	}
	trailing, err := Many(nil, Whitespace())
	if err != nil {
		releaseAll(a, leading)
		return nil, err
	}
	return And(FoldMiddle, leading, a, trailing)
}

// Bind pushes name->child on the evaluator's scope stack for the
// duration of running child, then runs it. It is dynamically scoped:
// a Lookup evaluated while this BIND node is active on the stack —
// wherever it was itself constructed — resolves to child (spec.md
// §4.8).
func Bind(name string, child *Node) (*Node, error) {
	if name == "" {
		releaseAll(child)
		return nil, fmt.Errorf("ccombinator: Bind requires a non-empty name")
	}
	if child == nil {
		return nil, fmt.Errorf("ccombinator: Bind requires a non-nil parser")
	}
	n := newNode(KindBind)
	n.text = name
	n.inner = child
	return n, nil
}

// Lookup resolves to the most recently active BIND of name on the
// evaluator's scope stack, failing if none is active.
func Lookup(name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("ccombinator: Lookup requires a non-empty name")
	}
	n := newNode(KindLookup)
	n.text = name
	return n, nil
}
