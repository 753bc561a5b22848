package ccombinator

import "fmt"

// Primitive parser constructors. Grounded line-for-line on
// original_source/include/ccombinator.h's primitive section
// (cc_any..cc_aplhanum). Every constructor here is total: it never
// takes ownership of another Node, so none of them can fail on
// argument-release grounds the way combinator constructors can
// (spec.md §4.1) — only the constructors with a Node argument need to
// honor "release inputs even on failure".

// Any matches any single code point, failing only at EOF.
func Any() *Node { return newNode(KindAny) }

// Eof succeeds iff the cursor is at the end of the buffer.
func Eof() *Node { return newNode(KindEOF) }

// Sof succeeds iff the cursor is at the very start of the buffer.
func Sof() *Node { return newNode(KindSOF) }

// Pass always succeeds without consuming input; its result is nil.
func Pass() *Node { return newNode(KindPass) }

// Char matches exactly the code point c.
func Char(c rune) *Node {
	n := newNode(KindChar)
	n.ch = c
	return n
}

// CharRange matches any code point in [lo, hi] inclusive. It returns
// an error if hi < lo, mirroring spec.md §7.3's argument-validation
// contract for constructors.
func CharRange(lo, hi rune) (*Node, error) {
	if hi < lo {
		return nil, fmt.Errorf("ccombinator: invalid range %s-%s", printableRune(lo), printableRune(hi))
	}
	n := newNode(KindCharRange)
	n.lo, n.hi = lo, hi
	return n, nil
}

// Str matches the exact UTF-8 byte sequence s.
func Str(s string) *Node {
	n := newNode(KindString)
	n.str = []byte(s)
	return n
}

// Match matches any code point for which f returns true. It returns
// an error if f is nil.
func Match(f Predicate) (*Node, error) {
	if f == nil {
		return nil, fmt.Errorf("ccombinator: Match requires a non-nil predicate")
	}
	n := newNode(KindMatch)
	n.predicate = f
	return n, nil
}

func newSetNode(kind Kind, chars []rune) (*Node, error) {
	if len(chars) == 0 {
		return nil, fmt.Errorf("ccombinator: character set must not be empty")
	}
	n := newNode(kind)
	n.set = append([]rune(nil), chars...)
	return n, nil
}

// AnyOf matches any code point that is a member of chars.
func AnyOf(chars []rune) (*Node, error) { return newSetNode(KindAnyOf, chars) }

// OneOf matches any code point occurring exactly once in chars.
func OneOf(chars []rune) (*Node, error) { return newSetNode(KindOneOf, chars) }

// NoneOf matches any code point that is not a member of chars.
func NoneOf(chars []rune) (*Node, error) { return newSetNode(KindNoneOf, chars) }

// Fail always fails with message msg.
func Fail(msg string) *Node {
	n := newNode(KindFail)
	n.text = msg
	n.freeData = true
	return n
}

// Failf is Fail with printf-style formatting. Grounded on cc_failf.
func Failf(format string, args ...any) *Node {
	return Fail(fmt.Sprintf(format, args...))
}

// Lift always succeeds, producing fn() as its result.  It returns an
// error if fn is nil.
func Lift(fn LiftFn) (*Node, error) {
	if fn == nil {
		return nil, fmt.Errorf("ccombinator: Lift requires a non-nil function")
	}
	n := newNode(KindLift)
	n.lift = fn
	return n, nil
}

// LiftVal always succeeds, producing val directly as its result.
// Grounded on cc_lift_val, the direct-value form of LIFT spec.md §3's
// data model allows alongside the thunk form.
func LiftVal(val Value) *Node {
	n := newNode(KindLift)
	n.liftVal = val
	n.hasLiftVal = true
	return n
}

// LocationParser always succeeds, producing a copy of the current
// Location as its result.
func LocationParser() *Node { return newNode(KindLocation) }

// Character-class constructors. Grounded on original_source's
// cc_whitespace/cc_blank/cc_newline/cc_tab/cc_digit/cc_hexdigit/
// cc_octdigit/cc_alpha/cc_lower/cc_upper/cc_underscore/cc_aplhanum —
// the corrected spelling AlphaNum is used in place of the header's
// "cc_aplhanum" typo (see SPEC_FULL.md).

func Whitespace() *Node { n := newNode(KindMatch); n.predicate = isWhitespace; return n }
func Blank() *Node      { n := newNode(KindMatch); n.predicate = isBlank; return n }
func Newline() *Node    { return Char('\n') }
func Tab() *Node        { return Char('\t') }
func Digit() *Node      { n := newNode(KindMatch); n.predicate = isDigit; return n }
func HexDigit() *Node   { n := newNode(KindMatch); n.predicate = isHexDigit; return n }
func OctDigit() *Node   { n := newNode(KindMatch); n.predicate = isOctDigit; return n }
func Alpha() *Node      { n := newNode(KindMatch); n.predicate = isAlpha; return n }
func Lower() *Node      { n := newNode(KindMatch); n.predicate = isLower; return n }
func Upper() *Node      { n := newNode(KindMatch); n.predicate = isUpper; return n }
func Underscore() *Node { n := newNode(KindMatch); n.predicate = isUnderscore; return n }
func AlphaNum() *Node   { n := newNode(KindMatch); n.predicate = isAlphaNum; return n }
