package ccombinator

import "fmt"

// evalFlags mirror original_source/cc_eval.c's CC_STATE_FLAG_* bits,
// extended with NORETURN (spec.md §4.6; the C source never finished
// wiring it in).
type evalFlags uint8

const (
	flagEOF evalFlags = 1 << iota
	flagNoError
	flagNoReturn
)

func (f evalFlags) has(bit evalFlags) bool { return f&bit != 0 }

// evalStatus is the three-way outcome spec.md §4.2 defines for run.
type evalStatus int

const (
	evalSuccess evalStatus = iota
	evalFailure
	evalInternal
)

// evaluator is the recursive descent interpreter. One evaluator
// instance backs exactly one Parse call (spec.md §4/§5: evaluation is
// single-threaded and synchronous).
//
// Grounded on original_source/cc_eval.c's struct cc_state/run_parser
// for the variants that file implements, and directly on spec.md
// §4.4/§4.6/§4.7/§4.8 for the variants it never finished wiring in
// (MANY_UNTIL, LEAST, CHAIN, POSTFIX, NOERROR, NORETURN, BIND/LOOKUP,
// LOCATION) — see DESIGN.md.
type evaluator struct {
	source *Source
	loc    Location
	flags  evalFlags

	depth    int
	maxDepth int

	scope []*Node // active BIND nodes, most recent last

	err         *ParseError
	internalErr error
}

func newEvaluator(source *Source, err *ParseError) *evaluator {
	return &evaluator{
		source:   source,
		loc:      StartLocation,
		maxDepth: source.MaxRecursionDepth,
		err:      err,
	}
}

type saveState struct {
	loc      Location
	flags    evalFlags
	scopeLen int
}

func (e *evaluator) save() saveState {
	return saveState{loc: e.loc, flags: e.flags, scopeLen: len(e.scope)}
}

func (e *evaluator) restore(s saveState) {
	e.loc = s.loc
	e.flags = s.flags
	e.scope = e.scope[:s.scopeLen]
}

func (e *evaluator) setFlag(bit evalFlags, on bool) evalFlags {
	before := e.flags
	if on {
		e.flags |= bit
	} else {
		e.flags &^= bit
	}
	return before
}

// peek decodes the code point under the cursor without consuming it,
// setting the EOF flag once the half-open buffer boundary is reached
// (spec.md §9's resolved open question).
func (e *evaluator) peek() rune {
	r, _ := decodeRune(e.source.Buffer, e.loc.Offset)
	if r == eof {
		e.flags |= flagEOF
	}
	return r
}

// advance consumes the code point r (of encoded width) under the
// cursor.
func (e *evaluator) advance(r rune, width int) {
	e.loc = e.loc.advance(r, width)
}

func (e *evaluator) addExpected(label string) {
	if e.flags.has(flagNoError) {
		return
	}
	e.err.addExpected(displayFilename(e.source.Origin), e.loc, e.peek(), label)
}

func (e *evaluator) fail(msg string) evalStatus {
	if !e.flags.has(flagNoError) {
		e.err.setFailure(displayFilename(e.source.Origin), e.loc, e.peek(), msg)
	}
	return evalFailure
}

func (e *evaluator) internal(err error) evalStatus {
	e.internalErr = err
	return evalInternal
}

// charResult builds the produced value for a single-code-point
// primitive, honoring NORETURN suppression (spec.md §4.3/§4.6).
func (e *evaluator) charResult(r rune) Value {
	if e.flags.has(flagNoReturn) {
		return nil
	}
	return string(r)
}

// run is the exhaustive dispatch over every Kind, implementing
// spec.md §4's evaluation contract: SUCCESS advances loc and sets
// out; FAILURE restores loc/flags/scope to the entry state (except
// where §4.5 says a combinator commits); INTERNAL_ERROR propagates.
func (e *evaluator) run(n *Node) (Value, evalStatus) {
	e.depth++
	defer func() { e.depth-- }()

	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return nil, e.fail(fmt.Sprintf("maximum recursion depth of %d reached", e.maxDepth))
	}

	switch n.Kind {
	case KindFail:
		return nil, e.fail(n.text)

	case KindPass:
		return nil, evalSuccess

	case KindLift:
		if e.flags.has(flagNoReturn) {
			return nil, evalSuccess
		}
		if n.hasLiftVal {
			return n.liftVal, evalSuccess
		}
		return n.lift(), evalSuccess

	case KindLocation:
		if e.flags.has(flagNoReturn) {
			return nil, evalSuccess
		}
		loc := e.loc
		return &loc, evalSuccess

	case KindEOF:
		e.peek()
		if e.flags.has(flagEOF) {
			return nil, evalSuccess
		}
		return nil, e.fail2("end of file")

	case KindSOF:
		if e.loc.Offset == 0 {
			return nil, evalSuccess
		}
		return nil, e.fail2("start of file")

	case KindAny:
		r := e.peek()
		if e.flags.has(flagEOF) {
			return nil, e.fail2("any character")
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess

	case KindChar:
		r := e.peek()
		if e.flags.has(flagEOF) || r != n.ch {
			return nil, e.fail2(printableRune(n.ch))
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess

	case KindCharRange:
		r := e.peek()
		if e.flags.has(flagEOF) || r < n.lo || r > n.hi {
			return nil, e.fail2(fmt.Sprintf("%s-%s", printableRune(n.lo), printableRune(n.hi)))
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess

	case KindMatch:
		r := e.peek()
		if e.flags.has(flagEOF) || !n.predicate(r) {
			return nil, e.fail2("character class")
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess

	case KindAnyOf:
		return e.runSet(n, setModeAny)
	case KindOneOf:
		return e.runSet(n, setModeOne)
	case KindNoneOf:
		return e.runSet(n, setModeNone)

	case KindString:
		return e.runString(n)

	case KindExpect:
		out, status := e.run(n.inner)
		if status != evalFailure {
			return out, status
		}
		e.addExpected(n.text)
		return nil, evalFailure

	case KindApply:
		out, status := e.run(n.inner)
		if status != evalSuccess {
			return out, status
		}
		if !e.flags.has(flagNoReturn) && n.apply != nil {
			out = n.apply(out)
		}
		return out, evalSuccess

	case KindNot:
		return e.runNot(n)

	case KindMaybe:
		return e.runMaybe(n)

	case KindNoError:
		before := e.setFlag(flagNoError, true)
		out, status := e.run(n.inner)
		e.flags = (e.flags &^ flagNoError) | (before & flagNoError)
		return out, status

	case KindNoReturn:
		before := e.setFlag(flagNoReturn, true)
		_, status := e.run(n.inner)
		e.flags = (e.flags &^ flagNoReturn) | (before & flagNoReturn)
		if status != evalSuccess {
			return nil, status
		}
		return nil, evalSuccess

	case KindMany:
		return e.runMany(n)

	case KindManyUntil:
		return e.runManyUntil(n)

	case KindCount:
		return e.runCount(n)

	case KindLeast:
		return e.runLeast(n)

	case KindAnd:
		return e.runAnd(n)

	case KindOr:
		return e.runOr(n)

	case KindChain:
		return e.runChain(n)

	case KindPostfix:
		return e.runPostfix(n)

	case KindBind:
		e.scope = append(e.scope, n)
		out, status := e.run(n.inner)
		popped := e.scope[len(e.scope)-1]
		e.scope = e.scope[:len(e.scope)-1]
		if popped != n {
			return nil, e.internal(fmt.Errorf("ccombinator: scope stack corrupted popping bind %q", n.text))
		}
		return out, status

	case KindCompiled:
		consumed, out, err := n.compiledFn(e.source, e.loc.Offset)
		if err != nil {
			return nil, e.internal(err)
		}
		if consumed == 0 && out == nil {
			return nil, e.fail2("compiled parser")
		}
		buf := e.source.Buffer
		loc := e.loc
		for i := 0; i < consumed; {
			r, width := decodeRune(buf, loc.Offset)
			loc = loc.advance(r, width)
			i += width
		}
		e.loc = loc
		if e.flags.has(flagNoReturn) {
			return nil, evalSuccess
		}
		return out, evalSuccess

	case KindLookup:
		found := e.lookup(n.text)
		if found == nil {
			return nil, e.fail(fmt.Sprintf("undefined parser %q", n.text))
		}
		return e.run(found)

	default:
		return nil, e.internal(fmt.Errorf("ccombinator: undefined parser kind %d", n.Kind))
	}
}

// fail2 is the failure path of primitives that are not wrapped in an
// explicit Expect node. Its argument names what was expected, but it
// is discarded: fail2 records no message anywhere. It does not touch
// the accumulator's expected-list (that is EXPECT's job) — it only
// ever matters when nothing above caught it with Expect, in which
// case spec.md's rendering falls back to whatever the furthest
// accumulator state already holds, or an empty expected-list
// ("nothing") if no EXPECT ever ran. Primitives therefore behave as
// silent backtracking failures by default, matching spec.md §4.5: the
// expected-list mechanism is opt-in via EXPECT (spec.md §7), not
// emitted by primitives on their own.
func (e *evaluator) fail2(string) evalStatus {
	return evalFailure
}

func (e *evaluator) lookup(name string) *Node {
	for i := len(e.scope) - 1; i >= 0; i-- {
		if e.scope[i].text == name {
			return e.scope[i].inner
		}
	}
	return nil
}

type setMode int

const (
	setModeAny setMode = iota
	setModeOne
	setModeNone
)

// runSet implements AnyOf/OneOf/NoneOf with the *documented*
// semantics spec.md §9 directs implementers to use, not the
// mis-indexed `chars[n]` behavior original_source/cc_eval.c's
// match_anyof/match_oneof/match_noneof exhibit.
func (e *evaluator) runSet(n *Node, mode setMode) (Value, evalStatus) {
	r := e.peek()
	if e.flags.has(flagEOF) {
		return nil, e.fail2("character set")
	}

	switch mode {
	case setModeAny:
		for _, c := range n.set {
			if c == r {
				e.advance(r, runeLen(r))
				return e.charResult(r), evalSuccess
			}
		}
		return nil, e.fail2("character set")

	case setModeOne:
		count := 0
		for _, c := range n.set {
			if c == r {
				count++
			}
		}
		if count != 1 {
			return nil, e.fail2("character set")
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess

	default: // setModeNone
		for _, c := range n.set {
			if c == r {
				return nil, e.fail2("character not in set")
			}
		}
		e.advance(r, runeLen(r))
		return e.charResult(r), evalSuccess
	}
}

// runString matches a byte string atomically: it saves full state,
// matches code point by code point, and restores on any mismatch
// (spec.md §4.3).
func (e *evaluator) runString(n *Node) (Value, evalStatus) {
	save := e.save()
	off := 0
	for off < len(n.str) {
		want, width := decodeRune(n.str, off)
		got := e.peek()
		if e.flags.has(flagEOF) || got != want {
			e.restore(save)
			return nil, e.fail2(fmt.Sprintf("%q", string(n.str)))
		}
		e.advance(got, runeLen(got))
		off += width
	}
	if e.flags.has(flagNoReturn) {
		return nil, evalSuccess
	}
	return string(n.str), evalSuccess
}

func (e *evaluator) runNot(n *Node) (Value, evalStatus) {
	save := e.save()
	before := e.setFlag(flagNoError, true)
	_, status := e.run(n.inner)
	e.flags = (e.flags &^ flagNoError) | (before & flagNoError)
	e.restore(save)

	switch status {
	case evalSuccess:
		return nil, evalFailure
	case evalFailure:
		return nil, evalSuccess
	default:
		return nil, status
	}
}

func (e *evaluator) runMaybe(n *Node) (Value, evalStatus) {
	save := e.save()
	before := e.setFlag(flagNoError, true)
	out, status := e.run(n.inner)
	e.flags = (e.flags &^ flagNoError) | (before & flagNoError)

	switch status {
	case evalSuccess:
		return out, evalSuccess
	case evalFailure:
		e.restore(save)
		return nil, evalSuccess
	default:
		return nil, status
	}
}

// withNilFoldNoReturn enters NORETURN for the body of a
// repetition/sequence combinator whose fold is nil, restoring the
// prior flag state when it returns — spec.md §4.4 point 1: "If the
// combinator's fold is null, enter NORETURN for the duration of the
// inner children."
func (e *evaluator) withNilFoldNoReturn(n *Node) func() {
	if n.fold != nil {
		return func() {}
	}
	before := e.setFlag(flagNoReturn, true)
	return func() { e.flags = (e.flags &^ flagNoReturn) | (before & flagNoReturn) }
}

func (e *evaluator) runMany(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	before := e.setFlag(flagNoError, true)
	var values []Value
	for {
		save := e.save()
		out, status := e.run(n.inner)
		if status == evalFailure {
			e.restore(save)
			break
		}
		if status == evalInternal {
			e.flags = (e.flags &^ flagNoError) | (before & flagNoError)
			return nil, status
		}
		if n.fold != nil {
			values = append(values, out)
		}
	}
	e.flags = (e.flags &^ flagNoError) | (before & flagNoError)
	return foldOrNil(n.fold, values), evalSuccess
}

func (e *evaluator) runManyUntil(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	var values []Value
	for {
		save := e.save()
		before := e.setFlag(flagNoError, true)
		out, status := e.run(n.second)
		e.flags = (e.flags &^ flagNoError) | (before & flagNoError)

		if status == evalInternal {
			return nil, status
		}
		if status == evalSuccess {
			if n.fold != nil {
				values = append(values, out)
			}
			return foldOrNil(n.fold, values), evalSuccess
		}

		e.restore(save)

		save = e.save()
		out, status = e.run(n.inner)
		if status == evalInternal {
			return nil, status
		}
		if status == evalSuccess {
			if n.fold != nil {
				values = append(values, out)
			}
			continue
		}

		e.restore(save)
		// neither the body nor the terminator matched: retry the
		// terminator with NOERROR off so its failure is reported.
		_, status = e.run(n.second)
		if status == evalInternal {
			return nil, status
		}
		return nil, evalFailure
	}
}

func (e *evaluator) runCount(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	values := make([]Value, 0, n.n)
	for i := 0; i < n.n; i++ {
		out, status := e.run(n.inner)
		if status != evalSuccess {
			return nil, status
		}
		if n.fold != nil {
			values = append(values, out)
		}
	}
	return foldOrNil(n.fold, values), evalSuccess
}

func (e *evaluator) runLeast(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	var values []Value
	for i := 0; ; i++ {
		required := i < n.n
		var before evalFlags
		if !required {
			before = e.setFlag(flagNoError, true)
		}

		save := e.save()
		out, status := e.run(n.inner)

		if !required {
			e.flags = (e.flags &^ flagNoError) | (before & flagNoError)
		}

		if status == evalInternal {
			return nil, status
		}
		if status == evalFailure {
			e.restore(save)
			if required {
				return nil, evalFailure
			}
			break
		}
		if n.fold != nil {
			values = append(values, out)
		}
	}
	return foldOrNil(n.fold, values), evalSuccess
}

func (e *evaluator) runAnd(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	values := make([]Value, 0, len(n.children))
	for _, c := range n.children {
		out, status := e.run(c)
		if status != evalSuccess {
			return nil, status
		}
		if n.fold != nil {
			values = append(values, out)
		}
	}
	return foldOrNil(n.fold, values), evalSuccess
}

func (e *evaluator) runOr(n *Node) (Value, evalStatus) {
	save := e.save()
	for _, c := range n.children {
		out, status := e.run(c)
		if status == evalSuccess || status == evalInternal {
			return out, status
		}
		e.restore(save)
	}
	return nil, evalFailure
}

// runChain implements `term (separator term)*`: if at least one
// separator matched, fold sees the full interleaved
// [term, sep, term, sep, term, ...] list; otherwise the lone term's
// own result passes through unfolded (spec.md §4.4).
func (e *evaluator) runChain(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	first, status := e.run(n.inner)
	if status != evalSuccess {
		return nil, status
	}

	values := []Value{first}
	matchedAny := false

	for {
		save := e.save()
		before := e.setFlag(flagNoError, true)
		sepOut, status := e.run(n.second)
		e.flags = (e.flags &^ flagNoError) | (before & flagNoError)

		if status == evalInternal {
			return nil, status
		}
		if status == evalFailure {
			e.restore(save)
			break
		}

		termOut, status := e.run(n.inner)
		if status != evalSuccess {
			return nil, status
		}

		matchedAny = true
		if n.fold != nil {
			values = append(values, sepOut, termOut)
		}
	}

	if !matchedAny {
		return first, evalSuccess
	}
	return foldOrNil(n.fold, values), evalSuccess
}

// runPostfix implements `term op*`: if at least one op matched, fold
// sees [term, op, op, ...]; otherwise the lone term's own result
// passes through unfolded (spec.md §4.4).
func (e *evaluator) runPostfix(n *Node) (Value, evalStatus) {
	defer e.withNilFoldNoReturn(n)()
	first, status := e.run(n.inner)
	if status != evalSuccess {
		return nil, status
	}

	values := []Value{first}
	matchedAny := false

	for {
		save := e.save()
		before := e.setFlag(flagNoError, true)
		opOut, status := e.run(n.second)
		e.flags = (e.flags &^ flagNoError) | (before & flagNoError)

		if status == evalInternal {
			return nil, status
		}
		if status == evalFailure {
			e.restore(save)
			break
		}

		matchedAny = true
		if n.fold != nil {
			values = append(values, opOut)
		}
	}

	if !matchedAny {
		return first, evalSuccess
	}
	return foldOrNil(n.fold, values), evalSuccess
}

func foldOrNil(fold Fold, values []Value) Value {
	if fold == nil {
		return nil
	}
	return fold(values)
}
