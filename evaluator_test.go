package ccombinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Count(t *testing.T) {
	p, err := Count(3, FoldConcat, Digit())
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("123"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "123", out)
}

func TestEval_Count_FailsShortOfN(t *testing.T) {
	p, err := Count(3, FoldConcat, Digit())
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("12a"), p)
	require.NoError(t, err)
	assert.NotNil(t, perr)
}

func TestEval_Least_MandatoryPrefixSurfacesFailure(t *testing.T) {
	p, err := Least(2, FoldConcat, Digit())
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("1"), p)
	require.NoError(t, err)
	assert.NotNil(t, perr)
}

func TestEval_Least_GreedyPastMandatory(t *testing.T) {
	p, err := Least(1, FoldConcat, Digit())
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("12345a"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "12345", out)
}

func TestEval_Chain_SingleTermUnfolded(t *testing.T) {
	p, err := Chain(FoldConcat, Digit(), Char('+'))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("5"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "5", out)
}

func TestEval_Chain_InterleavesSeparatorAndTerm(t *testing.T) {
	p, err := Chain(FoldConcat, Digit(), Char(','))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("1,2,3"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "1,2,3", out)
}

func TestEval_Postfix_SingleTermUnfolded(t *testing.T) {
	p, err := Postfix(FoldConcat, Digit(), Char('!'))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("5"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "5", out)
}

func TestEval_Postfix_CollectsEveryOperator(t *testing.T) {
	p, err := Postfix(FoldConcat, Digit(), Char('!'))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("5!!"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "5!!", out)
}

func TestEval_NoReturn_PropagatesIntoNestedFoldlessCombinators(t *testing.T) {
	inner, err := Many(nil, Any())
	require.NoError(t, err)
	p, err := NoReturn(inner)
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("abc"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Nil(t, out)
}

func TestEval_Maybe_AbsorbsUndefinedLookup(t *testing.T) {
	// A Lookup to an undefined name is a plain parser failure, not an
	// internal error, so Maybe absorbs it; this documents that
	// boundary rather than asserting an internal-error path, since
	// this port has no allocator that can fail the way the C
	// original's malloc can.
	lookup, err := Lookup("missing")
	require.NoError(t, err)
	p, err := Maybe(lookup)
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("x"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Nil(t, out)
}

func TestEval_Bind_ScopeStackPoppedAfterRun(t *testing.T) {
	bound, err := Bind("digit", Digit())
	require.NoError(t, err)
	defer Release(bound)

	src := NewSource("5")
	accum := &ParseError{}
	ev := newEvaluator(src, accum)

	_, status := ev.run(bound)
	assert.Equal(t, evalSuccess, status)
	assert.Empty(t, ev.scope)
}

func TestEval_UTF8_LineColumnTracking(t *testing.T) {
	p, err := Many(nil, Any())
	require.NoError(t, err)

	src := NewSource("a\nb")
	accum := &ParseError{}
	ev := newEvaluator(src, accum)
	_, status := ev.run(p)

	require.Equal(t, evalSuccess, status)
	assert.Equal(t, 2, ev.loc.Line)
	assert.Equal(t, 2, ev.loc.Column)
	assert.Equal(t, 3, ev.loc.Offset)
}
