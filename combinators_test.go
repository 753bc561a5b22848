package ccombinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpect_AddsLabelOnFailure(t *testing.T) {
	p, err := Expect(Str("xyz"), "identifier")
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("abc"), p)
	require.NoError(t, err)
	require.NotNil(t, perr)
	assert.Equal(t, []string{"identifier"}, perr.Expected)
}

func TestExpectf(t *testing.T) {
	p, err := Expectf(Str("xyz"), "token %d", 7)
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("abc"), p)
	require.NoError(t, err)
	require.NotNil(t, perr)
	assert.Equal(t, []string{"token 7"}, perr.Expected)
}

func TestApply_TransformsResult(t *testing.T) {
	p, err := Apply(Str("5"), func(v Value) Value { return len(v.(string)) })
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("5"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, 1, out)
}

func TestApply_NilFunctionReleasesParser(t *testing.T) {
	p := Char('a')
	_, err := Apply(p, nil)
	assert.Error(t, err)
	assert.EqualValues(t, 0, refCount(p))
}

func TestNot_SucceedsOnChildFailure(t *testing.T) {
	p, err := Not(Char('a'))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("b"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Nil(t, out)
}

func TestNot_FailsOnChildSuccess(t *testing.T) {
	p, err := Not(Char('a'))
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("a"), p)
	require.NoError(t, err)
	require.NotNil(t, perr)
}

func TestNoError_SuppressesExpectedList(t *testing.T) {
	inner, err := Expect(Str("xyz"), "identifier")
	require.NoError(t, err)
	p, err := NoError(inner)
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("abc"), p)
	require.NoError(t, err)
	require.NotNil(t, perr)
	assert.Empty(t, perr.Expected)
}

func TestValidateChildren_ReleasesAllOnNil(t *testing.T) {
	a := Char('a')
	_, err := And(nil, a, nil)
	assert.Error(t, err)
	assert.EqualValues(t, 0, refCount(a))
}

func TestAnd_RequiresAtLeastOneChild(t *testing.T) {
	_, err := And(nil)
	assert.Error(t, err)
}

func TestOr_RequiresAtLeastOneChild(t *testing.T) {
	_, err := Or()
	assert.Error(t, err)
}

func TestToken_SkipsSurroundingWhitespace(t *testing.T) {
	p, err := Token(Str("let"))
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("  let  "), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "let", out)
}

// TestRestoreSymmetry_OrBacktracks verifies spec.md §8's restore
// invariant directly against evaluator state: a failing OR branch
// leaves location, flags and scope-stack length exactly as they were
// at entry.
func TestRestoreSymmetry_OrBacktracks(t *testing.T) {
	failing, err := And(nil, Char('a'), Char('z'))
	require.NoError(t, err)
	fallback := Char('x')
	p, err := Or(failing, fallback)
	require.NoError(t, err)
	defer Release(p)

	src := NewSource("ab")
	accum := &ParseError{}
	ev := newEvaluator(src, accum)

	entry := ev.save()
	_, status := ev.run(p)

	assert.Equal(t, evalFailure, status)
	assert.Equal(t, entry, ev.save())
}

// TestRestoreSymmetry_ManyExhaustion verifies many(p) followed
// immediately by p fails once greedy matching has exhausted every
// occurrence (spec.md §8's idempotence law).
func TestRestoreSymmetry_ManyExhaustion(t *testing.T) {
	many, err := Many(nil, Char('a'))
	require.NoError(t, err)
	trailing := Char('a')
	p, err := And(nil, many, trailing)
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("aaa"), p)
	require.NoError(t, err)
	assert.NotNil(t, perr)
}
