package ccombinator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompiledFrom_Success(t *testing.T) {
	p, err := CompiledFrom(func(source *Source, offset int) (int, Value, error) {
		if offset+3 <= len(source.Buffer) && string(source.Buffer[offset:offset+3]) == "cat" {
			return 3, "cat", nil
		}
		return 0, nil, nil
	})
	require.NoError(t, err)

	out, perr, err := Parse(NewSource("cat"), p)
	require.NoError(t, err)
	require.Nil(t, perr)
	assert.Equal(t, "cat", out)
}

func TestCompiledFrom_Failure(t *testing.T) {
	p, err := CompiledFrom(func(source *Source, offset int) (int, Value, error) {
		return 0, nil, nil
	})
	require.NoError(t, err)

	_, perr, err := Parse(NewSource("dog"), p)
	require.NoError(t, err)
	assert.NotNil(t, perr)
}

func TestCompiledFrom_InternalError(t *testing.T) {
	wantErr := errors.New("boom")
	p, err := CompiledFrom(func(source *Source, offset int) (int, Value, error) {
		return 0, nil, wantErr
	})
	require.NoError(t, err)

	_, _, err = Parse(NewSource("x"), p)
	assert.ErrorIs(t, err, wantErr)
}

func TestCompiledFrom_NilFunction(t *testing.T) {
	_, err := CompiledFrom(nil)
	assert.Error(t, err)
}
