package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTestKind = NewKind(CodeValidation, "empty_name", "name cannot be empty")

func TestIs_MatchesOnKind(t *testing.T) {
	t.Run("sentinel matches itself", func(t *testing.T) {
		assert.ErrorIs(t, errTestKind, errTestKind)
	})

	t.Run("fresh error with same kind matches", func(t *testing.T) {
		err := NewKind(CodeValidation, "empty_name", "different text")
		assert.ErrorIs(t, err, errTestKind)
	})

	t.Run("different kind does not match", func(t *testing.T) {
		err := NewKind(CodeValidation, "name_too_long", "name cannot be empty")
		assert.False(t, errors.Is(err, errTestKind))
	})

	t.Run("wrapped with fmt still matches", func(t *testing.T) {
		err := fmt.Errorf("add contact: %w", errTestKind)
		assert.ErrorIs(t, err, errTestKind)
	})

	t.Run("unkinded errors match on code and message", func(t *testing.T) {
		require.ErrorIs(t, New(CodeUnauthorized, "invalid token"), New(CodeUnauthorized, "invalid token"))
		assert.False(t, errors.Is(New(CodeUnauthorized, "invalid token"), New(CodeUnauthorized, "token has expired")))
	})
}

func TestHasCode(t *testing.T) {
	inner := New(CodeConflict, "duplicate")
	outer := Wrap(inner, CodeInternal, "store failed")

	assert.True(t, HasCode(outer, CodeInternal))
	assert.True(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}

func TestCodeAndKindOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(errTestKind))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))

	assert.Equal(t, "empty_name", KindOf(fmt.Errorf("ctx: %w", errTestKind)))
	assert.Equal(t, "empty_name", KindOf(Wrap(errTestKind, CodeInternal, "outer")))
	assert.Equal(t, "", KindOf(errors.New("plain")))
}

func TestWrapKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapKind(errTestKind, cause)

	require.ErrorIs(t, err, errTestKind)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, CodeValidation, CodeOf(err))
	assert.Equal(t, "empty_name", KindOf(fmt.Errorf("store: %w", err)))
	assert.Equal(t, "name cannot be empty: connection reset", err.Error())
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "name cannot be empty", errTestKind.Error())
	assert.Equal(t, "store failed: boom", Wrap(errors.New("boom"), CodeInternal, "store failed").Error())
}
