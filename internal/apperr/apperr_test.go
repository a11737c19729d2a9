package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validationf("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("order %s not found", "ord_1")))
	assert.Equal(t, KindAuth, KindOf(Authf("not yours")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestInternal_WrapChain(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("stripe get balance", cause)

	assert.Equal(t, "stripe get balance: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))

	// The kind survives further wrapping on the way up the call stack.
	wrapped := fmt.Errorf("fetch provider balance: %w", err)
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestKindOf_WrappedValidation(t *testing.T) {
	err := fmt.Errorf("create order: %w", Validationf("order total must be positive"))

	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
