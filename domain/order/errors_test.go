package order

import (
	"errors"
	"testing"

	"ordercore/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderError_UnwrapsToSentinel(t *testing.T) {
	err := errCartEmpty()
	assert.True(t, errors.Is(err, ErrCartEmpty))
	assert.False(t, errors.Is(err, ErrNotReady))
}

func TestOrderError_CapturesNonEmptyStack(t *testing.T) {
	err := errInvalidState(1, "AddCart", "WithAddress")

	var stacker shared.Stacker
	require.True(t, errors.As(err, &stacker))
	assert.NotEmpty(t, stacker.Stack())
}

func TestOrderError_MessageNamesCommandAndState(t *testing.T) {
	err := errInvalidState(1, "AddCart", "WithAddress")
	assert.Contains(t, err.Error(), "AddCart")
	assert.Contains(t, err.Error(), "WithAddress")
}
