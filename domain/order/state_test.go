package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateName(t *testing.T) {
	assert.Equal(t, "Empty", stateName(EmptyState{}))
	assert.Equal(t, "WithCart", stateName(WithCartState{}))
	assert.Equal(t, "WithAddress", stateName(WithAddressState{}))
	assert.Equal(t, "Completed", stateName(CompletedState{}))
}
