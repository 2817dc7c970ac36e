package Invariants

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaise(t *testing.T) {
	violations.Reset()
	cause := errors.New("node 3 has a red child")
	defer func() {
		r := recover()
		require.NotNil(t, r)
		v, ok := r.(*Violation)
		require.True(t, ok)
		assert.Equal(t, "rb", v.Module)
		assert.Equal(t, "color", v.Type)
		assert.ErrorIs(t, v, cause)
		assert.Equal(t, 1, Count("rb", "color"))
		assert.Equal(t, 0, Count("avl", "color"))
	}()
	Raise("rb", "color", cause, "size", 3)
}
