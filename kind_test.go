package evalcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindClassification(t *testing.T) {
	cases := []struct {
		kind             Kind
		leaf, unary      bool
		foldable, binary bool
		commutative      bool
		minArity         int
	}{
		{Constant, true, false, false, false, false, 0},
		{Variable, true, false, false, false, false, 0},
		{Dynamic, true, false, false, false, false, 0},
		{Add, false, false, true, true, true, 1},
		{Sub, false, false, true, true, false, 1},
		{Mul, false, false, true, true, true, 1},
		{Div, false, false, true, true, false, 1},
		{Fmax, false, false, true, true, true, 1},
		{Fmin, false, false, true, true, true, 1},
		{Aq, false, false, false, true, false, 2},
		{Pow, false, false, false, true, false, 2},
		{Sin, false, true, false, false, false, 1},
		{Square, false, true, false, false, false, 1},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			assert.Equal(t, c.leaf, c.kind.IsLeaf())
			assert.Equal(t, c.unary, c.kind.IsUnary())
			assert.Equal(t, c.foldable, c.kind.IsFoldable())
			assert.Equal(t, c.binary, c.kind.IsVariadic())
			assert.Equal(t, c.commutative, c.kind.IsCommutative())
			assert.Equal(t, c.minArity, c.kind.MinArity())
			assert.True(t, c.kind.Valid())
		})
	}
}

func TestKindInvalid(t *testing.T) {
	var k Kind = numKinds
	assert.False(t, k.Valid())
	assert.Equal(t, "Kind(invalid)", k.String())
}

func TestKindStringCoversEveryMember(t *testing.T) {
	for k := Kind(0); k < numKinds; k++ {
		require.NotEmpty(t, k.String())
		require.NotEqual(t, "Kind(invalid)", k.String())
	}
}
