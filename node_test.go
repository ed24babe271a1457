package evalcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildMulTree constructs (x + 2) * sin(y) by hand, in postorder:
//
//	0: x         (Variable)
//	1: 2         (Constant)
//	2: x + 2     (Add,  arity 2, length 2)
//	3: y         (Variable)
//	4: sin(y)    (Sin,  arity 1, length 1)
//	5: (x+2)*sin(y) (Mul, arity 2, length 5)  <- root
func buildMulTree() *Tree {
	return &Tree{Nodes: []Node{
		{Kind: Variable, Hash: VariableHash("x"), Value: 1},
		{Kind: Constant, Value: 2},
		{Kind: Add, Arity: 2, Length: 2},
		{Kind: Variable, Hash: VariableHash("y"), Value: 1},
		{Kind: Sin, Arity: 1, Length: 1},
		{Kind: Mul, Arity: 2, Length: 5},
	}}
}

func TestTreeRootAndLen(t *testing.T) {
	tree := buildMulTree()
	require.Equal(t, 6, tree.Len())
	require.Equal(t, 5, tree.Root())
}

func TestTreeChildren(t *testing.T) {
	tree := buildMulTree()

	require.Equal(t, []int{2, 4}, tree.Children(5))
	require.Equal(t, []int{0, 1}, tree.Children(2))
	require.Equal(t, []int{3}, tree.Children(4))
	require.Nil(t, tree.Children(0))
}

func TestTreeSubtreeRange(t *testing.T) {
	tree := buildMulTree()

	start, end := tree.SubtreeRange(2)
	require.Equal(t, 0, start)
	require.Equal(t, 3, end)

	start, end = tree.SubtreeRange(5)
	require.Equal(t, 0, start)
	require.Equal(t, 6, end)
}

func TestTreeValidateAccepts(t *testing.T) {
	require.NoError(t, buildMulTree().Validate())
}

func TestTreeValidateRejectsEmpty(t *testing.T) {
	tree := &Tree{}
	require.ErrorIs(t, tree.Validate(), ErrEmptyTree)
}

func TestTreeValidateRejectsBadLength(t *testing.T) {
	tree := buildMulTree()
	tree.Nodes[2].Length = 99
	err := tree.Validate()
	require.ErrorIs(t, err, ErrMalformedTree)
}

func TestTreeValidateRejectsWrongArity(t *testing.T) {
	tree := buildMulTree()
	tree.Nodes[4].Arity = 2 // Sin is unary
	require.ErrorIs(t, tree.Validate(), ErrMalformedTree)
}

func TestTreeValidateRejectsOptimizeOnInner(t *testing.T) {
	tree := buildMulTree()
	tree.Nodes[5].Optimize = true
	err := tree.Validate()
	require.True(t, errors.Is(err, ErrOptimizeOnInner))
}

func TestTreeOptimizeCount(t *testing.T) {
	tree := buildMulTree()
	require.Equal(t, 0, tree.OptimizeCount())

	tree.Nodes[1].Optimize = true
	require.Equal(t, 1, tree.OptimizeCount())
}
