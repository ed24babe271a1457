package evalcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateManyMatchesSequentialEvaluate(t *testing.T) {
	rows := 500
	col := make([]float64, rows)
	for i := range col {
		col[i] = float64(i) * 0.01
	}
	ds := NewColumnStore(rows)
	require.NoError(t, ds.AddColumn("x", col))

	table := newFloatTable()
	r := Range{0, rows}

	trees := []*Tree{
		{Nodes: []Node{{Kind: Variable, Hash: VariableHash("x"), Value: 2}}},
		{Nodes: []Node{
			{Kind: Variable, Hash: VariableHash("x"), Value: 1},
			{Kind: Sin, Arity: 1, Length: 1},
		}},
		{Nodes: []Node{{Kind: Constant, Value: -3}}},
		{Nodes: []Node{
			{Kind: Variable, Hash: VariableHash("x"), Value: 1},
			{Kind: Square, Arity: 1, Length: 1},
		}},
	}

	want := make([][]float64, len(trees))
	for i, tree := range trees {
		want[i] = make([]float64, rows)
		require.NoError(t, Evaluate(tree, ds, table, r, nil, want[i]))
	}

	got := make([][]float64, len(trees))
	for i := range got {
		got[i] = make([]float64, rows)
	}
	require.NoError(t, EvaluateMany(trees, ds, table, r, nil, got, WithThreads(2)))

	for i := range trees {
		require.Equal(t, want[i], got[i])
	}
}

func TestEvaluateManyRejectsMismatchedLengths(t *testing.T) {
	trees := []*Tree{{Nodes: []Node{{Kind: Constant, Value: 1}}}}
	ds := constDS(1)
	err := EvaluateMany(trees, ds, newFloatTable(), Range{0, 1}, nil, nil)
	require.Error(t, err)
}

func TestEvaluateManyCollectsPerTreeErrors(t *testing.T) {
	trees := []*Tree{
		{Nodes: []Node{{Kind: Constant, Value: 1}}},
		{Nodes: []Node{{Kind: Variable, Hash: VariableHash("missing"), Value: 1}}},
	}
	ds := constDS(1)
	outs := [][]float64{make([]float64, 1), make([]float64, 1)}

	err := EvaluateMany(trees, ds, newFloatTable(), Range{0, 1}, nil, outs)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownVariable)
}
