package evalcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func newDualTable() *DispatchTable[Dual] {
	d := NewDispatchTable[Dual]()
	RegisterDualKernels(d)
	return d
}

// linearTree builds a*x + b, with a and b marked Optimize.
func linearTree() *Tree {
	return &Tree{Nodes: []Node{
		{Kind: Constant, Value: 0, Optimize: true}, // a
		{Kind: Variable, Hash: VariableHash("x"), Value: 1},
		{Kind: Mul, Arity: 2, Length: 2},
		{Kind: Constant, Value: 0, Optimize: true}, // b
		{Kind: Add, Arity: 2, Length: 4},
	}}
}

func TestJacobianLinearModel(t *testing.T) {
	tree := linearTree()
	require.NoError(t, tree.Validate())
	require.Equal(t, 2, tree.OptimizeCount())

	xs := []float64{-2, 0, 1, 3.5}
	ds := NewColumnStore(len(xs))
	require.NoError(t, ds.AddColumn("x", xs))

	params := []float64{2.5, -1.0} // a, b
	jac := make([]float64, len(xs)*2)
	primal := make([]float64, len(xs))

	r := Range{0, len(xs)}
	require.NoError(t, Jacobian(tree, ds, newDualTable(), r, params, jac, primal))

	for i, x := range xs {
		require.InDelta(t, params[0]*x+params[1], primal[i], 1e-9)
		require.InDelta(t, x, jac[i*2+0], 1e-9)   // df/da = x
		require.InDelta(t, 1, jac[i*2+1], 1e-9) // df/db = 1
	}
}

// TestJacobianMatchesFiniteDifference builds sin(a*x) + a2/b and checks
// the dual-number Jacobian against a finite-difference gradient per row.
func TestJacobianMatchesFiniteDifference(t *testing.T) {
	// sin(a*x) + a/b
	nodes := []Node{
		{Kind: Constant, Value: 0, Optimize: true}, // 0: a
		{Kind: Variable, Hash: VariableHash("x"), Value: 1},
		{Kind: Mul, Arity: 2, Length: 2}, // 2: a*x
		{Kind: Sin, Arity: 1, Length: 3}, // 3: sin(a*x)
	}
	nodes = append(nodes,
		Node{Kind: Constant, Value: 0, Optimize: true}, // 4: a2 (independent copy)
		Node{Kind: Constant, Value: 0, Optimize: true}, // 5: b
		Node{Kind: Div, Arity: 2, Length: 2}, // 6: a2/b
		Node{Kind: Add, Arity: 2, Length: 7}, // 7: sin(a*x) + a2/b
	)
	tree := &Tree{Nodes: nodes}
	require.NoError(t, tree.Validate())
	require.Equal(t, 3, tree.OptimizeCount())

	xs := []float64{0.3, -1.2, 2.0}
	ds := NewColumnStore(len(xs))
	require.NoError(t, ds.AddColumn("x", xs))

	params := []float64{1.7, 2.2, 0.9} // a, a2, b
	jac := make([]float64, len(xs)*3)
	r := Range{0, len(xs)}
	require.NoError(t, Jacobian(tree, ds, newDualTable(), r, params, jac, nil))

	for i, x := range xs {
		f := func(p []float64) float64 {
			a, a2, b := p[0], p[1], p[2]
			return math.Sin(a*x) + a2/b
		}
		grad := fd.Gradient(nil, f, params, &fd.Settings{Step: 1e-6})
		for j := 0; j < 3; j++ {
			require.InDeltaf(t, grad[j], jac[i*3+j], 1e-4, "row %d param %d", i, j)
		}
	}
}

func TestJacobianRejectsParameterCountMismatch(t *testing.T) {
	tree := linearTree()
	ds := NewColumnStore(1)
	require.NoError(t, ds.AddColumn("x", []float64{1}))

	err := Jacobian(tree, ds, newDualTable(), Range{0, 1}, []float64{1}, make([]float64, 1), nil)
	require.ErrorIs(t, err, ErrParameterCount)
}

func TestJacobianNoOptimizeLeavesStillComputesPrimal(t *testing.T) {
	tree := &Tree{Nodes: []Node{{Kind: Constant, Value: 42}}}
	ds := NewColumnStore(2)
	primal := make([]float64, 2)

	require.NoError(t, Jacobian(tree, ds, newDualTable(), Range{0, 2}, nil, nil, primal))
	require.Equal(t, []float64{42, 42}, primal)
}
