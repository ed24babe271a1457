package golden

import (
	"fmt"
	"math"

	"github.com/exprforge/evalcore"
)

// NaiveEval is a slow, purely recursive reference evaluator for
// [evalcore.Tree], used as a golden oracle in property tests that
// cross-check [evalcore.Evaluate]'s batched, dispatch-table-driven
// result. It walks the tree node by node with Go's own math package
// instead of going through a [evalcore.DispatchTable], so a bug shared
// between the two would have to be a bug in the tree itself.
func NaiveEval(tree *evalcore.Tree, ds evalcore.Dataset, r evalcore.Range, parameters []float64) ([]float64, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	weights, cols, err := resolveLeaves(tree, ds, r, parameters)
	if err != nil {
		return nil, err
	}

	out := make([]float64, r.Size())
	for row := 0; row < r.Size(); row++ {
		v, err := evalNode(tree, tree.Root(), row, weights, cols)
		if err != nil {
			return nil, err
		}
		out[row] = v
	}
	return out, nil
}

func resolveLeaves(tree *evalcore.Tree, ds evalcore.Dataset, r evalcore.Range, parameters []float64) ([]float64, [][]float64, error) {
	nodes := tree.Nodes
	weights := make([]float64, len(nodes))
	cols := make([][]float64, len(nodes))

	paramIdx := 0
	for i, nd := range nodes {
		if !nd.Kind.IsLeaf() {
			continue
		}

		w := nd.Value
		if nd.Optimize {
			if paramIdx >= len(parameters) {
				return nil, nil, fmt.Errorf("golden: tree needs more than %d parameters", len(parameters))
			}
			w = parameters[paramIdx]
			paramIdx++
		}
		weights[i] = w

		if nd.Kind == evalcore.Variable {
			col, ok := ds.Column(nd.Hash, r)
			if !ok {
				return nil, nil, fmt.Errorf("golden: unknown variable hash %#x", nd.Hash)
			}
			cols[i] = col
		}
	}
	return weights, cols, nil
}

func evalNode(tree *evalcore.Tree, i, row int, weights []float64, cols [][]float64) (float64, error) {
	nd := tree.Nodes[i]

	switch nd.Kind {
	case evalcore.Constant:
		return weights[i], nil
	case evalcore.Variable:
		return cols[i][row] * weights[i], nil
	}

	children := tree.Children(i)
	vals := make([]float64, len(children))
	for k, c := range children {
		v, err := evalNode(tree, c, row, weights, cols)
		if err != nil {
			return 0, err
		}
		vals[k] = v
	}

	switch nd.Kind {
	case evalcore.Add:
		sum := vals[0]
		for _, v := range vals[1:] {
			sum += v
		}
		return sum, nil
	case evalcore.Sub:
		if len(vals) == 1 {
			return -vals[0], nil
		}
		rest := vals[1]
		for _, v := range vals[2:] {
			rest += v
		}
		return vals[0] - rest, nil
	case evalcore.Mul:
		prod := vals[0]
		for _, v := range vals[1:] {
			prod *= v
		}
		return prod, nil
	case evalcore.Div:
		if len(vals) == 1 {
			return 1 / vals[0], nil
		}
		rest := vals[1]
		for _, v := range vals[2:] {
			rest *= v
		}
		return vals[0] / rest, nil
	case evalcore.Aq:
		return vals[0] / math.Sqrt(1+vals[1]*vals[1]), nil
	case evalcore.Fmax:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case evalcore.Fmin:
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case evalcore.Pow:
		return math.Pow(vals[0], vals[1]), nil
	case evalcore.Abs:
		return math.Abs(vals[0]), nil
	case evalcore.Acos:
		return math.Acos(vals[0]), nil
	case evalcore.Asin:
		return math.Asin(vals[0]), nil
	case evalcore.Atan:
		return math.Atan(vals[0]), nil
	case evalcore.Cbrt:
		return math.Cbrt(vals[0]), nil
	case evalcore.Ceil:
		return math.Ceil(vals[0]), nil
	case evalcore.Cos:
		return math.Cos(vals[0]), nil
	case evalcore.Cosh:
		return math.Cosh(vals[0]), nil
	case evalcore.Exp:
		return math.Exp(vals[0]), nil
	case evalcore.Floor:
		return math.Floor(vals[0]), nil
	case evalcore.Log:
		return math.Log(vals[0]), nil
	case evalcore.Logabs:
		return math.Log(math.Abs(vals[0])), nil
	case evalcore.Log1p:
		return math.Log1p(vals[0]), nil
	case evalcore.Sin:
		return math.Sin(vals[0]), nil
	case evalcore.Sinh:
		return math.Sinh(vals[0]), nil
	case evalcore.Sqrt:
		return math.Sqrt(vals[0]), nil
	case evalcore.Sqrtabs:
		return math.Sqrt(math.Abs(vals[0])), nil
	case evalcore.Tan:
		return math.Tan(vals[0]), nil
	case evalcore.Tanh:
		return math.Tanh(vals[0]), nil
	case evalcore.Square:
		return vals[0] * vals[0], nil
	}

	return 0, fmt.Errorf("golden: node %d has unsupported kind %s", i, nd.Kind)
}
