package golden

import (
	"math/rand/v2"

	"github.com/exprforge/evalcore"
)

// weighted kind pools used by RandomTree. Dynamic is deliberately
// excluded: it has no kernel until a caller registers one, so
// evaluating a randomly generated tree containing it would fail with
// evalcore.ErrMissingKernel.
var (
	leafKinds = []evalcore.Kind{evalcore.Constant, evalcore.Variable}

	unaryKinds = []evalcore.Kind{
		evalcore.Abs, evalcore.Acos, evalcore.Asin, evalcore.Atan,
		evalcore.Cbrt, evalcore.Ceil, evalcore.Cos, evalcore.Cosh,
		evalcore.Exp, evalcore.Floor, evalcore.Log, evalcore.Logabs,
		evalcore.Log1p, evalcore.Sin, evalcore.Sinh, evalcore.Sqrt,
		evalcore.Sqrtabs, evalcore.Tan, evalcore.Tanh, evalcore.Square,
	}

	binaryOnlyKinds = []evalcore.Kind{evalcore.Aq, evalcore.Pow}

	foldableKinds = []evalcore.Kind{
		evalcore.Add, evalcore.Sub, evalcore.Mul, evalcore.Div,
		evalcore.Fmax, evalcore.Fmin,
	}
)

// RandomTree builds a structurally valid, randomly shaped expression
// tree over variables, for use as property-test input. maxDepth bounds
// how many operator levels a root-to-leaf path may cross; every path
// bottoms out in a Constant or Variable leaf once depth reaches zero.
//
// Unary, strictly-binary and foldable (variadic) kinds are all eligible
// at every internal level, so the generated trees exercise the full
// shape of the expression grammar, not just binary trees.
func RandomTree(prng *rand.Rand, maxDepth int, variables []string) *evalcore.Tree {
	var nodes []evalcore.Node
	buildRandomNode(prng, &nodes, maxDepth, variables)
	return &evalcore.Tree{Nodes: nodes}
}

func buildRandomNode(prng *rand.Rand, nodes *[]evalcore.Node, depth int, variables []string) {
	if depth <= 0 || prng.IntN(4) == 0 {
		appendRandomLeaf(prng, nodes, variables)
		return
	}

	switch prng.IntN(3) {
	case 0:
		kind := unaryKinds[prng.IntN(len(unaryKinds))]
		buildRandomNode(prng, nodes, depth-1, variables)
		child := (*nodes)[len(*nodes)-1]
		appendOp(nodes, kind, 1, child.Length+1)

	case 1:
		kind := binaryOnlyKinds[prng.IntN(len(binaryOnlyKinds))]
		length := 0
		for i := 0; i < 2; i++ {
			buildRandomNode(prng, nodes, depth-1, variables)
			length += (*nodes)[len(*nodes)-1].Length + 1
		}
		appendOp(nodes, kind, 2, length)

	default:
		kind := foldableKinds[prng.IntN(len(foldableKinds))]
		arity := 2 + prng.IntN(3) // 2..4
		length := 0
		for i := 0; i < arity; i++ {
			buildRandomNode(prng, nodes, depth-1, variables)
			length += (*nodes)[len(*nodes)-1].Length + 1
		}
		appendOp(nodes, kind, arity, length)
	}
}

// appendRandomLeaf appends a Constant or Variable leaf. One in four
// leaves is marked Optimize, so generated trees exercise Jacobian's
// parameter-sweep path as well as Evaluate's plain one.
func appendRandomLeaf(prng *rand.Rand, nodes *[]evalcore.Node, variables []string) {
	optimize := prng.IntN(4) == 0

	if len(variables) == 0 || prng.IntN(2) == 0 {
		*nodes = append(*nodes, evalcore.Node{
			Kind:     evalcore.Constant,
			Value:    prng.Float64()*4 - 2,
			Arity:    0,
			Length:   0,
			Optimize: optimize,
		})
		return
	}

	name := variables[prng.IntN(len(variables))]
	*nodes = append(*nodes, evalcore.Node{
		Kind:     evalcore.Variable,
		Hash:     evalcore.VariableHash(name),
		Value:    prng.Float64()*2 - 1,
		Arity:    0,
		Length:   0,
		Optimize: optimize,
	})
}

// InitialParameters returns the stored Value of each Optimize leaf in
// tree, in postorder: passing this back to [evalcore.Evaluate] or
// [evalcore.Jacobian] reproduces the tree's own values exactly, which
// is what callers want when a random tree is used as-is rather than
// fit to new parameters.
func InitialParameters(tree *evalcore.Tree) []float64 {
	params := make([]float64, 0, tree.OptimizeCount())
	for _, nd := range tree.Nodes {
		if nd.Kind.IsLeaf() && nd.Optimize {
			params = append(params, nd.Value)
		}
	}
	return params
}

func appendOp(nodes *[]evalcore.Node, kind evalcore.Kind, arity, length int) {
	*nodes = append(*nodes, evalcore.Node{
		Kind:   kind,
		Arity:  arity,
		Length: length,
	})
}
