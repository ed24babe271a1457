package evalcore

import "fmt"

// Node is the per-node record of a linearized expression tree. Nodes are
// stored in a [Tree] in postorder: every node appears after all of its
// descendants, and the tree's root is the last element.
type Node struct {
	Kind Kind

	// Hash is the intrinsic identity of this node: for Variable, the
	// dataset column hash (see [Dataset]); for operators, a value
	// derived from Kind. CalculatedHash is the structural hash of the
	// subtree rooted here, set by a separate hashing pass external to
	// this package; the interpreter never reads it.
	Hash           uint64
	CalculatedHash uint64

	// Value is the constant for a Constant node, the multiplicative
	// weight applied to the column for a Variable node, and unused for
	// operators.
	Value float64

	// Optimize marks Value as a learnable parameter, consumed by
	// [Jacobian] and by the parameters argument of [Evaluate]. Only
	// valid on leaves; [Tree.Validate] rejects it elsewhere.
	Optimize bool

	// Arity is the node's direct child count. Length is the number of
	// nodes in this node's subtree, excluding itself. Both stay well
	// within 16 bits for any realistic tree; kept as int here for
	// arithmetic convenience.
	Arity  int
	Length int

	// Depth, Level and Parent are bookkeeping fields, not read by the
	// interpreter.
	Depth  int
	Level  int
	Parent int

	// Enabled is a diagnostic flag; evaluating a tree with a disabled
	// node is undefined input. Neither [Tree.Validate] nor the
	// interpreter reads it.
	Enabled bool
}

// Tree is an ordered, postorder sequence of [Node]. The root is
// Nodes[len(Nodes)-1].
type Tree struct {
	Nodes []Node
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.Nodes) }

// Root returns the index of the tree's root, which is always the last
// postorder position.
func (t *Tree) Root() int { return len(t.Nodes) - 1 }

// SubtreeRange returns the half-open index range [i-length[i], i+1)
// occupied by the subtree rooted at i, per the prefix-subtree
// invariant.
func (t *Tree) SubtreeRange(i int) (start, end int) {
	n := t.Nodes[i]
	return i - n.Length, i + 1
}

// Children returns the indices of node p's direct children in
// left-to-right (tree visitation) order, using the sibling-stride
// recurrence:
//
//	c0     = p - 1
//	c(k+1) = c(k) - (length[c(k)] + 1)
//
// for k = 0 .. arity[p]-1. The returned slice is in left-to-right
// (postorder visitation) order.
func (t *Tree) Children(p int) []int {
	n := t.Nodes[p]
	if n.Arity == 0 {
		return nil
	}

	out := make([]int, n.Arity)
	// walk right-to-left per the recurrence, then reverse into
	// left-to-right order.
	c := p - 1
	for k := n.Arity - 1; k >= 0; k-- {
		out[k] = c
		c -= t.Nodes[c].Length + 1
	}
	return out
}

// Validate checks the structural invariants the interpreter depends on:
// the tree is non-empty, every node's Length equals the sum of its
// children's (Length+1), every node's Arity is consistent with its Kind,
// and Optimize is never set on a non-leaf. It does not check that every
// Variable's Hash is known to a particular [Dataset]; callers of
// [Evaluate] get that reported as a contract violation at call time
// instead, since the tree itself has no dataset to check against.
//
// This validation is meant to run once at construction, not
// defensively on every evaluation.
func (t *Tree) Validate() error {
	if len(t.Nodes) == 0 {
		return ErrEmptyTree
	}

	for i, n := range t.Nodes {
		if !n.Kind.Valid() {
			return fmt.Errorf("%w: node %d has unknown kind %d", ErrMalformedTree, i, n.Kind)
		}

		if n.Kind.IsLeaf() {
			if n.Arity != 0 {
				return fmt.Errorf("%w: node %d (%s) is a leaf but has arity %d", ErrMalformedTree, i, n.Kind, n.Arity)
			}
		} else if n.Kind.IsUnary() {
			if n.Arity != 1 {
				return fmt.Errorf("%w: node %d (%s) is unary but has arity %d", ErrMalformedTree, i, n.Kind, n.Arity)
			}
		} else if n.Kind.IsFoldable() {
			if n.Arity < n.Kind.MinArity() {
				return fmt.Errorf("%w: node %d (%s) has arity %d, minimum is %d", ErrMalformedTree, i, n.Kind, n.Arity, n.Kind.MinArity())
			}
		} else if n.Arity != 2 {
			return fmt.Errorf("%w: node %d (%s) takes exactly 2 operands, has arity %d", ErrMalformedTree, i, n.Kind, n.Arity)
		}

		if n.Optimize && !n.Kind.IsLeaf() {
			return fmt.Errorf("%w: node %d (%s) sets Optimize but is not a leaf", ErrOptimizeOnInner, i, n.Kind)
		}

		if i-n.Length < 0 {
			return fmt.Errorf("%w: node %d has length %d, overruns the start of the tree", ErrMalformedTree, i, n.Length)
		}

		wantLength := 0
		c := i - 1
		for k := 0; k < n.Arity; k++ {
			if c < 0 || c > i-1 {
				return fmt.Errorf("%w: node %d child index %d out of bounds", ErrMalformedTree, i, c)
			}
			wantLength += t.Nodes[c].Length + 1
			c -= t.Nodes[c].Length + 1
		}
		if wantLength != n.Length {
			return fmt.Errorf("%w: node %d (%s) has length %d, children sum to %d", ErrMalformedTree, i, n.Kind, n.Length, wantLength)
		}
	}

	if t.Nodes[t.Root()].Length != len(t.Nodes)-1 {
		return fmt.Errorf("%w: root length %d does not span the whole tree (n=%d)", ErrMalformedTree, t.Nodes[t.Root()].Length, len(t.Nodes))
	}

	return nil
}

// OptimizeCount returns the number of leaves with Optimize set, i.e. the
// expected length of a parameter vector passed to [Evaluate] or
// [Jacobian].
func (t *Tree) OptimizeCount() int {
	n := 0
	for _, nd := range t.Nodes {
		if nd.Optimize {
			n++
		}
	}
	return n
}
