// Package evalcore is the expression-tree evaluation core of a
// symbolic-regression / genetic-programming framework.
//
// A [Tree] is a linearized postorder array of [Node] values produced by
// some external tree-construction layer (not part of this package). The
// core's job is to evaluate that tree, fast, across many rows of a
// [Dataset], in two modes:
//
//   - primal evaluation ([Evaluate]), which produces the tree's numeric
//     output for each row in a [Range], optionally substituting a
//     caller-supplied parameter vector for the tree's learnable constants.
//   - forward-mode automatic differentiation ([Jacobian]), which produces
//     the Jacobian of the tree output with respect to its learnable
//     parameters using a chunked dual-number sweep over the same primal
//     engine.
//
// [EvaluateMany] fans a batch of independent trees out over a
// work-stealing pool, each tree writing into its own row of a shared
// output matrix.
//
// The tree is never walked with pointers. It is stored postorder so that
// a node's children are reachable by a constant-time sibling-stride
// recurrence (see [Tree.Children]), which lets the interpreter sweep the
// array once per row block and lets kernels in [DispatchTable] read
// contiguous sibling columns.
package evalcore
