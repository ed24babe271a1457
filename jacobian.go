package evalcore

import "fmt"

// Jacobian computes the partial derivative of tree's output with
// respect to every Optimize-marked leaf, over every row in r, using
// forward-mode dual numbers. jac is filled row-major: the
// derivative of row i with respect to parameter j lands at
// jac[i*numParams+j]. primal, if non-nil, receives the plain function
// value for each row; pass nil to skip computing it.
//
// dualTable supplies the Dual-typed kernels; see [RegisterDualKernels].
// Parameters are swept in chunks of [WithDualChunk] (default
// [DefaultDualChunk]) rather than one at a time: a tree with D optimize
// leaves needs ceil(D/chunk) full evaluation passes instead of D,
// trading per-row derivative bookkeeping for fewer tree walks.
func Jacobian(tree *Tree, ds Dataset, dualTable *DispatchTable[Dual], r Range, parameters []float64, jac []float64, primal []float64, opts ...Option) error {
	if err := r.Validate(); err != nil {
		return err
	}

	numParams := tree.OptimizeCount()
	if len(parameters) != numParams {
		return fmt.Errorf("%w: tree marks %d optimize leaves, got %d parameters", ErrParameterCount, numParams, len(parameters))
	}
	if len(jac) != r.Size()*numParams {
		return fmt.Errorf("%w: jacobian needs %d entries (%d rows x %d params), got %d", ErrOutputSizeMismatch, r.Size()*numParams, r.Size(), numParams, len(jac))
	}
	if primal != nil && len(primal) != r.Size() {
		return fmt.Errorf("%w: primal output needs %d rows, got %d", ErrOutputSizeMismatch, r.Size(), len(primal))
	}

	cfg := resolveConfig(opts)

	if numParams == 0 {
		if primal == nil {
			return nil
		}
		// no derivatives to take, but the caller still wants f(x): run
		// a sweep with no derivative lanes purely for the real part.
		return jacobianSweep(tree, ds, dualTable, r, nil, 0, 0, cfg, jac, primal, numParams)
	}

	for chunkStart := 0; chunkStart < numParams; chunkStart += cfg.dualChunk {
		width := cfg.dualChunk
		if chunkStart+width > numParams {
			width = numParams - chunkStart
		}
		if err := jacobianSweep(tree, ds, dualTable, r, parameters, chunkStart, width, cfg, jac, primal, numParams); err != nil {
			return err
		}
	}
	return nil
}

func jacobianSweep(tree *Tree, ds Dataset, dualTable *DispatchTable[Dual], r Range, parameters []float64, chunkStart, width int, cfg evalConfig, jac, primal []float64, numParams int) error {
	nodes := tree.Nodes

	meta, err := prepareDualMeta(tree, ds, r, parameters, chunkStart, width)
	if err != nil {
		return err
	}

	work := dualTable.buffers.get(len(nodes), cfg.batchSize)
	defer dualTable.buffers.put(work)

	root := tree.Root()
	for blockStart := 0; blockStart < r.Size(); blockStart += cfg.batchSize {
		n := cfg.batchSize
		if blockStart+n > r.Size() {
			n = r.Size() - blockStart
		}

		if err := evalDualBlock(dualTable, nodes, meta, work, blockStart, n); err != nil {
			return err
		}

		for row := 0; row < n; row++ {
			d := work[root][row]
			globalRow := blockStart + row
			if chunkStart == 0 && primal != nil {
				primal[globalRow] = d.Real
			}
			for j := 0; j < width; j++ {
				jac[globalRow*numParams+chunkStart+j] = d.Deriv[j]
			}
		}
	}
	return nil
}

// dualLeafMeta mirrors leafMeta but carries a Dual weight already
// seeded for the current parameter chunk.
type dualLeafMeta struct {
	column []float64
	weight Dual
}

type dualEvalMeta struct {
	leaves []dualLeafMeta
	width  int
}

// prepareDualMeta is prepareMeta's dual counterpart: it resolves
// Variable columns once per call and seeds every Optimize leaf whose
// parameter index falls in [chunkStart, chunkStart+width) with a
// one-hot derivative, so the ensuing row-block loop runs the ordinary
// dual kernels without any further parameter bookkeeping.
func prepareDualMeta(tree *Tree, ds Dataset, r Range, parameters []float64, chunkStart, width int) (dualEvalMeta, error) {
	nodes := tree.Nodes
	m := dualEvalMeta{leaves: make([]dualLeafMeta, len(nodes)), width: width}

	paramIdx := 0
	for i, nd := range nodes {
		if !nd.Kind.IsLeaf() {
			continue
		}

		value := nd.Value
		var weight Dual
		if nd.Optimize {
			value = parameters[paramIdx]
			if paramIdx >= chunkStart && paramIdx < chunkStart+width {
				weight = Seed(value, paramIdx-chunkStart, width)
			} else {
				weight = ConstantDual(value, width)
			}
			paramIdx++
		} else {
			weight = ConstantDual(value, width)
		}
		m.leaves[i].weight = weight

		if nd.Kind == Variable {
			col, ok := ds.Column(nd.Hash, r)
			if !ok {
				return dualEvalMeta{}, fmt.Errorf("%w: hash %#x", ErrUnknownVariable, nd.Hash)
			}
			m.leaves[i].column = col
		}
	}

	return m, nil
}

func evalDualBlock(table *DispatchTable[Dual], nodes []Node, meta dualEvalMeta, work [][]Dual, blockStart, n int) error {
	for i, nd := range nodes {
		switch nd.Kind {
		case Constant:
			v := meta.leaves[i].weight
			dst := work[i]
			for r := 0; r < n; r++ {
				dst[r] = v
			}
		case Variable:
			col := meta.leaves[i].column[blockStart : blockStart+n]
			w := meta.leaves[i].weight
			dst := work[i]
			for r := 0; r < n; r++ {
				dst[r] = dualMul(ConstantDual(col[r], meta.width), w)
			}
		default:
			kernel, ok := table.tryGet(nd.Kind)
			if !ok {
				return fmt.Errorf("%w: kind %s (node %d)", ErrMissingKernel, nd.Kind, i)
			}
			kernel(work, nodes, i, n)
		}
	}
	return nil
}
