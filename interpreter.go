package evalcore

import "fmt"

// Evaluate computes tree's value over every row in r, reading Variable
// columns from ds and writing one result per row into out. out must
// have exactly r.Size() elements.
//
// parameters supplies the values for leaves with Optimize set, consumed
// in tree (postorder) order: the first Optimize leaf encountered takes
// parameters[0], the second takes parameters[1], and so on. Its length
// must equal [Tree.OptimizeCount]. Leaves without Optimize use their
// stored Value.
//
// Evaluate does not call [Tree.Validate]; callers are expected to
// validate once after construction, not on every call.
func Evaluate[T floatConstraint](tree *Tree, ds Dataset, table *DispatchTable[T], r Range, parameters []T, out []T, opts ...Option) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Size() != len(out) {
		return fmt.Errorf("%w: range has %d rows, out has %d", ErrOutputSizeMismatch, r.Size(), len(out))
	}

	cfg := resolveConfig(opts)
	meta, err := prepareMeta(tree, ds, r, parameters)
	if err != nil {
		return err
	}

	nodes := tree.Nodes
	work := table.buffers.get(len(nodes), cfg.batchSize)
	defer table.buffers.put(work)

	root := tree.Root()
	for blockStart := 0; blockStart < r.Size(); blockStart += cfg.batchSize {
		n := cfg.batchSize
		if blockStart+n > r.Size() {
			n = r.Size() - blockStart
		}

		if err := evalBlock(table, nodes, meta, work, blockStart, n); err != nil {
			return err
		}

		copy(out[blockStart:blockStart+n], work[root][:n])
	}

	return nil
}

// leafMeta holds the once-per-call resolution of a leaf's source: a
// dataset column for Variable, nothing for Constant/Dynamic.
type leafMeta struct {
	column []float64 // non-nil for a resolved Variable
}

// evalMeta is the once-per-call setup: variable column resolution and
// optimize-parameter assignment, computed once and reused across every
// row block.
type evalMeta struct {
	leaves []leafMeta // indexed by node index; zero value for non-leaves
	weight []float64  // effective scalar for every leaf (Value or a supplied parameter)
}

func prepareMeta[T floatConstraint](tree *Tree, ds Dataset, r Range, parameters []T) (evalMeta, error) {
	nodes := tree.Nodes
	m := evalMeta{
		leaves: make([]leafMeta, len(nodes)),
		weight: make([]float64, len(nodes)),
	}

	paramIdx := 0
	for i, nd := range nodes {
		if !nd.Kind.IsLeaf() {
			continue
		}

		weight := nd.Value
		if nd.Optimize {
			if paramIdx >= len(parameters) {
				return evalMeta{}, fmt.Errorf("%w: need at least %d, got %d", ErrParameterCount, paramIdx+1, len(parameters))
			}
			weight = float64(parameters[paramIdx])
			paramIdx++
		}
		m.weight[i] = weight

		if nd.Kind == Variable {
			col, ok := ds.Column(nd.Hash, r)
			if !ok {
				return evalMeta{}, fmt.Errorf("%w: hash %#x", ErrUnknownVariable, nd.Hash)
			}
			m.leaves[i] = leafMeta{column: col}
		}
	}

	if paramIdx != len(parameters) {
		return evalMeta{}, fmt.Errorf("%w: tree marks %d optimize leaves, got %d parameters", ErrParameterCount, paramIdx, len(parameters))
	}

	return m, nil
}

// evalBlock fills work[i][:n] for every node i over the row block
// [blockStart, blockStart+n), in tree (postorder) order so every node's
// children are already populated when its kernel runs.
func evalBlock[T floatConstraint](table *DispatchTable[T], nodes []Node, meta evalMeta, work [][]T, blockStart, n int) error {
	for i, nd := range nodes {
		switch nd.Kind {
		case Constant:
			v := T(meta.weight[i])
			dst := work[i]
			for r := 0; r < n; r++ {
				dst[r] = v
			}
		case Variable:
			col := meta.leaves[i].column[blockStart : blockStart+n]
			w := T(meta.weight[i])
			dst := work[i]
			for r := 0; r < n; r++ {
				dst[r] = T(col[r]) * w
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

// EvaluateTiled is sugar over repeated [Evaluate] calls, one per
// contiguous sub-range of size tileSize (tileSize <= 0 uses
// [DefaultBatchSize]). It exists for callers that want to interleave
// I/O, back-pressure or cancellation checks between tiles; the result
// is numerically identical to a single Evaluate(tree, ds, table, r,
// parameters, out, opts...) call over the whole range, since each tile
// runs its own full row-block loop independently: no tile's result
// depends on another's.
func EvaluateTiled[T floatConstraint](tree *Tree, ds Dataset, table *DispatchTable[T], r Range, tileSize int, parameters []T, out []T, opts ...Option) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.Size() != len(out) {
		return fmt.Errorf("%w: range has %d rows, out has %d", ErrOutputSizeMismatch, r.Size(), len(out))
	}
	if tileSize <= 0 {
		tileSize = DefaultBatchSize
	}

	for start := 0; start < r.Size(); start += tileSize {
		n := tileSize
		if start+n > r.Size() {
			n = r.Size() - start
		}
		tile := Range{Start: r.Start + start, End: r.Start + start + n}
		if err := Evaluate(tree, ds, table, tile, parameters, out[start:start+n], opts...); err != nil {
			return err
		}
	}
	return nil
}
