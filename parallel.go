package evalcore

import (
	"fmt"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

// EvaluateMany runs [Evaluate] for every tree in trees against the same
// dataset and range, distributing the work across a bounded pool of
// worker goroutines. len(trees), len(parameters) and
// len(outs) must all agree; parameters may be nil if no tree marks any
// leaf Optimize.
//
// Workers are drawn from a work-stealing [ants.Pool] sized by
// [WithThreads] (0, the default, uses GOMAXPROCS). There is no
// cancellation: every tree runs to completion even if an earlier one
// fails, and EvaluateMany returns the first per-tree error that
// [errgroup.Group] reports; errors from other trees are not returned.
func EvaluateMany(trees []*Tree, ds Dataset, table *DispatchTable[float64], r Range, parameters [][]float64, outs [][]float64, opts ...Option) error {
	if len(trees) != len(outs) {
		return fmt.Errorf("evalcore: %d trees but %d output slices", len(trees), len(outs))
	}
	if parameters != nil && len(parameters) != len(trees) {
		return fmt.Errorf("evalcore: %d trees but %d parameter vectors", len(trees), len(parameters))
	}

	cfg := resolveConfig(opts)
	size := cfg.threads
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return fmt.Errorf("evalcore: create worker pool: %w", err)
	}
	defer pool.Release()

	var g errgroup.Group
	for i := range trees {
		i := i
		done := make(chan error, 1)

		var params []float64
		if parameters != nil {
			params = parameters[i]
		}

		submitErr := pool.Submit(func() {
			done <- Evaluate(trees[i], ds, table, r, params, outs[i], opts...)
		})
		if submitErr != nil {
			return fmt.Errorf("evalcore: submit tree %d to worker pool: %w", i, submitErr)
		}

		g.Go(func() error {
			if err := <-done; err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			return nil
		})
	}

	return g.Wait()
}
