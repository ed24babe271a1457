package main

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/exprforge/evalcore"
	"github.com/exprforge/evalcore/internal/golden"
)

func main() {
	prng := rand.New(rand.NewPCG(42, 42))
	log.SetFlags(log.Lmicroseconds)

	const rows = 100_000
	variables := []string{"x", "y", "z"}

	ds := evalcore.NewColumnStore(rows)
	for _, name := range variables {
		col := make([]float64, rows)
		for i := range col {
			col[i] = prng.Float64()*2 - 1
		}
		if err := ds.AddColumn(name, col); err != nil {
			log.Fatalf("add column %s: %v", name, err)
		}
	}

	tree := golden.RandomTree(prng, 6, variables)
	if err := tree.Validate(); err != nil {
		log.Fatalf("generated tree failed validation: %v", err)
	}
	log.Printf("random tree: %d nodes, %d optimize leaves", tree.Len(), tree.OptimizeCount())

	floatTable := evalcore.NewDispatchTable[float64]()
	evalcore.RegisterFloatKernels(floatTable)

	out := make([]float64, rows)
	r := evalcore.Range{Start: 0, End: rows}
	params := golden.InitialParameters(tree)

	ts := time.Now()
	if err := evalcore.Evaluate(tree, ds, floatTable, r, params, out); err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	log.Printf("Evaluate: %v for %d rows", time.Since(ts), rows)

	trees := make([]*evalcore.Tree, 8)
	treeParams := make([][]float64, 8)
	outs := make([][]float64, 8)
	for i := range trees {
		trees[i] = golden.RandomTree(prng, 6, variables)
		treeParams[i] = golden.InitialParameters(trees[i])
		outs[i] = make([]float64, rows)
	}

	ts = time.Now()
	if err := evalcore.EvaluateMany(trees, ds, floatTable, r, treeParams, outs); err != nil {
		log.Fatalf("evaluate many: %v", err)
	}
	log.Printf("EvaluateMany: %v for %d trees x %d rows", time.Since(ts), len(trees), rows)

	if n := tree.OptimizeCount(); n > 0 {
		dualTable := evalcore.NewDispatchTable[evalcore.Dual]()
		evalcore.RegisterDualKernels(dualTable)

		jac := make([]float64, rows*n)

		ts = time.Now()
		if err := evalcore.Jacobian(tree, ds, dualTable, r, params, jac, nil); err != nil {
			log.Fatalf("jacobian: %v", err)
		}
		log.Printf("Jacobian: %v for %d rows x %d parameters", time.Since(ts), rows, n)
	}
}
