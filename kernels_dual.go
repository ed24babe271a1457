package evalcore

import "math"

// RegisterDualKernels populates d with the dual-number lift of every
// built-in kernel in kernels_float.go: each primal kernel
// gets a term-by-term derivative via the chain, product and quotient
// rules in dual.go. The dispatch and the left-to-right fold order match
// [RegisterFloatKernels], but the dual folds combine one child per step
// rather than five at a time — the generic float kernels can't be reused
// directly since Dual has no +, -, *, / operators for Go's generic
// float constraint to dispatch on.
func RegisterDualKernels(d *DispatchTable[Dual]) {
	registerUnaryDual(d)
	registerBinaryDual(d)
	registerVariadicDual(d)
}

func registerUnaryDual(d *DispatchTable[Dual]) {
	type pair struct{ f, fprime func(float64) float64 }
	unary := map[Kind]pair{
		Abs:  {math.Abs, func(x float64) float64 { return math.Copysign(1, x) }},
		Acos: {math.Acos, func(x float64) float64 { return -1 / math.Sqrt(1-x*x) }},
		Asin: {math.Asin, func(x float64) float64 { return 1 / math.Sqrt(1-x*x) }},
		Atan: {math.Atan, func(x float64) float64 { return 1 / (1 + x*x) }},
		Cbrt: {math.Cbrt, func(x float64) float64 { return 1 / (3 * math.Pow(math.Cbrt(x), 2)) }},
		Ceil: {math.Ceil, func(x float64) float64 { return 0 }},
		Cos:  {math.Cos, func(x float64) float64 { return -math.Sin(x) }},
		Cosh: {math.Cosh, func(x float64) float64 { return math.Sinh(x) }},
		Exp:  {math.Exp, math.Exp},
		Floor: {math.Floor, func(x float64) float64 { return 0 }},
		Log:   {math.Log, func(x float64) float64 { return 1 / x }},
		Logabs: {
			func(x float64) float64 { return math.Log(math.Abs(x)) },
			func(x float64) float64 { return 1 / x },
		},
		Log1p: {math.Log1p, func(x float64) float64 { return 1 / (1 + x) }},
		Sin:   {math.Sin, math.Cos},
		Sinh:  {math.Sinh, math.Cosh},
		Sqrt:  {math.Sqrt, func(x float64) float64 { return 0.5 / math.Sqrt(x) }},
		Sqrtabs: {
			func(x float64) float64 { return math.Sqrt(math.Abs(x)) },
			func(x float64) float64 { return 0.5 * math.Copysign(1, x) / math.Sqrt(math.Abs(x)) },
		},
		Tan:  {math.Tan, func(x float64) float64 { c := math.Cos(x); return 1 / (c * c) }},
		Tanh: {math.Tanh, func(x float64) float64 { t := math.Tanh(x); return 1 - t*t }},
		Square: {
			func(x float64) float64 { return x * x },
			func(x float64) float64 { return 2 * x },
		},
	}

	for kind, p := range unary {
		p := p
		d.kernels.InsertAt(kind.index(), func(work [][]Dual, nodes []Node, parent, n int) {
			child := work[parent-1]
			dst := work[parent]
			for i := 0; i < n; i++ {
				dst[i] = dualChain(child[i], p.f, p.fprime)
			}
		})
	}
}

func registerBinaryDual(d *DispatchTable[Dual]) {
	d.kernels.InsertAt(Aq.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		b := work[parent-1]
		aIdx := parent - 1 - (nodes[parent-1].Length + 1)
		a := work[aIdx]
		dst := work[parent]
		for i := 0; i < n; i++ {
			denom := dualChain(b[i], func(x float64) float64 { return math.Sqrt(1 + x*x) },
				func(x float64) float64 { return x / math.Sqrt(1+x*x) })
			dst[i] = dualDiv(a[i], denom)
		}
	})

	d.kernels.InsertAt(Pow.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		b := work[parent-1]
		aIdx := parent - 1 - (nodes[parent-1].Length + 1)
		a := work[aIdx]
		dst := work[parent]
		for i := 0; i < n; i++ {
			dst[i] = dualPow(a[i], b[i])
		}
	})
}

func registerVariadicDual(d *DispatchTable[Dual]) {
	d.kernels.InsertAt(Add.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldCommutativeDual(work, nodes, parent, n, dualAdd)
	})
	d.kernels.InsertAt(Mul.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldCommutativeDual(work, nodes, parent, n, dualMul)
	})
	d.kernels.InsertAt(Fmax.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldCommutativeDual(work, nodes, parent, n, dualFmax)
	})
	d.kernels.InsertAt(Fmin.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldCommutativeDual(work, nodes, parent, n, dualFmin)
	})
	d.kernels.InsertAt(Sub.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldFirstAndRestDual(work, nodes, parent, n, dualNeg, dualSub, dualAdd)
	})
	d.kernels.InsertAt(Div.index(), func(work [][]Dual, nodes []Node, parent, n int) {
		foldFirstAndRestDual(work, nodes, parent, n, dualInv, dualDiv, dualMul)
	})
}

// dualFmax/dualFmin pick whichever operand's real part wins and carry
// that operand's derivative through unchanged, matching fmax/fmin's
// subgradient at the winning branch. Ties favor a.
func dualFmax(a, b Dual) Dual {
	if b.Real > a.Real {
		return b
	}
	return a
}

func dualFmin(a, b Dual) Dual {
	if b.Real < a.Real {
		return b
	}
	return a
}

func foldCommutativeDual(work [][]Dual, nodes []Node, parent, n int, op func(a, b Dual) Dual) {
	var scratch [16]int
	children := childIndices(nodes, parent, scratch[:0])
	dst := work[parent]

	for r := 0; r < n; r++ {
		acc := work[children[0]][r]
		for _, c := range children[1:] {
			acc = op(acc, work[c][r])
		}
		dst[r] = acc
	}
}

func foldFirstAndRestDual(work [][]Dual, nodes []Node, parent, n int, unaryEdge func(Dual) Dual, op func(a, rest Dual) Dual, combine func(a, b Dual) Dual) {
	var scratch [16]int
	children := childIndices(nodes, parent, scratch[:0])
	dst := work[parent]

	if len(children) == 1 {
		a := work[children[0]]
		for r := 0; r < n; r++ {
			dst[r] = unaryEdge(a[r])
		}
		return
	}

	rest := children[1:]
	for r := 0; r < n; r++ {
		acc := work[rest[0]][r]
		for _, c := range rest[1:] {
			acc = combine(acc, work[c][r])
		}
		dst[r] = op(work[children[0]][r], acc)
	}
}
