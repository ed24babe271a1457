package evalcore

import "math"

// Dual is a forward-mode dual number carrying a real part and a dense
// vector of partial derivatives with respect to a fixed set of D
// parameters. Unlike float32/float64, Dual cannot satisfy
// [floatConstraint] — Go has no operator overloading, so its arithmetic
// is free functions rather than +, -, *, / — which is why the dual
// kernel set in kernels_dual.go is written by hand instead of being
// another instantiation of the generic float kernels.
type Dual struct {
	Real  float64
	Deriv []float64
}

// NewDual returns a dual number with the given real part and a
// zero-valued derivative vector of dimension d.
func NewDual(real float64, d int) Dual {
	return Dual{Real: real, Deriv: make([]float64, d)}
}

// Seed returns a dual number representing parameter index i out of d
// parameters: real part v, and a one-hot derivative vector (d(x_i)/dx_j
// = 1 if i==j else 0). This is how [Jacobian] seeds the parameter being
// swept in each chunk.
func Seed(v float64, i, d int) Dual {
	x := NewDual(v, d)
	x.Deriv[i] = 1
	return x
}

// ConstantDual returns a dual number with zero derivative, dimension d: the
// seed used for every value that isn't a swept parameter.
func ConstantDual(v float64, d int) Dual {
	return NewDual(v, d)
}

func dualAdd(a, b Dual) Dual {
	r := NewDual(a.Real+b.Real, len(a.Deriv))
	for i := range r.Deriv {
		r.Deriv[i] = a.Deriv[i] + b.Deriv[i]
	}
	return r
}

func dualSub(a, b Dual) Dual {
	r := NewDual(a.Real-b.Real, len(a.Deriv))
	for i := range r.Deriv {
		r.Deriv[i] = a.Deriv[i] - b.Deriv[i]
	}
	return r
}

func dualNeg(a Dual) Dual {
	r := NewDual(-a.Real, len(a.Deriv))
	for i := range r.Deriv {
		r.Deriv[i] = -a.Deriv[i]
	}
	return r
}

// dualMul applies the product rule: d(ab) = a'b + ab'.
func dualMul(a, b Dual) Dual {
	r := NewDual(a.Real*b.Real, len(a.Deriv))
	for i := range r.Deriv {
		r.Deriv[i] = a.Deriv[i]*b.Real + a.Real*b.Deriv[i]
	}
	return r
}

// dualDiv applies the quotient rule: d(a/b) = (a'b - ab') / b^2.
func dualDiv(a, b Dual) Dual {
	r := NewDual(a.Real/b.Real, len(a.Deriv))
	b2 := b.Real * b.Real
	for i := range r.Deriv {
		r.Deriv[i] = (a.Deriv[i]*b.Real - a.Real*b.Deriv[i]) / b2
	}
	return r
}

func dualInv(a Dual) Dual {
	r := NewDual(1/a.Real, len(a.Deriv))
	a2 := a.Real * a.Real
	for i := range r.Deriv {
		r.Deriv[i] = -a.Deriv[i] / a2
	}
	return r
}

// dualChain applies the chain rule for a scalar transform f with known
// derivative fprime(x): d(f(a)) = fprime(a.Real) * a'.
func dualChain(a Dual, f, fprime func(float64) float64) Dual {
	r := NewDual(f(a.Real), len(a.Deriv))
	g := fprime(a.Real)
	for i := range r.Deriv {
		r.Deriv[i] = g * a.Deriv[i]
	}
	return r
}

// dualPow applies d(a^b) via the general power rule:
// d(a^b) = a^b * (b' * ln(a) + b * a'/a), specialized to b' == 0 when b
// is a float constant exponent (the common case), where it reduces to
// b * a^(b-1) * a'.
func dualPow(a, b Dual) Dual {
	ab := math.Pow(a.Real, b.Real)
	r := NewDual(ab, len(a.Deriv))
	hasBDeriv := false
	for _, d := range b.Deriv {
		if d != 0 {
			hasBDeriv = true
			break
		}
	}
	for i := range r.Deriv {
		term := b.Real * math.Pow(a.Real, b.Real-1) * a.Deriv[i]
		if hasBDeriv {
			term += ab * math.Log(a.Real) * b.Deriv[i]
		}
		r.Deriv[i] = term
	}
	return r
}
