package evalcore

import "github.com/exprforge/evalcore/internal/bitset"

// Kind is a closed enumeration of expression-tree node kinds. The
// numeric value doubles as the node's stable index: the key used to
// look a kernel up in a [DispatchTable] and the bit position tested in
// the kindSet bitsets below.
type Kind uint8

const (
	// Leaves, arity 0.
	Constant Kind = iota
	Variable
	Dynamic

	// Binary/variadic arithmetic; see Kind.MinArity for accepted arities.
	Add
	Sub
	Mul
	Div
	Aq // analytic quotient: a / sqrt(1 + b*b)
	Fmax
	Fmin
	Pow

	// Unary, arity 1.
	Abs
	Acos
	Asin
	Atan
	Cbrt
	Ceil
	Cos
	Cosh
	Exp
	Floor
	Log
	Logabs
	Log1p
	Sin
	Sinh
	Sqrt
	Sqrtabs
	Tan
	Tanh
	Square

	numKinds
)

//nolint:gochecknoglobals
var kindNames = [numKinds]string{
	Constant: "Constant", Variable: "Variable", Dynamic: "Dynamic",
	Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Aq: "Aq",
	Fmax: "Fmax", Fmin: "Fmin", Pow: "Pow",
	Abs: "Abs", Acos: "Acos", Asin: "Asin", Atan: "Atan", Cbrt: "Cbrt",
	Ceil: "Ceil", Cos: "Cos", Cosh: "Cosh", Exp: "Exp", Floor: "Floor",
	Log: "Log", Logabs: "Logabs", Log1p: "Log1p", Sin: "Sin", Sinh: "Sinh",
	Sqrt: "Sqrt", Sqrtabs: "Sqrtabs", Tan: "Tan", Tanh: "Tanh", Square: "Square",
}

func (k Kind) String() string {
	if k >= numKinds {
		return "Kind(invalid)"
	}
	return kindNames[k]
}

// index is the stable bit-position key into dispatch tables and the
// kindSet bitsets. It is simply the Kind value widened to uint, kept as
// a named conversion so call sites read as "index into the registry",
// not "arithmetic on a Kind".
func (k Kind) index() uint { return uint(k) }

//nolint:gochecknoglobals
var (
	leafSet        bitset.BitSet256
	binarySet      bitset.BitSet256 // binary/variadic arithmetic
	unarySet       bitset.BitSet256
	commutativeSet bitset.BitSet256
	foldableSet    bitset.BitSet256 // binary kinds whose arity may exceed 2
)

func init() {
	for _, k := range []Kind{Constant, Variable, Dynamic} {
		leafSet.MustSet(k.index())
	}
	for _, k := range []Kind{Add, Sub, Mul, Div, Aq, Fmax, Fmin, Pow} {
		binarySet.MustSet(k.index())
	}
	for _, k := range []Kind{
		Abs, Acos, Asin, Atan, Cbrt, Ceil, Cos, Cosh, Exp, Floor,
		Log, Logabs, Log1p, Sin, Sinh, Sqrt, Sqrtabs, Tan, Tanh, Square,
	} {
		unarySet.MustSet(k.index())
	}
	for _, k := range []Kind{Add, Mul, Fmax, Fmin} {
		commutativeSet.MustSet(k.index())
	}
	for _, k := range []Kind{Add, Sub, Mul, Div, Fmax, Fmin} {
		foldableSet.MustSet(k.index())
	}
}

// IsLeaf reports whether k is a leaf kind (arity 0: Constant, Variable,
// Dynamic — Dynamic's kernel is caller-registered, see [DispatchTable]).
func (k Kind) IsLeaf() bool { return leafSet.Test(k.index()) }

// IsUnary reports whether k is one of the fixed-arity-1 transcendental
// or elementwise kinds.
func (k Kind) IsUnary() bool { return unarySet.Test(k.index()) }

// IsVariadic reports whether k is a binary/variadic arithmetic kind
// (Add, Sub, Mul, Div, Aq, Fmax, Fmin, Pow); see [Kind.MinArity] for the
// smallest arity each accepts.
func (k Kind) IsVariadic() bool { return binarySet.Test(k.index()) }

// IsCommutative reports whether k's variadic fold may reorder its
// operands (Add, Mul, Fmax, Fmin). Sub, Div, Aq, Pow fold strictly
// left-to-right.
func (k Kind) IsCommutative() bool { return commutativeSet.Test(k.index()) }

// IsFoldable reports whether k accepts arity beyond 2 via the
// five-at-a-time variadic fold (Add, Sub, Mul, Div, Fmax,
// Fmin). Aq and Pow are in [Kind.IsVariadic]'s broader binary-arithmetic
// group but always take exactly two operands.
func (k Kind) IsFoldable() bool { return foldableSet.Test(k.index()) }

// MinArity returns the smallest arity k accepts. Leaves (including
// Dynamic, which [Tree.Validate] also requires to have arity 0)
// report 0; unary kinds report 1. Every foldable kind also reports 1:
// arity 1 is a fold edge case across the whole group, not just Sub/Div
// (negate/reciprocal) — Add/Mul/Fmax/Fmin are the identity on their
// sole child.
func (k Kind) MinArity() int {
	switch {
	case k.IsLeaf():
		return 0
	case k.IsUnary():
		return 1
	case k.IsFoldable():
		return 1
	case k.IsVariadic():
		return 2
	default:
		return 0
	}
}

// Valid reports whether k is one of the closed enumeration's members.
func (k Kind) Valid() bool { return k < numKinds }
