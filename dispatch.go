package evalcore

import (
	"fmt"

	"github.com/exprforge/evalcore/internal/sparse"
)

// Kernel is the uniform per-batch kernel signature:
//
//	kernel(workBuffer, nodes, parentIndex, rowBlock) -> void
//
// work holds one column per tree node; work[i][:n] is node i's values
// over the current row block. A kernel for node kind K at parent p
// reads work[c][:n] for each child c of p (see [Tree.Children]) and
// writes work[p][:n]. Kernels never allocate and never read outside
// [0:n).
type Kernel[T any] func(work [][]T, nodes []Node, parent, n int)

// DispatchTable maps (Kind, T) to a [Kernel][T], keyed by the node
// kind's stable index. It is built once at construction and read-only
// for the rest of its life: the kind space is a closed set of at most
// 256 members, exactly what [sparse.Array256]'s popcount-compressed,
// allocation-free Get/MustGet was built for.
type DispatchTable[T any] struct {
	kernels sparse.Array256[Kernel[T]]

	// buffers pools the row-block work matrices Evaluate and Jacobian
	// use. It lives here, rather than being threaded through every
	// call, because the table is the one object callers already hold
	// for the lifetime of many evaluations of type T.
	buffers workPool[T]
}

// NewDispatchTable returns an empty table. Use [RegisterFloatKernels] or
// [RegisterDualKernels] to populate the built-in arithmetic, or
// [DispatchTable.Register] to add a Dynamic kernel.
func NewDispatchTable[T any]() *DispatchTable[T] {
	return &DispatchTable[T]{}
}

// Register binds kind to a kernel. Constant and Variable are handled
// directly by the interpreter and can never be registered here;
// registering over them is a contract violation. Registering Dynamic
// is allowed: a Dynamic node with no registration fails at evaluation
// time rather than being silently ignored.
func (d *DispatchTable[T]) Register(kind Kind, k Kernel[T]) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: kind %d", ErrMissingKernel, kind)
	}
	if kind == Constant || kind == Variable {
		return fmt.Errorf("evalcore: %s is evaluated by the interpreter, it cannot take a kernel", kind)
	}
	d.kernels.InsertAt(kind.index(), k)
	return nil
}

// tryGet returns the kernel for kind, or ok=false if none is
// registered (always false for Constant/Variable/unregistered Dynamic;
// leaves always map to empty).
func (d *DispatchTable[T]) tryGet(kind Kind) (Kernel[T], bool) {
	return d.kernels.Get(kind.index())
}

// IsRegistered reports whether kind currently has a kernel.
func (d *DispatchTable[T]) IsRegistered(kind Kind) bool {
	return d.kernels.Test(kind.index())
}

// Len returns the number of kinds with a registered kernel.
func (d *DispatchTable[T]) Len() int { return d.kernels.Len() }
