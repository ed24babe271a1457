package evalcore

import "errors"

// Contract violations: malformed input from the caller, including a
// missing kernel for a registered inner kind. These are never trapped
// or retried; they are always returned up to the caller, never
// panicked — see [DispatchTable.tryGet].
var (
	ErrEmptyTree        = errors.New("evalcore: tree is empty")
	ErrMalformedTree    = errors.New("evalcore: tree violates the postorder length/arity invariant")
	ErrOptimizeOnInner  = errors.New("evalcore: optimize is set on a non-leaf node")
	ErrUnknownVariable  = errors.New("evalcore: variable hash not known to dataset")
	ErrOutputSizeMismatch = errors.New("evalcore: output span size does not match range size")
	ErrMissingKernel    = errors.New("evalcore: no kernel registered for node kind")
	ErrParameterCount   = errors.New("evalcore: parameter vector length does not match optimize-marked leaf count")
	ErrInvalidRange     = errors.New("evalcore: range end precedes start")
	ErrDualDimension    = errors.New("evalcore: dual dimension must be positive")
)
