package solver

import "errors"

// Func evaluates a vector function at x and writes the result into dst.
// len(dst) == len(x); implementations must not retain either slice.
type Func func(dst, x []float64)

// Solver finds x such that f(x) = 0, starting from x0.
type Solver interface {
	Solve(f Func, x0 []float64) (*Result, error)
}

// Result describes the final iterate of a solve.
type Result struct {
	X          []float64 // Last iterate (the root on success)
	Iterations int       // Jacobian evaluations performed
	Residual   float64   // Largest absolute entry of f(X)
}

// Sentinel errors returned by solvers. Use errors.Is to match them.
var (
	// ErrNotConverged is returned when the tolerance is not reached within
	// the iteration limit, or the line search cannot reduce the residual.
	ErrNotConverged = errors.New("solver: did not converge")

	// ErrSingularJacobian is returned when the linearized system cannot be
	// solved reliably.
	ErrSingularJacobian = errors.New("solver: singular jacobian")

	// ErrNonFinite is returned when the function produces NaN or Inf at the
	// starting point or along every trial step.
	ErrNonFinite = errors.New("solver: non-finite residual")

	// ErrBadInput is returned for an empty starting vector.
	ErrBadInput = errors.New("solver: empty initial guess")
)
