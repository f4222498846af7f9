// Package solver provides the root-finding capability behind the network
// solve.
//
// A [Solver] drives a vector function [Func] to a root from an initial guess.
// The network package only depends on the interface, so a hand-written
// iteration or an external numerical library can be substituted without
// touching the equation system or the cost sweep.
//
// # Newton
//
// [Newton] is the default implementation: a damped Newton iteration with
//
//   - a central-difference Jacobian (gonum diff/fd),
//   - row equilibration followed by an LU solve (gonum mat),
//   - a backtracking line search on the squared residual norm.
//
// The iteration is deterministic: identical inputs always produce the same
// iterates bit for bit. It stops when the largest absolute residual is at
// most Tol, and fails with [ErrNotConverged], [ErrSingularJacobian] or
// [ErrNonFinite] otherwise. A failed solve still returns a [Result]
// describing the last iterate so callers can report it.
//
//	n := solver.NewNewton()
//	res, err := n.Solve(func(dst, x []float64) {
//	    dst[0] = x[0]*x[0] - 2
//	}, []float64{1})
package solver
