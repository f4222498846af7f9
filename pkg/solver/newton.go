package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Default Newton settings.
const (
	DefaultTol           = 1e-6
	DefaultMaxIterations = 100
	DefaultMaxCondition  = 1e12
	DefaultMinDamping    = 1e-10

	// armijo is the sufficient-decrease constant of the line search.
	armijo = 1e-4
)

// stepScale is the relative central-difference step, cbrt(machine epsilon).
var stepScale = math.Cbrt(0x1p-52)

// Newton is a damped Newton–Raphson solver with a finite-difference Jacobian.
// The zero value is not usable; start from NewNewton and override fields.
type Newton struct {
	// Tol is the convergence threshold on max|f_i(x)|. It is absolute and
	// shared by every row, so systems that mix units (m³/s mass balances
	// and Pa loop balances) need rows of comparable magnitude. Loop rows
	// near 1e10 Pa, as in pipes under about half an inch, cannot reach
	// 1e-6 in double precision and end with [ErrNotConverged].
	Tol float64 `json:"tol" toml:"tol" yaml:"tol"`

	// MaxIterations bounds the number of Newton steps.
	MaxIterations int `json:"max_iterations" toml:"max_iterations" yaml:"max_iterations"`

	// Step is the absolute finite-difference step. Zero selects a step
	// proportional to the largest component of the current iterate.
	Step float64 `json:"step,omitempty" toml:"step" yaml:"step,omitempty"`

	// MaxCondition is the largest acceptable condition number of the
	// row-equilibrated Jacobian.
	MaxCondition float64 `json:"max_condition" toml:"max_condition" yaml:"max_condition"`

	// MinDamping is the smallest line-search step fraction tried before the
	// iteration is declared stalled.
	MinDamping float64 `json:"min_damping" toml:"min_damping" yaml:"min_damping"`
}

// NewNewton returns a Newton solver with default settings.
func NewNewton() *Newton {
	return &Newton{
		Tol:           DefaultTol,
		MaxIterations: DefaultMaxIterations,
		MaxCondition:  DefaultMaxCondition,
		MinDamping:    DefaultMinDamping,
	}
}

// Validate checks that the settings can drive an iteration.
func (n *Newton) Validate() error {
	if !(n.Tol > 0) {
		return fmt.Errorf("newton: tol must be positive, got %g", n.Tol)
	}
	if n.MaxIterations <= 0 {
		return fmt.Errorf("newton: max_iterations must be positive, got %d", n.MaxIterations)
	}
	if n.Step < 0 {
		return fmt.Errorf("newton: step must not be negative, got %g", n.Step)
	}
	if !(n.MaxCondition > 1) {
		return fmt.Errorf("newton: max_condition must exceed 1, got %g", n.MaxCondition)
	}
	if !(n.MinDamping > 0 && n.MinDamping < 1) {
		return fmt.Errorf("newton: min_damping must be in (0, 1), got %g", n.MinDamping)
	}
	return nil
}

// Solve runs the damped Newton iteration from x0. x0 is not modified.
func (n *Newton) Solve(f Func, x0 []float64) (*Result, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	dim := len(x0)
	if dim == 0 {
		return nil, ErrBadInput
	}

	x := append([]float64(nil), x0...)
	r := make([]float64, dim)
	f(r, x)
	res := &Result{X: x, Residual: maxAbs(r)}
	if !allFinite(r) {
		return res, fmt.Errorf("%w at initial guess", ErrNonFinite)
	}

	var (
		jac   = mat.NewDense(dim, dim, nil)
		rhs   = mat.NewVecDense(dim, nil)
		dx    = mat.NewVecDense(dim, nil)
		lu    mat.LU
		trial = make([]float64, dim)
		rt    = make([]float64, dim)
	)

	for {
		if res.Residual <= n.Tol {
			return res, nil
		}
		if res.Iterations == n.MaxIterations {
			return res, fmt.Errorf("%w: %d iterations, residual %.3g", ErrNotConverged, res.Iterations, res.Residual)
		}
		res.Iterations++

		fd.Jacobian(jac, f, x, &fd.JacobianSettings{
			Formula: fd.Central,
			Step:    n.step(x),
		})
		for i := 0; i < dim; i++ {
			rhs.SetVec(i, -r[i])
		}
		if err := equilibrate(jac, rhs); err != nil {
			return res, err
		}

		lu.Factorize(jac)
		if cond := lu.Cond(); math.IsNaN(cond) || cond > n.MaxCondition {
			return res, fmt.Errorf("%w: condition number %.3g", ErrSingularJacobian, cond)
		}
		if err := lu.SolveVecTo(dx, false, rhs); err != nil {
			return res, fmt.Errorf("%w: %v", ErrSingularJacobian, err)
		}

		phi0 := floats.Dot(r, r)
		alpha := 1.0
		for {
			for i := range trial {
				trial[i] = x[i] + alpha*dx.AtVec(i)
			}
			f(rt, trial)
			if allFinite(rt) && allFinite(trial) && floats.Dot(rt, rt) <= (1-2*armijo*alpha)*phi0 {
				break
			}
			alpha /= 2
			if alpha < n.MinDamping {
				if !allFinite(rt) {
					return res, fmt.Errorf("%w along newton direction", ErrNonFinite)
				}
				return res, fmt.Errorf("%w: line search stalled at residual %.3g", ErrNotConverged, res.Residual)
			}
		}

		copy(x, trial)
		copy(r, rt)
		res.Residual = maxAbs(r)
	}
}

// step returns the finite-difference step for iterate x.
func (n *Newton) step(x []float64) float64 {
	if n.Step > 0 {
		return n.Step
	}
	scale := maxAbs(x)
	if scale == 0 {
		scale = 1
	}
	return stepScale * scale
}

// equilibrate scales every row of a and the matching entry of b by the
// row's largest magnitude, so mass-balance rows (order 1) and pressure rows
// (order 1e9) contribute equally to the condition estimate.
func equilibrate(a *mat.Dense, b *mat.VecDense) error {
	rows, _ := a.Dims()
	for i := 0; i < rows; i++ {
		row := a.RawRowView(i)
		m := maxAbs(row)
		if m == 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("%w: row %d is zero or non-finite", ErrSingularJacobian, i)
		}
		floats.Scale(1/m, row)
		b.SetVec(i, b.AtVec(i)/m)
	}
	return nil
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if math.IsNaN(x) {
			return x
		}
		m = math.Max(m, math.Abs(x))
	}
	return m
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
