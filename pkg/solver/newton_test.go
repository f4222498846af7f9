package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circleLine(dst, x []float64) {
	dst[0] = x[0]*x[0] + x[1]*x[1] - 4
	dst[1] = x[0] - x[1]
}

func TestNewtonLinear(t *testing.T) {
	f := func(dst, x []float64) {
		dst[0] = 2*x[0] + x[1] - 3
		dst[1] = x[0] - x[1]
	}
	res, err := NewNewton().Solve(f, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations, "a linear system needs one Newton step")
	assert.InDelta(t, 1, res.X[0], 1e-9)
	assert.InDelta(t, 1, res.X[1], 1e-9)
}

func TestNewtonNonlinear(t *testing.T) {
	res, err := NewNewton().Solve(circleLine, []float64{1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X[0], 1e-6)
	assert.InDelta(t, math.Sqrt2, res.X[1], 1e-6)
	assert.LessOrEqual(t, res.Residual, DefaultTol)
}

func TestNewtonBadlyScaledRows(t *testing.T) {
	// One mass-balance-like row of order 1e-3 and one pressure-like row
	// of order 1e3, the shape of the network equations.
	f := func(dst, x []float64) {
		dst[0] = x[0] - x[1] - 1e-3
		dst[1] = 1e9 * (x[0]*x[0] - 4*x[1]*x[1])
	}
	res, err := NewNewton().Solve(f, []float64{1.5e-3, 0.8e-3})
	require.NoError(t, err)
	assert.InDelta(t, 2e-3, res.X[0], 1e-12)
	assert.InDelta(t, 1e-3, res.X[1], 1e-12)
}

func TestNewtonDoesNotModifyGuess(t *testing.T) {
	x0 := []float64{1, 0.5}
	_, err := NewNewton().Solve(circleLine, x0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, x0)
}

func TestNewtonDeterministic(t *testing.T) {
	n := NewNewton()
	a, err := n.Solve(circleLine, []float64{3, -1})
	require.NoError(t, err)
	b, err := n.Solve(circleLine, []float64{3, -1})
	require.NoError(t, err)

	require.Equal(t, a.Iterations, b.Iterations)
	for i := range a.X {
		assert.Equal(t, math.Float64bits(a.X[i]), math.Float64bits(b.X[i]), "component %d", i)
	}
}

func TestNewtonErrors(t *testing.T) {
	tests := []struct {
		name    string
		solver  *Newton
		f       Func
		x0      []float64
		wantErr error
	}{
		{
			name:   "singular jacobian",
			solver: NewNewton(),
			f: func(dst, x []float64) {
				dst[0] = x[0] + x[1] - 1
				dst[1] = 2*x[0] + 2*x[1] - 1
			},
			x0:      []float64{0, 0},
			wantErr: ErrSingularJacobian,
		},
		{
			name:   "zero jacobian row",
			solver: NewNewton(),
			f: func(dst, x []float64) {
				dst[0] = x[0] - 1
				dst[1] = 5
			},
			x0:      []float64{0, 0},
			wantErr: ErrSingularJacobian,
		},
		{
			name:   "nan at start",
			solver: NewNewton(),
			f: func(dst, x []float64) {
				dst[0] = math.Log(x[0])
			},
			x0:      []float64{-1},
			wantErr: ErrNonFinite,
		},
		{
			name:    "iteration limit",
			solver:  &Newton{Tol: 1e-12, MaxIterations: 1, MaxCondition: DefaultMaxCondition, MinDamping: DefaultMinDamping},
			f:       circleLine,
			x0:      []float64{3, -1},
			wantErr: ErrNotConverged,
		},
		{
			name:    "empty guess",
			solver:  NewNewton(),
			f:       circleLine,
			x0:      nil,
			wantErr: ErrBadInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.solver.Solve(tt.f, tt.x0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewtonPartialResultOnFailure(t *testing.T) {
	n := NewNewton()
	n.MaxIterations = 1
	n.Tol = 1e-15
	res, err := n.Solve(circleLine, []float64{3, -1})
	require.ErrorIs(t, err, ErrNotConverged)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Iterations)
	assert.Greater(t, res.Residual, 0.0)
}

func TestNewtonValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Newton)
	}{
		{"zero tol", func(n *Newton) { n.Tol = 0 }},
		{"zero iterations", func(n *Newton) { n.MaxIterations = 0 }},
		{"negative step", func(n *Newton) { n.Step = -1 }},
		{"condition below one", func(n *Newton) { n.MaxCondition = 0.5 }},
		{"damping of one", func(n *Newton) { n.MinDamping = 1 }},
	}

	require.NoError(t, NewNewton().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNewton()
			tt.mutate(n)
			assert.Error(t, n.Validate())
			_, err := n.Solve(circleLine, []float64{1, 1})
			assert.Error(t, err)
		})
	}
}

func TestNewtonFixedStep(t *testing.T) {
	n := NewNewton()
	n.Step = 1e-7
	res, err := n.Solve(circleLine, []float64{1, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, res.X[0], 1e-6)
}
