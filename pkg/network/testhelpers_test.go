package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pipeflow/pkg/hydraulics"
	"github.com/matzehuels/pipeflow/pkg/solver"
)

const (
	testDemand   = 72.0 / (60 * 1000) // 72 L/min
	testDiameter = 0.0254
)

var testFluid = hydraulics.Fluid{Density: 1072.75, Viscosity: 0.010815, Roughness: 5e-5}

func newTestNetwork(t *testing.T) *Network {
	t.Helper()
	net, err := New(DefaultTopology(), testFluid, testDemand)
	require.NoError(t, err)
	return net
}

// stubSolver returns a fixed result, for exercising Solve's error paths.
type stubSolver struct {
	res *solver.Result
	err error
}

func (s stubSolver) Solve(solver.Func, []float64) (*solver.Result, error) {
	return s.res, s.err
}
