package network

import (
	stderrors "errors"
	"math"

	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/hydraulics"
	"github.com/matzehuels/pipeflow/pkg/solver"
)

// DefaultTolerance is the largest accepted absolute residual of a solution.
const DefaultTolerance = solver.DefaultTol

// FlowVector holds one signed flow rate (m³/s) per section, in index order.
type FlowVector []float64

// Network is an immutable pipe network: topology, fluid and boundary demand.
type Network struct {
	topo      Topology
	fluid     hydraulics.Fluid
	demand    float64
	tolerance float64
}

// Option configures a Network.
type Option func(*Network)

// WithTolerance sets the residual tolerance Solve enforces on solutions.
func WithTolerance(tol float64) Option {
	return func(n *Network) { n.tolerance = tol }
}

// New validates its inputs and returns a Network holding its own copy of topo.
// Invalid values are rejected with errors.ErrCodeDomain, structural problems
// with errors.ErrCodeInvalidInput or errors.ErrCodeDegenerateTopology.
func New(topo Topology, fluid hydraulics.Fluid, demand float64, opts ...Option) (*Network, error) {
	if err := fluid.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("boundary demand", demand); err != nil {
		return nil, err
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	n := &Network{
		topo:      topo.Clone(),
		fluid:     fluid,
		demand:    demand,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := errors.ValidatePositive("tolerance", n.tolerance); err != nil {
		return nil, err
	}
	return n, nil
}

// Topology returns a copy of the network topology.
func (n *Network) Topology() Topology { return n.topo.Clone() }

// Fluid returns the fluid properties.
func (n *Network) Fluid() hydraulics.Fluid { return n.fluid }

// Demand returns the boundary demand (m³/s).
func (n *Network) Demand() float64 { return n.demand }

// Tolerance returns the residual tolerance enforced by Solve.
func (n *Network) Tolerance() float64 { return n.tolerance }

// Size returns the number of unknown flows.
func (n *Network) Size() int { return len(n.topo.Sections) }

// TotalLength returns the summed length of all sections (m).
func (n *Network) TotalLength() float64 { return n.topo.TotalLength() }

// Labels returns the section labels in index order.
func (n *Network) Labels() []string {
	out := make([]string, len(n.topo.Sections))
	for i, s := range n.topo.Sections {
		out[i] = s.Label
	}
	return out
}

// WithDemand returns a copy of n with a different boundary demand.
func (n *Network) WithDemand(demand float64) (*Network, error) {
	return New(n.topo, n.fluid, demand, WithTolerance(n.tolerance))
}

// PressureDrop returns the signed pressure loss of section i at the given flow.
func (n *Network) PressureDrop(i int, flow, diameter float64) float64 {
	return hydraulics.PressureDrop(flow, n.topo.Sections[i].Length, diameter, n.fluid)
}

// PressureDrops returns the signed pressure loss of every section.
func (n *Network) PressureDrops(flows FlowVector, diameter float64) []float64 {
	out := make([]float64, len(flows))
	for i, q := range flows {
		out[i] = n.PressureDrop(i, q, diameter)
	}
	return out
}

// Residual evaluates every balance equation at flows and writes the result
// to dst: junction rows first, then loop rows.
func (n *Network) Residual(dst []float64, flows FlowVector, diameter float64) {
	row := 0
	for _, j := range n.topo.Junctions {
		var r float64
		for _, k := range j.In {
			r += flows[k]
		}
		for _, k := range j.Out {
			r -= flows[k]
		}
		dst[row] = r - j.DemandFactor*n.demand
		row++
	}
	for _, l := range n.topo.Loops {
		var r float64
		for _, k := range l.Forward {
			r += n.PressureDrop(k, flows[k], diameter)
		}
		for _, k := range l.Reverse {
			r -= n.PressureDrop(k, flows[k], diameter)
		}
		dst[row] = r
		row++
	}
}

// ResidualFunc binds diameter and returns the residual as a solver.Func.
// Plain solves and sweeps share this one equation set.
func (n *Network) ResidualFunc(diameter float64) solver.Func {
	return func(dst, x []float64) {
		n.Residual(dst, x, diameter)
	}
}

// InitialGuess evaluates the topology's guess rules against the demand.
func (n *Network) InitialGuess() FlowVector {
	q := make(FlowVector, n.Size())
	for _, g := range n.topo.Guess {
		if len(g.From) == 0 {
			q[g.Section] = g.Scale * n.demand
			continue
		}
		var sum float64
		for _, k := range g.From {
			sum += q[k]
		}
		q[g.Section] = g.Scale * sum
	}
	return q
}

// Solution is a converged flow distribution for one diameter.
type Solution struct {
	Diameter      float64    `json:"diameter"`
	Labels        []string   `json:"labels"`
	Flows         FlowVector `json:"flows"`
	PressureDrops []float64  `json:"pressure_drops"`
	Residuals     []float64  `json:"residuals"`
	Iterations    int        `json:"iterations"`
	Residual      float64    `json:"residual"` // max |Residuals[i]|
}

// Solve computes the flow distribution at diameter using s.
//
// A non-positive diameter fails with errors.ErrCodeDomain before any
// iteration. Solver failures, and solver output that does not satisfy the
// network tolerance, are returned as *errors.ConvergenceError.
func (n *Network) Solve(s solver.Solver, diameter float64) (*Solution, error) {
	if err := errors.ValidatePositive("diameter", diameter); err != nil {
		return nil, err
	}

	res, err := s.Solve(n.ResidualFunc(diameter), n.InitialGuess())
	if err != nil {
		if res == nil {
			if stderrors.Is(err, solver.ErrBadInput) {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "solver rejected initial guess")
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "solver settings")
		}
		return nil, &errors.ConvergenceError{
			Diameter:   diameter,
			Iterations: res.Iterations,
			Residual:   res.Residual,
			Cause:      err,
		}
	}

	flows := append(FlowVector(nil), res.X...)
	residuals := make([]float64, len(flows))
	n.Residual(residuals, flows, diameter)

	worst := 0.0
	for _, r := range residuals {
		if math.IsNaN(r) || math.Abs(r) > worst {
			worst = math.Abs(r)
		}
	}
	if !(worst <= n.tolerance) {
		return nil, &errors.ConvergenceError{
			Diameter:   diameter,
			Iterations: res.Iterations,
			Residual:   worst,
			Cause:      solver.ErrNotConverged,
		}
	}

	return &Solution{
		Diameter:      diameter,
		Labels:        n.Labels(),
		Flows:         flows,
		PressureDrops: n.PressureDrops(flows, diameter),
		Residuals:     residuals,
		Iterations:    res.Iterations,
		Residual:      worst,
	}, nil
}

// HydraulicPower returns the total power (W) dissipated in the network by sol.
func (sol *Solution) HydraulicPower() float64 {
	var p float64
	for i, q := range sol.Flows {
		p += hydraulics.HydraulicPower(q, sol.PressureDrops[i])
	}
	return p
}
