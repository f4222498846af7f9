// Package network describes a pipe network and solves for its steady-state
// flow distribution.
//
// A [Topology] lists the pipe sections (the unknown flows), the junctions
// (mass balances) and the independent loops (energy balances). The equation
// system has exactly one equation per unknown:
//
//	junction j:  Σ q[in] − Σ q[out] − DemandFactor·demand = 0
//	loop k:      Σ ΔP(q[forward]) − Σ ΔP(q[reverse]) = 0
//
// A [Network] binds a validated topology to a fluid and the boundary demand.
// It is immutable once built and safe for concurrent use, so one value can
// be shared by every worker of a diameter sweep.
//
// # Solving
//
// [Network.Solve] builds the initial guess from the topology's [GuessRule]
// list, hands [Network.ResidualFunc] to a [solver.Solver] and verifies the
// returned flows against the residual tolerance before accepting them:
//
//	net, err := network.New(network.DefaultTopology(), fluid, 72.0/60000)
//	sol, err := net.Solve(solver.NewNewton(), 0.0254)
//	for i, label := range sol.Labels {
//	    fmt.Println(label, sol.Flows[i], sol.PressureDrops[i])
//	}
//
// Solve never returns flows that violate the tolerance: a failed iteration
// surfaces as *errors.ConvergenceError. The tolerance is absolute across
// mass rows (m³/s) and loop rows (Pa), so very small diameters whose loop
// pressure drops approach 1e10 Pa fail explicitly instead of converging.
package network
