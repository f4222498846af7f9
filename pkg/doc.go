// Package pkg provides the core libraries for pipeflow pipe network sizing.
//
// # Overview
//
// Pipeflow computes the steady-state flow distribution of a looped pipe
// network pumping a Newtonian fluid, then sweeps the common pipe diameter to
// find the design with the lowest total annualized cost (pumping energy plus
// annualized pipe capital).
//
// # Architecture
//
// The typical data flow:
//
//	config file / API request
//	         ↓
//	    [config] (fluid, piping, economics, solver, sweep)
//	         ↓
//	    [network] + [hydraulics] (residual equations, friction)
//	         ↓
//	    [solver] (damped Newton)
//	         ↓
//	    [cost] → [optimize] (diameter sweep)
//	         ↓
//	    [render] (network diagram, cost chart)
//
// [pipeline] wires these together with [cache] and [observability] hooks so
// the CLI and the HTTP API behave the same.
//
// # Main Packages
//
// [hydraulics] - Fluid properties, blends, Reynolds number and the Churchill
// friction factor with a laminar floor.
//
// [network] - Topology of sections, junctions and loops; the residual vector
// of mass balances and loop head losses; single solves.
//
// [solver] - Damped Newton-Raphson on a finite-difference Jacobian with
// equilibration and conditioning checks.
//
// [cost] - Annual operating, capital and total cost of a solved design.
//
// [optimize] - Concurrent diameter sweeps returning the cost curve, its
// minimum and the diameters that did not converge.
//
// [errors] - Coded errors shared by every layer.
//
// # Quick Start
//
//	cfg := config.Default()
//	net, _ := cfg.Network()
//	sol, _ := net.Solve(cfg.Newton(), 0.0254)
//	model, _ := cfg.CostModel()
//	fmt.Printf("TAC $%.2f/yr\n", model.Evaluate(sol, net.TotalLength()).Total)
//
// [hydraulics]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/hydraulics
// [network]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/network
// [solver]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/solver
// [cost]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/cost
// [optimize]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/optimize
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/errors
//
// [config]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/pipeflow/pkg/render
package pkg
