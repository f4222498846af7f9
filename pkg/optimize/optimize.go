package optimize

import (
	"context"
	stderrors "errors"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pipeflow/pkg/cost"
	"github.com/matzehuels/pipeflow/pkg/errors"
	"github.com/matzehuels/pipeflow/pkg/network"
	"github.com/matzehuels/pipeflow/pkg/observability"
	"github.com/matzehuels/pipeflow/pkg/solver"
)

// Skip records a diameter that was dropped from the curve because its
// solve did not converge.
type Skip struct {
	Diameter   float64 `json:"diameter"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	Reason     string  `json:"reason"`
}

// Result is the outcome of a sweep.
type Result struct {
	Best    cost.Point   `json:"best"`
	Curve   []cost.Point `json:"curve"`             // converged points, diameter-ascending
	Skipped []Skip       `json:"skipped,omitempty"` // non-converged diameters, diameter-ascending
}

// Optimizer runs diameter sweeps over one network.
//
// Only Network is required. A nil Solver uses solver.NewNewton, a nil Cost
// uses cost.DefaultParams, Workers <= 0 uses GOMAXPROCS, and a nil Logger
// discards output. An Optimizer is safe for concurrent use.
type Optimizer struct {
	Network *network.Network
	Solver  solver.Solver
	Cost    *cost.Model
	Workers int
	Logger  *log.Logger
}

// slot holds the outcome of one grid point. Each worker writes only its own.
type slot struct {
	point cost.Point
	skip  *Skip
}

// Optimize evaluates the total annualized cost at every diameter of grid
// and returns the curve with its minimum. Ties go to the smaller diameter.
//
// grid must be non-empty, strictly ascending and positive. Errors other than
// non-convergence abort the sweep, as does cancelling ctx.
func (o *Optimizer) Optimize(ctx context.Context, grid []float64) (*Result, error) {
	if o.Network == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "optimizer has no network")
	}
	if err := errors.ValidateAscending("diameter grid", grid); err != nil {
		return nil, err
	}

	var (
		s       = o.solver()
		model   = o.model()
		logger  = o.logger()
		hooks   = observability.Sweep()
		total   = o.Network.TotalLength()
		slots   = make([]slot, len(grid))
		started = time.Now()
	)

	logger.Debug("sweep started", "points", len(grid), "workers", o.workers())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i, d := range grid {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sol, err := o.Network.Solve(s, d)
			if err != nil {
				var ce *errors.ConvergenceError
				if !stderrors.As(err, &ce) {
					return err
				}
				slots[i].skip = &Skip{
					Diameter:   d,
					Iterations: ce.Iterations,
					Residual:   ce.Residual,
					Reason:     errors.UserMessage(err),
				}
				logger.Warn("diameter skipped", "diameter", d, "iterations", ce.Iterations, "residual", ce.Residual)
				hooks.OnPoint(gctx, d, 0, err)
				return nil
			}
			p := model.Evaluate(sol, total)
			slots[i].point = p
			logger.Debug("diameter evaluated", "diameter", d, "iterations", sol.Iterations, "total", p.Total)
			hooks.OnPoint(gctx, d, p.Total, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		hooks.OnSweepComplete(ctx, 0, 0, time.Since(started), err)
		return nil, err
	}

	res := collect(slots)
	duration := time.Since(started)
	if len(res.Curve) == 0 {
		err := errors.New(errors.ErrCodeNoConvergedDiameter,
			"none of the %d diameters converged", len(grid))
		hooks.OnSweepComplete(ctx, 0, len(res.Skipped), duration, err)
		return nil, err
	}
	res.Best = best(res.Curve)

	logger.Info("sweep finished",
		"points", len(res.Curve),
		"skipped", len(res.Skipped),
		"best", res.Best.Diameter,
		"duration", duration)
	hooks.OnSweepComplete(ctx, len(res.Curve), len(res.Skipped), duration, nil)
	return res, nil
}

// collect flattens slots in grid order.
func collect(slots []slot) *Result {
	res := &Result{Curve: make([]cost.Point, 0, len(slots))}
	for _, s := range slots {
		if s.skip != nil {
			res.Skipped = append(res.Skipped, *s.skip)
			continue
		}
		res.Curve = append(res.Curve, s.point)
	}
	return res
}

// best returns the cheapest point of a non-empty, diameter-ascending curve.
// Only a strictly lower total replaces the incumbent, so ties keep the
// smaller diameter.
func best(curve []cost.Point) cost.Point {
	b := curve[0]
	for _, p := range curve[1:] {
		if p.Total < b.Total {
			b = p
		}
	}
	return b
}

func (o *Optimizer) solver() solver.Solver {
	if o.Solver != nil {
		return o.Solver
	}
	return solver.NewNewton()
}

func (o *Optimizer) model() *cost.Model {
	if o.Cost != nil {
		return o.Cost
	}
	return &cost.Model{Params: cost.DefaultParams()}
}

func (o *Optimizer) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o *Optimizer) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}
