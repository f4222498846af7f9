package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipeflow/pkg/cache"
	"github.com/matzehuels/pipeflow/pkg/cost"
	"github.com/matzehuels/pipeflow/pkg/hydraulics"
	"github.com/matzehuels/pipeflow/pkg/network"
	"github.com/matzehuels/pipeflow/pkg/observability"
	"github.com/matzehuels/pipeflow/pkg/optimize"
)

// Runner encapsulates solver execution with caching.
// Both CLI and API use this to avoid duplicating wiring.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SolveResult is the outcome of a single solve.
type SolveResult struct {
	Solution *network.Solution `json:"solution"`
	Cost     cost.Point        `json:"cost"`
	Power    float64           `json:"power"` // W
	CacheHit bool              `json:"cache_hit"`
	Duration time.Duration     `json:"duration"`

	// Network is the solved network, for rendering. Not serialized.
	Network *network.Network `json:"-"`
}

// OptimizeResult is the outcome of a sweep.
type OptimizeResult struct {
	*optimize.Result
	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration"`
}

// Summary returns the one-line verdict of a sweep.
func (r *OptimizeResult) Summary() string {
	return fmt.Sprintf("Minimum TAC is $%.2f/year. Optimum diameter is %.5g metres", r.Best.Total, r.Best.Diameter)
}

// Solve computes the flow distribution at the configured diameter.
func (r *Runner) Solve(ctx context.Context, opts Options) (*SolveResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	net, err := opts.Config.Network()
	if err != nil {
		return nil, err
	}
	model, err := opts.Config.CostModel()
	if err != nil {
		return nil, err
	}
	d := opts.SolveDiameter()
	s := opts.Config.Newton()

	key, err := r.solveKey(net, opts)
	if err != nil {
		return nil, err
	}

	sol, hit := r.cachedSolution(ctx, key, opts.Refresh)
	if !hit {
		observability.Solver().OnSolveStart(ctx, d)
		solveStart := time.Now()
		sol, err = net.Solve(s, d)
		iterations := 0
		if sol != nil {
			iterations = sol.Iterations
		}
		observability.Solver().OnSolveComplete(ctx, d, iterations, time.Since(solveStart), err)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(sol); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLSolution)
		}
	}

	res := &SolveResult{
		Solution: sol,
		Cost:     model.Evaluate(sol, net.TotalLength()),
		Power:    sol.HydraulicPower(),
		CacheHit: hit,
		Duration: time.Since(start),
		Network:  net,
	}
	r.Logger.Info("solved network",
		"diameter", d,
		"iterations", sol.Iterations,
		"residual", sol.Residual,
		"cached", hit,
		"duration", res.Duration)
	return res, nil
}

// Optimize sweeps the configured diameter grid.
func (r *Runner) Optimize(ctx context.Context, opts Options) (*OptimizeResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	net, err := opts.Config.Network()
	if err != nil {
		return nil, err
	}
	model, err := opts.Config.CostModel()
	if err != nil {
		return nil, err
	}
	grid, err := opts.SweepGrid()
	if err != nil {
		return nil, err
	}

	key, err := r.sweepKey(net, grid, opts)
	if err != nil {
		return nil, err
	}
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached optimize.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				r.Logger.Debug("sweep served from cache", "points", len(cached.Curve))
				return &OptimizeResult{Result: &cached, CacheHit: true, Duration: time.Since(start)}, nil
			}
		}
	}

	opt := &optimize.Optimizer{
		Network: net,
		Solver:  opts.Config.Newton(),
		Cost:    model,
		Workers: opts.SweepWorkers(),
		Logger:  r.Logger,
	}
	res, err := opt.Optimize(ctx, grid)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLSweep)
	}
	return &OptimizeResult{Result: res, Duration: time.Since(start)}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedSolution(ctx context.Context, key string, refresh bool) (*network.Solution, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var sol network.Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		return nil, false
	}
	return &sol, true
}

// networkFingerprint covers every network input that changes flows.
type networkFingerprint struct {
	Topology  network.Topology `json:"topology"`
	Fluid     hydraulics.Fluid `json:"fluid"`
	Demand    float64          `json:"demand"`
	Tolerance float64          `json:"tolerance"`
}

func networkHash(net *network.Network) (string, error) {
	return cache.HashJSON(networkFingerprint{
		Topology:  net.Topology(),
		Fluid:     net.Fluid(),
		Demand:    net.Demand(),
		Tolerance: net.Tolerance(),
	})
}

func (r *Runner) solveKey(net *network.Network, opts Options) (string, error) {
	nh, err := networkHash(net)
	if err != nil {
		return "", err
	}
	sh, err := cache.HashJSON(opts.Config.Solver)
	if err != nil {
		return "", err
	}
	return r.Keyer.SolveKey(nh, opts.SolveDiameter(), cache.SolveKeyOpts{SolverHash: sh}), nil
}

func (r *Runner) sweepKey(net *network.Network, grid []float64, opts Options) (string, error) {
	nh, err := networkHash(net)
	if err != nil {
		return "", err
	}
	sh, err := cache.HashJSON(opts.Config.Solver)
	if err != nil {
		return "", err
	}
	ch, err := cache.HashJSON(opts.Config.Cost)
	if err != nil {
		return "", err
	}
	return r.Keyer.SweepKey(nh, cache.SweepKeyOpts{Grid: grid, CostHash: ch, SolverHash: sh}), nil
}
