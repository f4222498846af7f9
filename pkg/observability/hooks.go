// Package observability provides hooks for metrics, tracing, and progress
// reporting.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about single solves and diameter sweeps.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the numerical packages
// never import a metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSweepHooks(&progressHooks{bar: bar})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnSolveStart(ctx, diameter)
//	sol, err := net.Solve(s, diameter)
//	observability.Solver().OnSolveComplete(ctx, diameter, iterations, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from single network solves.
type SolverHooks interface {
	// OnSolveStart fires before the root-finder starts at diameter (m).
	OnSolveStart(ctx context.Context, diameter float64)

	// OnSolveComplete fires once the solve has finished, successfully or not.
	OnSolveComplete(ctx context.Context, diameter float64, iterations int, duration time.Duration, err error)
}

// =============================================================================
// Sweep Hooks
// =============================================================================

// SweepHooks receives events from diameter sweeps.
type SweepHooks interface {
	// OnPoint fires once per grid diameter, in completion order. total is
	// the annualized cost, or zero when err is non-nil.
	OnPoint(ctx context.Context, diameter, total float64, err error)

	// OnSweepComplete fires after the last diameter has been processed.
	OnSweepComplete(ctx context.Context, points, skipped int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolveStart(context.Context, float64)                               {}
func (NoopSolverHooks) OnSolveComplete(context.Context, float64, int, time.Duration, error) {}

// NoopSweepHooks is a no-op implementation of SweepHooks.
type NoopSweepHooks struct{}

func (NoopSweepHooks) OnPoint(context.Context, float64, float64, error)                {}
func (NoopSweepHooks) OnSweepComplete(context.Context, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	sweepHooks  SweepHooks  = NoopSweepHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any solve.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetSweepHooks registers custom sweep hooks.
// This should be called once at application startup before any sweep.
func SetSweepHooks(h SweepHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sweepHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Sweep returns the registered sweep hooks.
func Sweep() SweepHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sweepHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	sweepHooks = NoopSweepHooks{}
}
